package gesture

import "math"

// Class is a debounced (click-class) decision. At most one class is chosen
// per frame.
type Class int

const (
	ClassNone Class = iota
	ClassLeftClick
	ClassRightClick
	ClassScroll
	ClassCopy
	ClassPaste

	numClasses
)

func (c Class) String() string {
	switch c {
	case ClassLeftClick:
		return "left-click"
	case ClassRightClick:
		return "right-click"
	case ClassScroll:
		return "scroll"
	case ClassCopy:
		return "copy"
	case ClassPaste:
		return "paste"
	default:
		return "none"
	}
}

// Group separates the independent decisions made each frame. Every group
// takes at most one rule, so a move, a drag transition and one click-class
// action can all happen in the same frame.
type Group int

const (
	GroupPointer Group = iota
	GroupDrag
	GroupDiscrete
)

// Rule is one row of the classification table.
type Rule struct {
	Name  string
	Group Group
	Class Class
	Match func(cfg Config, f Facts, s State) bool
}

// Rules is the classification table in priority order. Within a group the
// first matching row wins; a discrete row that matches claims the frame even
// when its cooldown later suppresses it.
//
// Pinch bands, for thumb-index distance d:
//
//	d < DragBand.Inner                     left click (only when Inner > 0)
//	DragBand.Inner <= d < DragBand.Outer   drag starts
//	DragBand.Outer <= d < ClickThreshold   left click
//	d >= ClickThreshold                    no pinch
//
// Once dragging, the drag holds for any d < ClickThreshold and left click is
// suppressed, so the click/drag boundary has hysteresis.
var Rules = []Rule{
	{
		Name:  "move",
		Group: GroupPointer,
		Match: func(cfg Config, f Facts, s State) bool {
			return f.IndexUp && !f.MiddleUp
		},
	},
	{
		Name:  "drag",
		Group: GroupDrag,
		Match: func(cfg Config, f Facts, s State) bool {
			if s.Dragging {
				return f.ThumbIndex < cfg.ClickThreshold
			}
			return cfg.DragBand.Contains(f.ThumbIndex) && !copyPosture(cfg, f)
		},
	},
	{
		Name:  "left-click",
		Group: GroupDiscrete,
		Class: ClassLeftClick,
		Match: func(cfg Config, f Facts, s State) bool {
			return f.ThumbIndex < cfg.ClickThreshold &&
				!s.Dragging &&
				!cfg.DragBand.Contains(f.ThumbIndex) &&
				!copyPosture(cfg, f)
		},
	},
	{
		Name:  "right-click",
		Group: GroupDiscrete,
		Class: ClassRightClick,
		Match: func(cfg Config, f Facts, s State) bool {
			return f.IndexUp && f.MiddleUp && f.IndexMiddle < cfg.ClickThreshold
		},
	},
	{
		Name:  "scroll",
		Group: GroupDiscrete,
		Class: ClassScroll,
		Match: func(cfg Config, f Facts, s State) bool {
			return f.IndexUp && f.MiddleUp && f.IndexMiddle > cfg.ScrollThreshold
		},
	},
	{
		Name:  "copy",
		Group: GroupDiscrete,
		Class: ClassCopy,
		Match: func(cfg Config, f Facts, s State) bool {
			return copyPosture(cfg, f)
		},
	},
	{
		Name:  "paste",
		Group: GroupDiscrete,
		Class: ClassPaste,
		Match: func(cfg Config, f Facts, s State) bool {
			return f.ThumbRing < cfg.ClickThreshold && f.ThumbPinky < cfg.ClickThreshold
		},
	},
}

func copyPosture(cfg Config, f Facts) bool {
	return f.ThumbIndex < cfg.ClickThreshold && f.ThumbMiddle < cfg.ClickThreshold
}

// Decision is the classifier's verdict for one frame, before debouncing.
type Decision struct {
	// Move is set when the pointer should follow the index tip.
	Move bool

	// Drag is set while drag geometry holds (entering or holding).
	Drag bool

	// Class is the first matching click-class rule, or ClassNone.
	Class Class

	// ScrollDelta is meaningful when Class is ClassScroll; positive scrolls up.
	ScrollDelta int

	// Matched names every rule that claimed its group, in table order.
	Matched []string
}

// Classify runs the rule table over one frame's facts.
func Classify(cfg Config, f Facts, s State) Decision {
	var d Decision
	claimed := map[Group]bool{}

	for _, r := range Rules {
		if claimed[r.Group] || !r.Match(cfg, f, s) {
			continue
		}
		claimed[r.Group] = true
		d.Matched = append(d.Matched, r.Name)

		switch r.Group {
		case GroupPointer:
			d.Move = true
		case GroupDrag:
			d.Drag = true
		case GroupDiscrete:
			d.Class = r.Class
		}
	}

	if d.Class == ClassScroll {
		d.ScrollDelta = scrollDelta(cfg, f)
	}

	return d
}

// scrollDelta converts the index tip's height above the frame centre into
// scroll units. A finger above centre gives a positive (upward) delta.
func scrollDelta(cfg Config, f Facts) int {
	if cfg.ScrollDivisor <= 0 {
		return 0
	}
	return int(math.Round((f.CenterY - f.IndexTipY) / cfg.ScrollDivisor))
}
