package action

import "sync"

// Recorder is a Sink that records every call. Tests use it in place of a
// real input injector; FailOn makes a given kind return an error.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
	failOn  map[Kind]error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{failOn: make(map[Kind]error)}
}

// FailOn makes every call of the given kind fail with err. A nil err clears it.
func (r *Recorder) FailOn(kind Kind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failOn, kind)
		return
	}
	r.failOn[kind] = err
}

// Actions returns a copy of everything recorded so far.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Count returns how many recorded actions have the given kind.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears the recorded actions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}

func (r *Recorder) record(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[a.Kind]; ok {
		return err
	}
	r.actions = append(r.actions, a)
	return nil
}

func (r *Recorder) MoveCursor(x, y int) error { return r.record(Move(x, y)) }
func (r *Recorder) MouseDown() error { return r.record(MouseDown()) }
func (r *Recorder) MouseUp() error { return r.record(MouseUp()) }
func (r *Recorder) Click(button Button) error { return r.record(Click(button)) }
func (r *Recorder) Scroll(delta int) error { return r.record(Scroll(delta)) }
func (r *Recorder) KeyCombo(modifier, key string) error { return r.record(KeyCombo(modifier, key)) }
