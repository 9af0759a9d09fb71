package session

import "sync"

// InFlight prevents duplicate submission: a mutating action registers its
// operation id for the duration of the round trip and a second attempt with
// the same id is rejected locally. Purely advisory: it does not serialize
// other browser sessions racing on the same entity.
type InFlight struct {
	mu  sync.Mutex
	ops map[string]bool
}

func NewInFlight() *InFlight {
	return &InFlight{ops: map[string]bool{}}
}

// Begin registers the operation. Returns false if it is already in flight.
func (f *InFlight) Begin(opID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ops[opID] {
		return false
	}
	f.ops[opID] = true
	return true
}

// End releases the operation regardless of outcome.
func (f *InFlight) End(opID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ops, opID)
}

// Active reports whether the operation is currently in flight (drives the
// disabled state of the triggering control).
func (f *InFlight) Active(opID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ops[opID]
}

func (f *InFlight) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = map[string]bool{}
}
