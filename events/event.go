package events

import "sync"

// Event is a structured record of a completed state change. Attributes are
// string encoded so downstream consumers (RPC, indexers) need no schema.
type Event struct {
	Type       string
	Attributes map[string]string
}

// Payload is implemented by typed event structs that convert themselves into
// a broadcastable Event.
type Payload interface {
	EventType() string
	Event() *Event
}

// Emitter receives events in the order operations complete.
type Emitter interface {
	Emit(Payload)
}

// NoopEmitter satisfies Emitter while discarding all events.
type NoopEmitter struct{}

func (NoopEmitter) Emit(Payload) {}

// Tee fans each payload out to every emitter in order. Nil entries are
// skipped.
type Tee []Emitter

func (t Tee) Emit(p Payload) {
	for _, e := range t {
		if e != nil {
			e.Emit(p)
		}
	}
}

// Recorder is an append-only in-memory emitter. The daemon attaches one to
// the engine so the RPC layer can serve the event log; tests use it to
// assert ordering.
type Recorder struct {
	mu  sync.RWMutex
	log []*Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Emit(p Payload) {
	if p == nil {
		return
	}
	evt := p.Event()
	if evt == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, evt)
}

// Events returns a snapshot of the recorded log in emission order.
func (r *Recorder) Events() []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Event, len(r.log))
	copy(out, r.log)
	return out
}
