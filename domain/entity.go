package domain

// Root supplies the identity, version and pending-event ledger that every
// consistency-boundary object carries. Aggregates hold it by embedding;
// there is no entity class hierarchy.
type Root struct {
	id      string
	version int
	events  []Event
}

// NewRoot initializes a fresh aggregate root with version zero.
func NewRoot(id string) Root {
	return Root{id: id}
}

// RehydrateRoot rebuilds a root from persisted state. The ledger starts
// empty: persisted aggregates have no unpublished events.
func RehydrateRoot(id string, version int) Root {
	return Root{id: id, version: version}
}

func (r *Root) ID() string {
	return r.id
}

func (r *Root) Version() int {
	return r.version
}

// PendingEvents returns the recorded events in order. The returned slice
// is a copy; the ledger itself is mutated only through Record and
// ClearEvents.
func (r *Root) PendingEvents() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Record appends a domain event to the ledger. Intended for the
// aggregate's own business methods.
func (r *Root) Record(name string, payload interface{}) {
	r.events = append(r.events, newEvent(r.id, name, payload))
}

// ClearEvents empties the ledger. Only the persistence layer may call
// this, and only after the events have been published.
func (r *Root) ClearEvents() {
	r.events = nil
}

// IncrementVersion bumps the version by one. Only the persistence layer
// may call this, after a successful write.
func (r *Root) IncrementVersion() {
	r.version++
}

// Aggregate is the capability every persistable consistency boundary
// exposes to the repository layer.
type Aggregate interface {
	ID() string
	Version() int
	PendingEvents() []Event
	ClearEvents()
	IncrementVersion()
}
