package jackhammer

// Tracker hands out correlation ids. The id only moves forward once a
// round trip completes, so an abandoned exchange is retried with the same id.
// It is not safe for concurrent use; Client serializes access.
type Tracker struct {
	next uint16
}

func NewTracker(start uint16) *Tracker {
	return &Tracker{next: start}
}

// NextID returns the id for the next request without consuming it.
func (t *Tracker) NextID() uint16 {
	return t.next
}

// Advance consumes the current id. It wraps after 65535.
func (t *Tracker) Advance() {
	t.next++
}
