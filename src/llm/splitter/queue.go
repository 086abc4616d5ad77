package splitter

// Queue holds the segments of a compound message that are still waiting
// to be processed, in arrival order. It is rebuilt from the session
// snapshot each turn, so it carries no locking.
type Queue struct {
	items []string
}

func NewQueue() *Queue {
	return &Queue{}
}

// NewQueueFrom restores a queue from a persisted item list.
func NewQueueFrom(items []string) *Queue {
	q := &Queue{}
	q.Add(items...)
	return q
}

// Add appends segments to the back of the queue, skipping empty ones.
func (q *Queue) Add(items ...string) {
	for _, item := range items {
		if item != "" {
			q.items = append(q.items, item)
		}
	}
}

// Pop removes and returns the oldest pending segment.
func (q *Queue) Pop() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	head := q.items[0]
	q.items = q.items[1:]
	return head, true
}

// Peek returns the oldest pending segment without removing it.
func (q *Queue) Peek() (string, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	return q.items[0], true
}

func (q *Queue) HasPending() bool {
	return len(q.items) > 0
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Clear drops every pending segment.
func (q *Queue) Clear() {
	q.items = nil
}

// Items returns a copy of the pending segments for persistence.
func (q *Queue) Items() []string {
	if len(q.items) == 0 {
		return nil
	}
	out := make([]string, len(q.items))
	copy(out, q.items)
	return out
}
