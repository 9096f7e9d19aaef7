package history

// Recall steps through previous queries the way a shell walks its history.
// Index -1 is the text being edited before recall started.
type Recall struct {
	queries []string
	index   int
	draft   string
}

// NewRecall starts a recall over queries ordered newest first
func NewRecall(queries []string, draft string) *Recall {
	return &Recall{queries: queries, index: -1, draft: draft}
}

// Prev moves to the next older query. ok is false at the oldest entry.
func (r *Recall) Prev() (string, bool) {
	if r.index+1 >= len(r.queries) {
		return r.current(), false
	}
	r.index++
	return r.queries[r.index], true
}

// Next moves to the next newer query, ending on the draft
func (r *Recall) Next() (string, bool) {
	if r.index < 0 {
		return r.draft, false
	}
	r.index--
	return r.current(), true
}

// Len returns the number of recallable queries
func (r *Recall) Len() int {
	return len(r.queries)
}

func (r *Recall) current() string {
	if r.index < 0 {
		return r.draft
	}
	return r.queries[r.index]
}
