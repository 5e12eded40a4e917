package route

// DefaultDepth bounds how many entries the history keeps.
const DefaultDepth = 64

// History is a bounded back/forward stack of locations, the
// browser-history analog for the TUI. The entry at cursor is the
// current location.
type History struct {
	entries []Location
	cursor  int
	depth   int
}

// NewHistory creates a history seeded with an initial location.
func NewHistory(initial Location) *History {
	return &History{
		entries: []Location{initial},
		cursor:  0,
		depth:   DefaultDepth,
	}
}

// Current returns the location at the cursor.
func (h *History) Current() Location {
	return h.entries[h.cursor]
}

// Push records a new location, truncating any forward tail. Pushing
// the current location again is a no-op so repeated navigation to the
// same place never piles up entries.
func (h *History) Push(loc Location) {
	if loc == h.Current() {
		return
	}

	h.entries = append(h.entries[:h.cursor+1], loc)
	if len(h.entries) > h.depth {
		h.entries = h.entries[len(h.entries)-h.depth:]
	}
	h.cursor = len(h.entries) - 1
}

// CanBack reports whether there is an earlier entry.
func (h *History) CanBack() bool {
	return h.cursor > 0
}

// CanForward reports whether there is a later entry.
func (h *History) CanForward() bool {
	return h.cursor < len(h.entries)-1
}

// Back moves the cursor one entry earlier and returns the location to
// re-derive state from. The second return is false at the oldest entry.
func (h *History) Back() (Location, bool) {
	if !h.CanBack() {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Forward moves the cursor one entry later.
func (h *History) Forward() (Location, bool) {
	if !h.CanForward() {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

// Len returns the number of entries in the history.
func (h *History) Len() int {
	return len(h.entries)
}
