package paging

// CursorMode selects how the cursor behaves at the collection bounds.
type CursorMode int

const (
	// Clamp stops at the bounds (tables).
	Clamp CursorMode = iota
	// Wrap cycles around the bounds (menus).
	Wrap
)

// NoSelection is the selection index of a collection with nothing selected.
const NoSelection = -1

// Collection is an ordered, selectable page cache. The zero value is not
// usable; construct with New.
type Collection[T Item] struct {
	mode     CursorMode
	more     func() T
	items    []T
	token    *string
	selected int
}

// New returns an empty collection. more builds the sentinel appended when a
// next-page token is present.
func New[T Item](mode CursorMode, more func() T) *Collection[T] {
	return &Collection[T]{mode: mode, more: more, selected: NoSelection}
}

// Mode returns the cursor mode.
func (c *Collection[T]) Mode() CursorMode { return c.mode }

// Len returns the number of items including a trailing sentinel.
func (c *Collection[T]) Len() int { return len(c.items) }

// Items returns a copy of the items.
func (c *Collection[T]) Items() []T {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Token returns the next-page token, if any.
func (c *Collection[T]) Token() (string, bool) {
	if c.token == nil {
		return "", false
	}
	return *c.token, true
}

// TokenPtr returns a copy of the next-page token suitable for API calls.
func (c *Collection[T]) TokenPtr() *string {
	if c.token == nil {
		return nil
	}
	t := *c.token
	return &t
}

// HasMore reports whether the last item is the sentinel.
func (c *Collection[T]) HasMore() bool {
	n := len(c.items)
	return n > 0 && c.items[n-1].IsMore()
}

// Clear drops all items, the token and the selection.
func (c *Collection[T]) Clear() {
	c.items = nil
	c.token = nil
	c.selected = NoSelection
}

// Replace swaps in a new item set, keeping the selection within bounds.
func (c *Collection[T]) Replace(items []T, token *string) {
	c.items = append([]T(nil), items...)
	c.token = copyToken(token)
	c.clamp()
}

// Merge folds a fetched page into the collection. A nil next token marks
// the collection exhausted.
func (c *Collection[T]) Merge(page []T, next *string) {
	c.items = Merge(c.items, page, next != nil, c.more)
	c.token = copyToken(next)
	c.clamp()
}

// TrimFront drops the oldest items so that at most limit real items remain.
func (c *Collection[T]) TrimFront(limit int) {
	if limit <= 0 {
		return
	}
	kept := len(c.items)
	if c.HasMore() {
		kept--
	}
	over := kept - limit
	if over <= 0 {
		return
	}
	c.items = append([]T(nil), c.items[over:]...)
	if c.selected != NoSelection {
		c.selected -= over
		if c.selected < 0 {
			c.selected = 0
		}
	}
	c.clamp()
}

// SelectedIndex returns the selection or NoSelection.
func (c *Collection[T]) SelectedIndex() int { return c.selected }

// Selected returns the selected item.
func (c *Collection[T]) Selected() (T, bool) {
	var zero T
	if c.selected < 0 || c.selected >= len(c.items) {
		return zero, false
	}
	return c.items[c.selected], true
}

// Select moves the selection to i, clamped to the bounds. Negative i clears it.
func (c *Collection[T]) Select(i int) {
	if i < 0 || len(c.items) == 0 {
		c.selected = NoSelection
		return
	}
	if i >= len(c.items) {
		i = len(c.items) - 1
	}
	c.selected = i
}

// SelectLastReal selects the last non-sentinel item.
func (c *Collection[T]) SelectLastReal() {
	for i := len(c.items) - 1; i >= 0; i-- {
		if !c.items[i].IsMore() {
			c.selected = i
			return
		}
	}
	c.selected = NoSelection
}

// Next moves the cursor one row down. It reports true when a Clamp cursor is
// already on the last row and that row is the sentinel.
func (c *Collection[T]) Next() bool {
	n := len(c.items)
	if n == 0 {
		return false
	}
	if c.selected == NoSelection {
		c.selected = 0
		return false
	}
	if c.selected >= n-1 {
		if c.mode == Wrap {
			c.selected = 0
			return false
		}
		c.selected = n - 1
		return c.items[n-1].IsMore()
	}
	c.selected++
	return false
}

// Previous moves the cursor one row up.
func (c *Collection[T]) Previous() {
	n := len(c.items)
	if n == 0 {
		return
	}
	if c.selected == NoSelection {
		c.selected = 0
		return
	}
	if c.selected == 0 {
		if c.mode == Wrap {
			c.selected = n - 1
		}
		return
	}
	c.selected--
}

// NextBy moves the cursor step rows down, stopping at the last row in either
// mode. It reports true when the move overshoots onto a trailing sentinel.
func (c *Collection[T]) NextBy(step int) bool {
	n := len(c.items)
	if n == 0 || step <= 0 {
		return false
	}
	if c.selected == NoSelection {
		c.selected = 0
		return false
	}
	target := c.selected + step
	if target > n-1 {
		c.selected = n - 1
		return c.items[n-1].IsMore()
	}
	c.selected = target
	return false
}

// PreviousBy moves the cursor step rows up, stopping at the first row.
func (c *Collection[T]) PreviousBy(step int) {
	n := len(c.items)
	if n == 0 || step <= 0 {
		return
	}
	if c.selected == NoSelection {
		c.selected = 0
		return
	}
	c.selected -= step
	if c.selected < 0 {
		c.selected = 0
	}
}

// Labels projects every item into a row of strings.
func (c *Collection[T]) Labels(project func(T) []string) Rows {
	rows := make(Rows, len(c.items))
	for i, it := range c.items {
		rows[i] = project(it)
	}
	return rows
}

func (c *Collection[T]) clamp() {
	switch {
	case len(c.items) == 0:
		c.selected = NoSelection
	case c.selected >= len(c.items):
		c.selected = len(c.items) - 1
	}
}

func copyToken(token *string) *string {
	if token == nil {
		return nil
	}
	t := *token
	return &t
}

// Rows is a rendered projection of a collection.
type Rows [][]string

// Row returns row i, or nil when i is out of range.
func (r Rows) Row(i int) []string {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Cell returns column col of row i, or "" when either is out of range.
func (r Rows) Cell(i, col int) string {
	row := r.Row(i)
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
