// Package pagination derives list offsets from navigation state.
//
// The state is carried entirely by the request (an offset and the button
// the user pressed); nothing is kept server-side.
package pagination

import "math"

// Intent is the navigation the user asked for.
type Intent int

const (
	// None keeps the current offset.
	None Intent = iota
	// Previous moves back one page, never below zero.
	Previous
	// Next moves forward one page without an upper bound.
	Next
)

// String returns the query parameter value for the intent.
func (i Intent) String() string {
	switch i {
	case Previous:
		return "prev"
	case Next:
		return "next"
	default:
		return ""
	}
}

// ParseIntent maps the btnPressed query parameter onto an Intent.
// Anything other than "prev" or "next" means None.
func ParseIntent(s string) Intent {
	switch s {
	case "prev":
		return Previous
	case "next":
		return Next
	default:
		return None
	}
}

// MaxOffset is the largest offset a client may ask for.
const MaxOffset = 1_000_000_000

// NextOffset computes the offset for the page the user navigates to.
//
// An empty page past the end is a valid result, so Next is not clamped to
// the catalog size. It saturates instead of overflowing, so the result is
// never negative. Negative inputs are treated as zero.
func NextOffset(current int, intent Intent, pageSize int) int {
	if current < 0 {
		current = 0
	}

	switch intent {
	case Previous:
		return max(0, current-pageSize)
	case Next:
		if pageSize > math.MaxInt-current {
			return current
		}
		return current + pageSize
	default:
		return current
	}
}

// Page is a limit/offset window, bound into the list query in that order.
type Page struct {
	Limit  int
	Offset int
}

// Navigate returns the page reached from offset by intent.
func Navigate(offset int, intent Intent, pageSize int) Page {
	return Page{
		Limit:  pageSize,
		Offset: NextOffset(offset, intent, pageSize),
	}
}

// Args returns the positional query parameters (limit, offset).
func (p Page) Args() []any {
	return []any{p.Limit, p.Offset}
}

// PrevOffset is the offset the "previous" control leads to.
func (p Page) PrevOffset() int {
	return NextOffset(p.Offset, Previous, p.Limit)
}

// NextOffset is the offset the "next" control leads to.
func (p Page) NextOffset() int {
	return NextOffset(p.Offset, Next, p.Limit)
}

// IsFirst reports whether there is no earlier page.
func (p Page) IsFirst() bool {
	return p.Offset == 0
}
