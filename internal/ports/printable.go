package ports

import "io"

// Printable is the single textual-rendering contract shared by the
// engine and any value type used alongside it. Types that support
// human-readable output expose Print; callers needing text invoke
// Fprint rather than defining per-type formatting logic.
type Printable interface {
	// Print writes the value's textual representation to w.
	Print(w io.Writer) error
}

// Fprint writes any Printable to w. It is the generic write-to-stream
// operation that forwards to the value's own Print.
func Fprint(w io.Writer, p Printable) error {
	return p.Print(w)
}
