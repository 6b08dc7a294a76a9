// Package progress provides a minimal cadence-gated progress reporter
// for the CLI driver, printed to stderr every N absorbed tokens. No
// terminal-progress library appears anywhere in the reference corpus
// this project draws its third-party stack from, so this is a small
// hand-rolled reporter rather than an adopted dependency.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Bar tracks progress through a known-size piece of work and prints an
// update line to its writer every `every`-th call to Update, plus
// always on Close.
type Bar struct {
	w       io.Writer
	label   string
	total   int
	every   int
	start   time.Time
	current int
}

// New returns a Bar reporting progress toward total units of work,
// printing at most once every `every` calls to Update. every <= 0
// means report on every call.
func New(label string, total, every int) *Bar {
	if every <= 0 {
		every = 1
	}

	return &Bar{w: os.Stderr, label: label, total: total, every: every, start: time.Now()}
}

// SetWriter redirects output, mainly for tests; the default is stderr.
func (b *Bar) SetWriter(w io.Writer) { b.w = w }

// Update records n additional units of completed work and prints a
// status line if the cadence was hit.
func (b *Bar) Update(n int) {
	b.current += n
	if b.current%b.every == 0 {
		b.print()
	}
}

// Close prints a final status line unconditionally.
func (b *Bar) Close() {
	b.print()
}

func (b *Bar) print() {
	elapsed := time.Since(b.start)

	if b.total > 0 {
		pct := 100 * float64(b.current) / float64(b.total)
		fmt.Fprintf(b.w, "%s: %d/%d (%.1f%%) elapsed=%s\n", b.label, b.current, b.total, pct, elapsed.Round(time.Millisecond))

		return
	}

	fmt.Fprintf(b.w, "%s: %d elapsed=%s\n", b.label, b.current, elapsed.Round(time.Millisecond))
}
