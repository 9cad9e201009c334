package renderer

import (
	"errors"
	"fmt"

	"github.com/ByLCY/qrcanvas/layout"
)

// Precondition errors. They indicate a programming error in the caller and
// abort the rendering session.
var (
	ErrNoPath   = errors.New("renderer: no path started")
	ErrPathOpen = errors.New("renderer: path already started")
	ErrClosed   = errors.New("renderer: canvas closed")
)

// Metrics implements the measurement half of Canvas. Backends embed it so that
// every backend measures and splits text identically.
type Metrics struct {
	Font *layout.FontMetrics
}

// NewMetrics returns a Metrics for the given font family list.
func NewMetrics(familyList string) Metrics {
	return Metrics{Font: layout.NewFontMetrics(familyList)}
}

func (m Metrics) Ascender(fontSize float64) float64   { return m.Font.Ascender(fontSize) }
func (m Metrics) Descender(fontSize float64) float64  { return m.Font.Descender(fontSize) }
func (m Metrics) LineHeight(fontSize float64) float64 { return m.Font.LineHeight(fontSize) }

func (m Metrics) TextWidth(text string, fontSize float64, bold bool) float64 {
	return m.Font.TextWidth(text, fontSize, bold)
}

// SplitLines converts maxWidth from mm to pt before splitting.
func (m Metrics) SplitLines(text string, maxWidth, fontSize float64) []string {
	return m.Font.SplitLines(text, maxWidth*layout.MmToPt, fontSize)
}

// PathState tracks the single open path of a canvas and the closed flag.
type PathState struct {
	open   bool
	closed bool
}

// Start opens a new path.
func (p *PathState) Start() error {
	if p.closed {
		return ErrClosed
	}
	if p.open {
		return ErrPathOpen
	}
	p.open = true
	return nil
}

// Check verifies that a path is open before a segment is appended.
func (p *PathState) Check(op string) error {
	if p.closed {
		return ErrClosed
	}
	if !p.open {
		return fmt.Errorf("%s: %w", op, ErrNoPath)
	}
	return nil
}

// Finish verifies that a path is open and ends it.
func (p *PathState) Finish(op string) error {
	if err := p.Check(op); err != nil {
		return err
	}
	p.open = false
	return nil
}

// Usable returns ErrClosed after MarkClosed, or ErrPathOpen while a path is
// open, for operations that must not interleave with path construction.
func (p *PathState) Usable(op string) error {
	if p.closed {
		return ErrClosed
	}
	if p.open {
		return fmt.Errorf("%s: %w", op, ErrPathOpen)
	}
	return nil
}

// MarkClosed records that the canvas has been closed. It reports whether this
// is the first call.
func (p *PathState) MarkClosed() bool {
	if p.closed {
		return false
	}
	p.closed = true
	p.open = false
	return true
}

// Closed reports whether MarkClosed has been called.
func (p *PathState) Closed() bool { return p.closed }

// GenerationError wraps any failure that aborts the generation of a document.
type GenerationError struct {
	Format string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Format, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Fail wraps err in a GenerationError; nil stays nil.
func Fail(format string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Format: format, Err: err}
}
