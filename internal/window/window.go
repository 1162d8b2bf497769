// Package window maps a scroll position over the current view to the
// minimal set of rows that must be materialized, plus spacer sizes that
// stand in for everything outside that range.
package window

// Spec describes which view indices to materialize. Rows in
// [StartIndex, EndIndex) are rendered; TopSpacerHeight and
// BottomSpacerHeight reserve the space of the rows above and below, so
// TopSpacerHeight + (EndIndex-StartIndex)*rowHeight + BottomSpacerHeight
// always equals viewLen*rowHeight.
type Spec struct {
	StartIndex         int
	EndIndex           int
	TopSpacerHeight    int
	BottomSpacerHeight int
}

// Rows returns the number of materialized rows.
func (s Spec) Rows() int { return s.EndIndex - s.StartIndex }

// Defaults, overridable through Options.
const (
	DefaultBufferRows = 5
	DefaultThreshold  = 200
)

// strategy computes a Spec for one rendering mode.
type strategy interface {
	window(viewLen, scrollOffset int) Spec
}

// Engine selects between full materialization and virtualized windowing
// based on view length. Callers never see the mode switch; they hand in the
// current scroll offset and get back a Spec either way.
type Engine struct {
	rowHeight      int
	viewportHeight int
	threshold      int

	full        strategy
	virtualized strategy
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	BufferRows int // extra rows past the viewport to avoid blank flashes
	Threshold  int // view length at which virtualization kicks in
}

// NewEngine creates an engine for a fixed row height and viewport height,
// both in the same unit as scroll offsets (pixels, terminal lines).
func NewEngine(rowHeight, viewportHeight int, opts Options) *Engine {
	if rowHeight < 1 {
		rowHeight = 1
	}
	buffer := opts.BufferRows
	if buffer <= 0 {
		buffer = DefaultBufferRows
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		rowHeight:      rowHeight,
		viewportHeight: viewportHeight,
		threshold:      threshold,
		full:           fullStrategy{},
		virtualized:    virtualStrategy{rowHeight: rowHeight, viewportHeight: viewportHeight, bufferRows: buffer},
	}
}

// SetViewportHeight adjusts for a resized viewport.
func (e *Engine) SetViewportHeight(h int) {
	e.viewportHeight = h
	e.virtualized = virtualStrategy{
		rowHeight:      e.rowHeight,
		viewportHeight: h,
		bufferRows:     e.virtualized.(virtualStrategy).bufferRows,
	}
}

// RowHeight returns the configured row height.
func (e *Engine) RowHeight() int { return e.rowHeight }

// Virtualized reports whether a view of the given length renders through
// the virtualized strategy.
func (e *Engine) Virtualized(viewLen int) bool { return viewLen > e.threshold }

// Window computes the Spec for the current view length and scroll offset.
func (e *Engine) Window(viewLen, scrollOffset int) Spec {
	if viewLen <= 0 {
		return Spec{}
	}
	if !e.Virtualized(viewLen) {
		return e.full.window(viewLen, scrollOffset)
	}
	return e.virtualized.window(viewLen, scrollOffset)
}

// MaxScroll returns the largest useful scroll offset for a view: the offset
// at which the last row sits at the bottom of the viewport.
func (e *Engine) MaxScroll(viewLen int) int {
	max := viewLen*e.rowHeight - e.viewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// fullStrategy materializes the whole view with no spacers. Used below the
// virtualization threshold, where rendering everything is cheaper than
// bookkeeping.
type fullStrategy struct{}

func (fullStrategy) window(viewLen, _ int) Spec {
	return Spec{StartIndex: 0, EndIndex: viewLen}
}

// virtualStrategy materializes only the rows intersecting the viewport plus
// a small buffer, accounting for the skipped rows with spacers.
type virtualStrategy struct {
	rowHeight      int
	viewportHeight int
	bufferRows     int
}

func (v virtualStrategy) window(viewLen, scrollOffset int) Spec {
	total := viewLen * v.rowHeight
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	if scrollOffset > total {
		scrollOffset = total
	}

	start := scrollOffset / v.rowHeight
	if start >= viewLen {
		start = viewLen - 1
	}

	visible := (v.viewportHeight + v.rowHeight - 1) / v.rowHeight
	end := start + visible + v.bufferRows
	if end > viewLen {
		end = viewLen
	}

	return Spec{
		StartIndex:         start,
		EndIndex:           end,
		TopSpacerHeight:    start * v.rowHeight,
		BottomSpacerHeight: (viewLen - end) * v.rowHeight,
	}
}
