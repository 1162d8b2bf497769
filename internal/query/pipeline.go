package query

import (
	"go.uber.org/zap"

	"disclose/internal/perf"
	"disclose/internal/record"
)

// Pipeline owns the full dataset and the view derived from it. All passes
// run synchronously to completion; the dataset and view are replaced
// wholesale, never mutated element-wise, so a stale result is simply
// superseded by the next pass.
type Pipeline struct {
	dataset []record.Record
	view    []record.Record

	term string
	sort SortState

	logger *zap.Logger
	timer  perf.Timer
}

// NewPipeline creates an empty pipeline. A nil logger or timer falls back to
// a no-op so tests can construct pipelines bare.
func NewPipeline(logger *zap.Logger, timer perf.Timer) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timer == nil {
		timer = perf.Nop()
	}
	return &Pipeline{logger: logger, timer: timer}
}

// SetDataset replaces the full dataset. The view is reset to the new dataset
// in insertion order and any previous search term and sort are discarded.
func (p *Pipeline) SetDataset(dataset []record.Record) {
	p.dataset = dataset
	p.term = ""
	p.sort = SortState{}
	p.view = Filter(dataset, "")
	p.logger.Debug("dataset replaced", zap.Int("records", len(dataset)))
}

// Dataset returns the full dataset from the most recent load.
func (p *Pipeline) Dataset() []record.Record { return p.dataset }

// View returns the current filtered, sorted view.
func (p *Pipeline) View() []record.Record { return p.view }

// Term returns the active search term.
func (p *Pipeline) Term() string { return p.term }

// SortState returns the active sort column and direction.
func (p *Pipeline) SortState() SortState { return p.sort }

// ApplyFilter recomputes the view from the full dataset for the given term
// and reapplies the last sort, if any.
func (p *Pipeline) ApplyFilter(term string) []record.Record {
	defer p.timer.Start("filter")()

	p.term = term
	p.view = Filter(p.dataset, term)
	if p.sort.HasColumn {
		Sort(p.view, p.sort.Column, p.sort.Direction)
	}
	p.logger.Debug("filter applied",
		zap.String("term", term),
		zap.Int("matched", len(p.view)),
		zap.Int("total", len(p.dataset)))
	return p.view
}

// ApplySort orders the current view by the given column and direction and
// records them as the active sort state.
func (p *Pipeline) ApplySort(col record.Column, dir Direction) []record.Record {
	defer p.timer.Start("sort")()

	p.sort = SortState{Column: col, HasColumn: true, Direction: dir}
	Sort(p.view, col, dir)
	p.logger.Debug("sort applied",
		zap.String("column", col.Title()),
		zap.String("direction", dir.String()))
	return p.view
}

// ToggleSort sorts by col ascending, or flips the direction when col is
// already the active sort column.
func (p *Pipeline) ToggleSort(col record.Column) []record.Record {
	dir := Ascending
	if p.sort.HasColumn && p.sort.Column == col {
		dir = p.sort.Direction.Toggle()
	}
	return p.ApplySort(col, dir)
}
