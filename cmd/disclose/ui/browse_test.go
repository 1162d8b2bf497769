package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disclose/internal/query"
	"disclose/internal/record"
	"disclose/internal/window"
)

func testRecords(t *testing.T, n int) []record.Record {
	t.Helper()
	out := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		r, err := record.New(record.Fields{
			LastName:  fmt.Sprintf("Member%04d", i),
			FirstName: "Test",
			Year:      "2025",
			DocID:     fmt.Sprintf("%d", 20000000+i),
		})
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func readyModel(t *testing.T, n int) Model {
	t.Helper()
	m := NewModel(Options{
		Pipeline: query.NewPipeline(nil, nil),
		Engine:   window.NewEngine(1, 20, window.Options{Threshold: 100}),
		Debounce: NewDebouncer(10 * time.Millisecond),
	})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 25})
	m = next.(Model)
	next, _ = m.Update(LoadedMsg{Records: testRecords(t, n)})
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestBrowse_LoadedShowsAllRecordsSmallView(t *testing.T) {
	m := readyModel(t, 10)
	out := m.View()
	assert.Contains(t, out, "Member0000")
	assert.Contains(t, out, "Member0009")
	assert.NotContains(t, out, "rows above")
	assert.Contains(t, out, "10/10 records")
}

func TestBrowse_VirtualizedScrolling(t *testing.T) {
	m := readyModel(t, 5000)

	out := m.View()
	assert.Contains(t, out, "Member0000")
	assert.NotContains(t, out, "Member4999", "tail must not be materialized")
	assert.Contains(t, out, "rows below")

	m = send(m, key("G")) // jump to end
	out = m.View()
	assert.Contains(t, out, "Member4999")
	assert.Contains(t, out, "rows above")
	assert.NotContains(t, out, "Member0000 ")

	m = send(m, key("g")) // back to top
	assert.Contains(t, m.View(), "Member0000")
}

func TestBrowse_FullModeScrolling(t *testing.T) {
	// 80 records sit below the virtualization threshold, so the engine
	// materializes all of them; the frame must still follow the scroll
	// position.
	m := readyModel(t, 80)

	out := m.View()
	assert.Contains(t, out, "Member0000")
	assert.NotContains(t, out, "Member0079")
	assert.Contains(t, out, "rows below")
	assert.Contains(t, out, "(full)")

	m = send(m, key("G"))
	scrolled := m.View()
	require.NotEqual(t, out, scrolled)
	assert.Contains(t, scrolled, "Member0079")
	assert.Contains(t, scrolled, "rows above")

	m = send(m, key("g"))
	assert.Contains(t, m.View(), "Member0000")
}

func TestBrowse_ScrollClamps(t *testing.T) {
	m := readyModel(t, 5000)
	m = send(m, key("k"), key("k"))
	assert.Equal(t, 0, m.scrollOffset)

	for i := 0; i < 1000; i++ {
		m = send(m, key("f"))
	}
	assert.Equal(t, m.engine.MaxScroll(5000), m.scrollOffset)
}

func TestBrowse_SearchImmediateCommit(t *testing.T) {
	m := readyModel(t, 500)
	m = send(m, key("/"))
	require.True(t, m.searchInput.Focused())

	for _, r := range "member0042" {
		m = send(m, key(string(r)))
	}
	m = send(m, key("enter"))

	assert.False(t, m.searchInput.Focused())
	require.Len(t, m.pipeline.View(), 1)
	assert.Contains(t, m.View(), "Member0042")
	assert.Contains(t, m.View(), "1/500 records")
}

func TestBrowse_DebouncedCommitArrives(t *testing.T) {
	m := readyModel(t, 500)
	m = send(m, key("/"))
	for _, r := range "member0007" {
		m = send(m, key(string(r)))
	}

	// The quiet period elapses and the debouncer pushes the term into the
	// commit channel; the program loop would deliver it via waitForCommit.
	// Stale terms are evicted, so the last one read is the full term.
	time.Sleep(100 * time.Millisecond)
	var committed string
drain:
	for {
		select {
		case committed = <-m.commits:
		default:
			break drain
		}
	}
	require.Equal(t, "member0007", committed)
	m = send(m, filterCommitMsg{term: committed})
	require.Len(t, m.pipeline.View(), 1)
}

func TestBrowse_EnterDropsQueuedDebouncedTerm(t *testing.T) {
	m := readyModel(t, 500)
	m = send(m, key("/"))
	for _, r := range "member0007" {
		m = send(m, key(string(r)))
	}

	// A debounced pass for an earlier prefix lands in the channel just
	// before enter; the immediate commit must not be reverted by it.
	m.debouncer.Cancel()
	pushCommit(m.commits, "member000")
	m = send(m, key("enter"))

	require.Len(t, m.pipeline.View(), 1)
	select {
	case term := <-m.commits:
		t.Fatalf("stale term %q still queued after immediate commit", term)
	default:
	}
}

func TestBrowse_RowCacheKeysOnDisplayFields(t *testing.T) {
	m := readyModel(t, 10)

	upper, err := record.New(record.Fields{LastName: "SMITH", FirstName: "Ann"})
	require.NoError(t, err)
	lower, err := record.New(record.Fields{LastName: "Smith", FirstName: "Ann"})
	require.NoError(t, err)
	require.Equal(t, upper.SearchKey(), lower.SearchKey())

	widths := m.columnWidths()
	assert.NotEqual(t, m.renderRow(upper, widths, false), m.renderRow(lower, widths, false))
}

func TestBrowse_SortKeysToggle(t *testing.T) {
	m := readyModel(t, 10)

	// Move the cursor to Year and sort twice to flip direction.
	start := int(m.sortCursor)
	for i := start; i < int(record.ColYear); i++ {
		m = send(m, key("l"))
	}
	assert.Equal(t, record.ColYear, m.sortCursor)

	m = send(m, key("s"))
	st := m.pipeline.SortState()
	require.True(t, st.HasColumn)
	assert.Equal(t, record.ColYear, st.Column)
	assert.Equal(t, query.Ascending, st.Direction)

	m = send(m, key("s"))
	assert.Equal(t, query.Descending, m.pipeline.SortState().Direction)
}

func TestBrowse_LoadFailure(t *testing.T) {
	m := NewModel(Options{
		Pipeline: query.NewPipeline(nil, nil),
		Engine:   window.NewEngine(1, 20, window.Options{}),
	})
	m = send(m, LoadFailedMsg{Err: fmt.Errorf("connect refused")})
	assert.True(t, strings.Contains(m.View(), "load failed"))
}

func TestBrowse_ReloadResetsSearch(t *testing.T) {
	m := readyModel(t, 100)
	m = send(m, key("/"))
	for _, r := range "member0001" {
		m = send(m, key(string(r)))
	}
	m = send(m, key("enter"))
	require.Len(t, m.pipeline.View(), 1)

	m = send(m, LoadedMsg{Records: testRecords(t, 50)})
	assert.Len(t, m.pipeline.View(), 50)
	assert.Empty(t, m.searchInput.Value())
}
