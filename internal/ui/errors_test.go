package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jts/internal/domain"
)

type memoryStorage struct {
	saved []domain.TestResultsOutput
	err   error
}

func (m *memoryStorage) Save(domain.TestResultsMeta, []domain.DirectoryReport, []domain.TestFailure, time.Duration) error {
	return nil
}

func (m *memoryStorage) Load() (*domain.TestResultsOutput, error) {
	return nil, errors.New("not implemented")
}

func (m *memoryStorage) SaveOutput(output *domain.TestResultsOutput) error {
	cp := *output
	cp.Details = append([]domain.TestFailure(nil), output.Details...)
	m.saved = append(m.saved, cp)
	return m.err
}

func failureResults() *domain.TestResultsOutput {
	return &domain.TestResultsOutput{Details: []domain.TestFailure{
		{FilePath: "c/n_1.json", Dir: "c", Verdict: "unexpected_failure"},
		{FilePath: "c/y_2.json", Dir: "c", Verdict: "errored"},
	}}
}

func TestFailureScreen_ToggleResolvedPersists(t *testing.T) {
	st := &memoryStorage{}
	results := failureResults()
	s := newFailureScreen(results, st)

	assert.Contains(t, s.header.GetText(true), "2 unresolved")
	assert.Contains(t, s.stats.GetText(true), "c/n_1.json")

	assert.Nil(t, s.onListKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	require.Len(t, st.saved, 1)
	assert.True(t, st.saved[0].Details[0].Resolved)
	assert.False(t, st.saved[0].Details[1].Resolved)
	assert.Contains(t, s.header.GetText(true), "1 unresolved")

	s.onListKey(tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModNone))
	require.Len(t, st.saved, 2)
	assert.False(t, results.Details[0].Resolved)
}

func TestFailureScreen_SaveErrorIsShown(t *testing.T) {
	st := &memoryStorage{err: errors.New("read-only file system")}
	s := newFailureScreen(failureResults(), st)

	s.toggleResolved()
	assert.Contains(t, s.details.GetText(true), "read-only file system")
}

func TestFailureScreen_FocusMovesBetweenPanes(t *testing.T) {
	s := newFailureScreen(failureResults(), &memoryStorage{})

	assert.Nil(t, s.onListKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, s.details, s.app.GetFocus())

	assert.Nil(t, s.onDetailsKey(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone)))
	assert.Equal(t, s.list, s.app.GetFocus())

	key := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Equal(t, key, s.onListKey(key))
}

func TestFailureViewer_NothingToShow(t *testing.T) {
	assert.NoError(t, NewFailureViewer(&memoryStorage{}).View(&domain.TestResultsOutput{}))
}
