// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/autobatch/internal/catalog"
	"github.com/pdiddy/autobatch/internal/convert"
	"github.com/pdiddy/autobatch/pkg/types"
)

type exitErr struct{ code int }

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitErr) ExitCode() int { return e.code }

// scriptedConverter records invoked bases and fails those listed in fail.
type scriptedConverter struct {
	fail  map[string]int
	calls []string
}

func (c *scriptedConverter) Convert(_ context.Context, job convert.Job) error {
	c.calls = append(c.calls, job.Base)
	if code, ok := c.fail[job.Base]; ok {
		return exitErr{code}
	}
	return nil
}

type memRecorder struct{ items []types.ItemResult }

func (m *memRecorder) Record(_ context.Context, item types.ItemResult) error {
	m.items = append(m.items, item)
	return nil
}

func makeDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
	return dir
}

func newSession(dir, input string, conv convert.Converter) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	return &Session{
		Dir:          dir,
		Discovery:    catalog.DefaultOptions(),
		OutputSuffix: types.DefaultOutputSuffix,
		Converter:    conv,
		In:           strings.NewReader(input),
		Out:          &out,
	}, &out
}

func TestRunConvertsSelectedRangeInOrder(t *testing.T) {
	dir := makeDir(t, "file3.txt", "file1.txt", "file2.txt")
	conv := &scriptedConverter{}
	s, out := newSession(dir, "1-2\ny\n", conv)

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Done, outcome.State)
	assert.Equal(t, []string{"file1", "file2"}, conv.calls)
	assert.Equal(t, 2, outcome.Result.Attempted)
	assert.Equal(t, 2, outcome.Result.Succeeded)

	text := out.String()
	i1 := strings.Index(text, "1.  [ ]  file1.txt (key: 1)")
	i2 := strings.Index(text, "2.  [ ]  file2.txt (key: 2)")
	i3 := strings.Index(text, "3.  [ ]  file3.txt (key: 3)")
	require.True(t, i1 >= 0 && i2 > i1 && i3 > i2, "table should list files by key:\n%s", text)
	assert.Contains(t, text, "Selected files 1 to 2.")
	assert.Contains(t, text, "Ready to convert 2 file(s):")
	assert.Contains(t, text, "Batch summary: 2/2 converted, 0 failed")
	assert.Contains(t, text, "All selected files converted.")
}

func TestRunPartialFailureStillDone(t *testing.T) {
	dir := makeDir(t, "file1.txt", "file2.txt")
	conv := &scriptedConverter{fail: map[string]int{"file2": 1}}
	s, out := newSession(dir, "*\ny\n", conv)

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Done, outcome.State)
	assert.Equal(t, []string{"file1", "file2"}, conv.calls)
	assert.Equal(t, 1, outcome.Result.Succeeded)
	assert.Equal(t, 1, outcome.Result.Failed)
	assert.Contains(t, out.String(), "Selected all 2 files.")
	assert.Contains(t, out.String(), "file2.txt failed to convert (exit code 1)")
	assert.Contains(t, out.String(), "Batch summary: 1/2 converted, 1 failed")
}

func TestRunTerminalStates(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		input     string
		wantState State
		wantText  string
	}{
		{name: "no files", files: []string{"a.md"}, input: "", wantState: NothingFound, wantText: "No .txt files found"},
		{name: "quit", files: []string{"a1.txt"}, input: "q\n", wantState: Quit, wantText: "Exiting."},
		{name: "end of input at selection", files: []string{"a1.txt"}, input: "", wantState: Quit},
		{name: "reversed range", files: []string{"a1.txt", "a2.txt"}, input: "2-1\n", wantState: SelectionInvalid, wantText: `Invalid range "2-1"`},
		{name: "range past end", files: []string{"a1.txt", "a2.txt"}, input: "1-9\n", wantState: SelectionInvalid},
		{name: "only bad indices", files: []string{"a1.txt"}, input: "99 x\n", wantState: NothingSelected, wantText: `warning: ignoring "99": out of range 1-1`},
		{name: "declined", files: []string{"a1.txt"}, input: "1\nn\n", wantState: Cancelled, wantText: "Conversion cancelled."},
		{name: "end of input at confirmation", files: []string{"a1.txt"}, input: "1\n", wantState: Cancelled},
		{name: "blank confirmation", files: []string{"a1.txt"}, input: "1\n\n", wantState: Cancelled},
		{name: "uppercase yes", files: []string{"a1.txt"}, input: "1\n Yes\n", wantState: Done},
		{name: "no trailing newline", files: []string{"a1.txt"}, input: "1\ny", wantState: Done},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &scriptedConverter{}
			s, out := newSession(makeDir(t, tt.files...), tt.input, conv)

			outcome, err := s.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, outcome.State)
			assert.True(t, outcome.State.Terminal())
			if tt.wantText != "" {
				assert.Contains(t, out.String(), tt.wantText)
			}
			if tt.wantState != Done {
				assert.Empty(t, conv.calls, "no conversion outside the Done path")
			}
		})
	}
}

func TestRunDiscoveryFailure(t *testing.T) {
	s, _ := newSession(filepath.Join(t.TempDir(), "gone"), "", &scriptedConverter{})

	outcome, err := s.Run(context.Background())
	require.Error(t, err)
	var de *catalog.DiscoveryError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, Discovering, outcome.State)
}

func TestRunRecordsBatch(t *testing.T) {
	dir := makeDir(t, "b7.txt", "a2.txt")
	rec := &memRecorder{}
	s, _ := newSession(dir, "2 1 2\ny\n", &scriptedConverter{})
	s.BeginBatch = func(context.Context) (convert.Recorder, error) { return rec, nil }

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, outcome.State)
	require.Len(t, rec.items, 2)
	assert.Equal(t, "a2.txt", rec.items[0].Name)
	assert.Equal(t, "b7_8k.spec", rec.items[1].Output)
}

func TestRunJournalFailureIsAdvisory(t *testing.T) {
	conv := &scriptedConverter{}
	s, out := newSession(makeDir(t, "a1.txt"), "*\ny\n", conv)
	s.BeginBatch = func(context.Context) (convert.Recorder, error) {
		return nil, errors.New("unable to open database file")
	}

	outcome, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, outcome.State)
	assert.Equal(t, []string{"a1"}, conv.calls)
	assert.Contains(t, out.String(), "warning: journal unavailable")
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "awaiting-selection", AwaitingSelection.String())
	assert.Equal(t, "done", Done.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.False(t, Converting.Terminal())
	assert.True(t, Cancelled.Terminal())
}

// cancellingReader serves lines one Read at a time and cancels the context
// just before serving the line at index cancelAt.
type cancellingReader struct {
	lines    []string
	cancelAt int
	cancel   context.CancelFunc
	n        int
}

func (r *cancellingReader) Read(p []byte) (int, error) {
	if r.n >= len(r.lines) {
		return 0, io.EOF
	}
	if r.n == r.cancelAt {
		r.cancel()
	}
	line := r.lines[r.n]
	r.n++
	return copy(p, line), nil
}

func TestRunInterruptedAtSelection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conv := &scriptedConverter{}
	s, out := newSession(makeDir(t, "file1.txt", "file2.txt"), "*\ny\n", conv)

	outcome, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Quit, outcome.State)
	assert.True(t, outcome.State.Terminal())
	assert.Empty(t, conv.calls)
	assert.Equal(t, 0, outcome.Result.Attempted)
	assert.Contains(t, out.String(), "Interrupted.")
	assert.NotContains(t, out.String(), "Batch summary")
}

func TestRunInterruptedAtConfirmation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conv := &scriptedConverter{}
	s, out := newSession(makeDir(t, "file1.txt", "file2.txt"), "", conv)
	s.In = &cancellingReader{lines: []string{"1-2\n", "y\n"}, cancelAt: 1, cancel: cancel}

	outcome, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Cancelled, outcome.State)
	assert.Empty(t, conv.calls)
	assert.Contains(t, out.String(), "Conversion cancelled.")
	assert.NotContains(t, out.String(), "Batch summary")
}
