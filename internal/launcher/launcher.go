// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package launcher runs the interactive batch session: discover candidate
// files, show them, read a selection and a confirmation, then convert the
// selected files one at a time.
package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/autobatch/internal/catalog"
	"github.com/pdiddy/autobatch/internal/convert"
	"github.com/pdiddy/autobatch/internal/selection"
)

// Session holds everything one interactive run needs.
type Session struct {
	// Dir is the directory scanned for candidate files.
	Dir string

	Discovery catalog.Options

	// OutputSuffix is appended to each base name for progress display.
	OutputSuffix string

	Converter convert.Converter

	// BeginBatch, when set, is called once the user confirms and returns the
	// recorder for the batch.
	BeginBatch func(ctx context.Context) (convert.Recorder, error)

	In  io.Reader
	Out io.Writer
}

// Outcome describes how a run ended.
type Outcome struct {
	State   State
	Catalog *catalog.Catalog
	Result  convert.BatchResult
}

// Run executes the session. The only error it returns is a discovery
// failure; every other ending, including per-file conversion failures, is
// reported to Out and reflected in the Outcome state.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	ui := newView(s.Out)
	in := bufio.NewReader(s.In)
	out := Outcome{State: Discovering}

	ui.banner(s.Dir, s.Discovery.Filter.Suffix)

	opts := s.Discovery
	opts.Warn = s.Out
	cat, err := catalog.Discover(s.Dir, opts)
	if err != nil {
		return out, err
	}
	out.Catalog = cat

	if cat.Len() == 0 {
		fmt.Fprintf(s.Out, "No %s files found in %s.\n", s.Discovery.Filter.Suffix, s.Dir)
		out.State = NothingFound
		return out, nil
	}

	cat.SortByKey()
	out.State = Displaying
	ui.table(cat)

	out.State = AwaitingSelection
	ui.menu()
	line, err := readLine(in)
	if err != nil && line == "" {
		line = "q"
		fmt.Fprintln(s.Out)
	}
	if ctx.Err() != nil {
		fmt.Fprintln(s.Out, "\nInterrupted.")
		out.State = Quit
		return out, nil
	}

	sel, err := selection.Parse(line, cat.Len())
	if err != nil {
		var se *selection.SelectionError
		if errors.As(err, &se) {
			fmt.Fprintf(s.Out, "Invalid range %q: %s.\n", se.Input, se.Reason)
		} else {
			fmt.Fprintf(s.Out, "Invalid selection: %v\n", err)
		}
		out.State = SelectionInvalid
		return out, nil
	}
	if sel.Quit {
		fmt.Fprintln(s.Out, "Exiting.")
		out.State = Quit
		return out, nil
	}
	for _, w := range sel.Warnings {
		ui.warn(w.String())
	}

	if sel.All {
		cat.SelectAll()
	} else {
		cat.Apply(sel.Indices)
	}

	selected := cat.Selected()
	if len(selected) == 0 {
		fmt.Fprintln(s.Out, "No files selected.")
		out.State = NothingSelected
		return out, nil
	}
	switch {
	case sel.All:
		fmt.Fprintf(s.Out, "Selected all %d files.\n", len(selected))
	case isRange(line):
		fmt.Fprintf(s.Out, "Selected files %d to %d.\n", sel.Indices[0], sel.Indices[len(sel.Indices)-1])
	}

	out.State = AwaitingConfirmation
	ui.preview(selected)
	if !confirm(in, s.Out) || ctx.Err() != nil {
		fmt.Fprintln(s.Out, "Conversion cancelled.")
		out.State = Cancelled
		return out, nil
	}

	out.State = Converting
	var batchOpts convert.BatchOptions
	if s.BeginBatch != nil {
		rec, err := s.BeginBatch(ctx)
		if err != nil {
			ui.warn(fmt.Sprintf("journal unavailable: %v", err))
		} else {
			batchOpts.Recorder = rec
		}
	}

	jobs := make([]convert.Job, len(selected))
	for i, e := range selected {
		jobs[i] = convert.NewJob(e.Name, s.Discovery.Filter.Suffix, s.OutputSuffix)
	}

	fmt.Fprintln(s.Out, "\nConverting...")
	out.Result = convert.ConvertBatch(ctx, s.Converter, jobs, s.Out, batchOpts)
	ui.summary(out.Result)

	out.State = Done
	return out, nil
}

// readLine returns the next input line without its line terminator. A final
// line without a newline is returned with a nil error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return strings.TrimRight(line, "\r\n"), err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm prompts for y/n and reports whether the first non-blank character
// of the answer is y or Y. End of input counts as no.
func confirm(r *bufio.Reader, w io.Writer) bool {
	fmt.Fprint(w, "\nStart conversion? (y/n): ")
	line, err := readLine(r)
	if err != nil && line == "" {
		fmt.Fprintln(w)
		return false
	}
	answer := strings.TrimSpace(line)
	return answer != "" && (answer[0] == 'y' || answer[0] == 'Y')
}

func isRange(line string) bool {
	return strings.Contains(line, "-")
}

// view renders the interactive screens.
type view struct {
	w      io.Writer
	title  lipgloss.Style
	header lipgloss.Style
	mark   lipgloss.Style
	warnS  lipgloss.Style
	okS    lipgloss.Style
	failS  lipgloss.Style
}

func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		w:      w,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		header: r.NewStyle().Bold(true),
		mark:   r.NewStyle().Foreground(lipgloss.Color("10")),
		warnS:  r.NewStyle().Foreground(lipgloss.Color("11")),
		okS:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		failS:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func (v *view) banner(dir, suffix string) {
	fmt.Fprintln(v.w, v.title.Render("autobatch: batch converter launcher"))
	fmt.Fprintf(v.w, "Scanning %s for %s files...\n", dir, suffix)
}

func (v *view) table(cat *catalog.Catalog) {
	fmt.Fprintf(v.w, "\nFound %d file(s):\n", cat.Len())
	fmt.Fprintln(v.w, v.header.Render(fmt.Sprintf("%4s  %-3s  %s", "No.", "Sel", "Name")))
	fmt.Fprintln(v.w, strings.Repeat("-", 50))
	for i, e := range cat.Entries() {
		box := "[ ]"
		if e.Selected {
			box = v.mark.Render("[X]")
		}
		fmt.Fprintf(v.w, "%3d.  %s  %s (key: %d)\n", i+1, box, e.Name, e.Key)
	}
}

func (v *view) menu() {
	fmt.Fprintln(v.w, "\nSelect files to convert:")
	fmt.Fprintln(v.w, "  indices   e.g. 1 3 5")
	fmt.Fprintln(v.w, "  range     e.g. 1-10")
	fmt.Fprintln(v.w, "  *         all files")
	fmt.Fprintln(v.w, "  q         quit")
	fmt.Fprint(v.w, "\nSelection: ")
}

func (v *view) warn(msg string) {
	fmt.Fprintln(v.w, v.warnS.Render("warning: "+msg))
}

func (v *view) preview(selected []catalog.Entry) {
	fmt.Fprintf(v.w, "\nReady to convert %d file(s):\n", len(selected))
	for _, e := range selected {
		fmt.Fprintf(v.w, "  %s\n", e.Name)
	}
}

func (v *view) summary(r convert.BatchResult) {
	if r.HasFailures() {
		fmt.Fprintln(v.w, v.failS.Render(fmt.Sprintf("%d file(s) failed to convert.", r.Failed)))
		return
	}
	if r.Interrupted {
		return
	}
	fmt.Fprintln(v.w, v.okS.Render("All selected files converted."))
}
