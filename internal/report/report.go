// Package report renders scan results for humans. JSON output bypasses it
// entirely.
// ABOUTME: Styled per-record blocks, summary, and removal lines over lipgloss.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/docker/go-units"

	"github.com/venvsweep/venvsweep/internal/scan"
	"github.com/venvsweep/venvsweep/internal/venv"
)

// Writer renders records, summaries, and removal outcomes.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a Writer rendering to out with the given styles.
func New(out io.Writer, styles Styles) *Writer {
	return &Writer{out: out, styles: styles}
}

// Record prints one environment block.
func (w *Writer) Record(rec venv.Record) {
	fmt.Fprintln(w.out, w.styles.Path.Render(rec.Path))
	w.field("status", w.styles.ForStatus(rec.Status).Render(string(rec.Status)))
	w.field("size", units.HumanSize(float64(rec.SizeBytes)))
	w.field("age", formatDays(rec.AgeDays))
	if line := describePython(rec); line != "" {
		w.field("python", line)
	}
	switch {
	case rec.PackagesErr:
		w.field("packages", w.styles.Warn.Render("listing failed"))
	case rec.Packages != nil:
		w.field("packages", fmt.Sprintf("%d installed", len(rec.Packages)))
		w.packageTable(rec.Packages)
	}
	for _, note := range rec.Notes {
		fmt.Fprintf(w.out, "  %s\n", w.styles.Dim.Render("note: "+note))
	}
	fmt.Fprintln(w.out)
}

// Summary prints the aggregate block that closes every scan.
func (w *Writer) Summary(sum venv.Summary) {
	fmt.Fprintln(w.out, w.styles.Header.Render("summary"))
	w.field("environments", strconv.Itoa(sum.Total))

	broken := strconv.Itoa(sum.Broken)
	if sum.Broken > 0 {
		broken = w.styles.Broken.Render(broken)
	}
	w.field("broken", broken)

	incompatible := strconv.Itoa(sum.Incompatible)
	if sum.Incompatible > 0 {
		incompatible = w.styles.Incompatible.Render(incompatible)
	}
	w.field("incompatible", incompatible)

	w.field("total size", units.HumanSize(float64(sum.TotalBytes)))
}

// Skipped lists the nodes the walker could not read.
func (w *Writer) Skipped(diags []scan.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w.out, w.styles.Header.Render("skipped"))
	for _, d := range diags {
		fmt.Fprintf(w.out, "  %s: %s\n", d.Path, w.styles.Dim.Render(d.Reason))
	}
	fmt.Fprintln(w.out)
}

// NoEnvironments prints the empty-scan message.
func (w *Writer) NoEnvironments(root string) {
	fmt.Fprintf(w.out, "No virtual environments found under %s\n", root)
}

// NoneMatched prints when environments exist but the age filter hid them all.
func (w *Writer) NoneMatched() {
	fmt.Fprintln(w.out, "No virtual environments matched the filter.")
}

// Removed reports one successful deletion.
func (w *Writer) Removed(rec venv.Record) {
	fmt.Fprintf(w.out, "%s %s (%s)\n",
		w.styles.Valid.Render("removed"), rec.Path, units.HumanSize(float64(rec.SizeBytes)))
}

// RemoveFailed reports one failed deletion.
func (w *Writer) RemoveFailed(err error) {
	fmt.Fprintf(w.out, "%s %v\n", w.styles.Broken.Render("failed:"), err)
}

// DryRunNote points at the flag that actually deletes.
func (w *Writer) DryRunNote() {
	fmt.Fprintln(w.out, w.styles.Dim.Render(
		"Note: this was a dry run. Re-run with --remove to delete the environments listed above."))
}

func (w *Writer) field(label, value string) {
	fmt.Fprintf(w.out, "  %s %s\n", w.styles.Label.Render(label+":"), value)
}

func (w *Writer) packageTable(pkgs []venv.Package) {
	tw := tabwriter.NewWriter(w.out, 0, 0, 3, ' ', 0)
	for _, p := range pkgs {
		fmt.Fprintf(tw, "    %s\t%s\n", p.Name, p.Version)
	}
	_ = tw.Flush()
}

// describePython folds version, architecture, and origin into one line,
// for example "3.12.1 (x86_64) from /usr/bin".
func describePython(rec venv.Record) string {
	var parts []string
	if rec.PythonVersion != "" {
		parts = append(parts, rec.PythonVersion)
	}
	if rec.PythonArch != "" {
		parts = append(parts, "("+rec.PythonArch+")")
	}
	if rec.BaseHome != "" {
		parts = append(parts, "from "+rec.BaseHome)
	}
	return strings.Join(parts, " ")
}

func formatDays(days uint32) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
