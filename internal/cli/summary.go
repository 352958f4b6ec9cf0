package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/specialistvlad/actiongrid/internal/executor"
	"github.com/specialistvlad/actiongrid/internal/nodestore"
)

// stderrTailLines is how many trailing stderr lines are shown per failure.
const stderrTailLines = 10

// SummaryOptions controls PrintSummary.
type SummaryOptions struct {
	// Color enables ANSI styling. Callers usually pass color.SupportColor().
	Color bool
}

var stateStyles = map[nodestore.Status]color.Style{
	nodestore.StatusSucceeded: color.New(color.FgGreen),
	nodestore.StatusFailed:    color.New(color.FgRed, color.OpBold),
	nodestore.StatusSkipped:   color.New(color.FgYellow),
}

// PrintSummary writes one line per action in the result's topological order,
// followed by the stderr tail of every failed action and a totals line.
func PrintSummary(w io.Writer, result *executor.RunResult, opts SummaryOptions) {
	if result == nil {
		return
	}
	paint := func(st color.Style, s string) string {
		if !opts.Color {
			return s
		}
		return st.Sprint(s)
	}
	dim := color.New(color.FgGray)

	fmt.Fprintln(w)
	for _, a := range result.Actions {
		state := fmt.Sprintf("%-9s", strings.ToUpper(a.State.String()))
		fmt.Fprintf(w, "%s %-7s %-32s %8s  %s\n",
			paint(stateStyles[a.State], state),
			a.Kind,
			a.ID.String(),
			a.Elapsed.Round(time.Millisecond),
			paint(dim, detail(a)),
		)
		if a.State == nodestore.StatusFailed {
			for _, line := range tail(a.Stderr, stderrTailLines) {
				fmt.Fprintf(w, "    %s %s\n", paint(dim, "|"), line)
			}
		}
	}

	totals := fmt.Sprintf("%d succeeded, %d failed, %d skipped in %s",
		result.Count(nodestore.StatusSucceeded),
		result.Count(nodestore.StatusFailed),
		result.Count(nodestore.StatusSkipped),
		result.Elapsed.Round(time.Millisecond),
	)
	if result.Cause != nil {
		totals += fmt.Sprintf(" (%v)", result.Cause)
	}
	fmt.Fprintln(w, totals)
}

// detail explains how an action ended.
func detail(a executor.ActionResult) string {
	switch a.State {
	case nodestore.StatusSucceeded:
		return a.Status.String()
	case nodestore.StatusFailed:
		if a.Err != nil {
			return a.Err.Error()
		}
		return a.Status.String()
	case nodestore.StatusSkipped:
		if a.Err != nil {
			return "skipped: " + a.Err.Error()
		}
		return "skipped"
	default:
		return ""
	}
}

// tail returns the last n lines of s.
func tail(s string, n int) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
