// Package report renders human-readable output for a run.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/spachava753/check-load-module/internal/models"
)

const (
	statusPassed = "passed"
	statusNotRun = "not run"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	return table
}

func environmentLabel(r models.Rule) string {
	env := string(r.Environment)
	if env == "" {
		env = string(models.EnvironmentLocal)
	}
	if r.Image != "" {
		return fmt.Sprintf("%s (%s)", env, r.Image)
	}
	return env
}

func status(g models.GroupResult) string {
	switch {
	case !g.Ran:
		return statusNotRun
	case g.ExitCode == 0:
		return statusPassed
	default:
		return fmt.Sprintf("failed (exit %d)", g.ExitCode)
	}
}

// Summary writes one row per group followed by a verdict line.
func Summary(w io.Writer, result *models.RunResult) {
	if len(result.Groups) > 0 {
		table := newTable(w, []string{"Prefix", "Interpreter", "Environment", "Files", "Status"})
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_LEFT,
		})

		files := 0
		for _, g := range result.Groups {
			interpreter := g.Interpreter
			if interpreter == "" {
				interpreter = g.Group.Rule.Interpreter
			}
			table.Append([]string{
				g.Group.Rule.DisplayPrefix(),
				interpreter,
				environmentLabel(g.Group.Rule),
				strconv.Itoa(len(g.Group.Filenames)),
				status(g),
			})
			files += len(g.Group.Filenames)
		}
		table.SetFooter([]string{"", "", "Total", strconv.Itoa(files), ""})
		table.Render()
	}

	r := lipgloss.NewRenderer(w)
	okStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	mutedStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	if failed, ok := result.FailedGroup(); ok {
		fmt.Fprintf(w, "%s %s exited with %d\n",
			failStyle.Render("FAIL"),
			failed.Group.Rule.DisplayPrefix(),
			failed.ExitCode,
		)
	} else {
		checked := 0
		for _, g := range result.Groups {
			checked += len(g.Group.Filenames)
		}
		fmt.Fprintf(w, "%s %d files in %d groups loaded\n", okStyle.Render("PASS"), checked, len(result.Groups))
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d files matched no prefix", len(result.Skipped))))
	}
}

// Groups writes the partition of filenames, one row per file, with files
// matching no prefix listed last.
func Groups(w io.Writer, groups []models.Group, skipped []string) {
	table := newTable(w, []string{"Prefix", "Interpreter", "Environment", "File"})
	for _, g := range groups {
		for _, f := range g.Filenames {
			table.Append([]string{
				g.Rule.DisplayPrefix(),
				g.Rule.Interpreter,
				environmentLabel(g.Rule),
				f,
			})
		}
	}
	for _, f := range skipped {
		table.Append([]string{"(ignored)", "", "", f})
	}
	table.Render()
}
