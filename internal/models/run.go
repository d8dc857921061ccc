package models

import "time"

// RunRequest is the input of one invocation.
type RunRequest struct {
	Filenames []string
}

// Group holds the files routed to one rule, in input order.
type Group struct {
	Rule      Rule
	Filenames []string
}

// GroupResult contains the outcome of checking one group.
type GroupResult struct {
	Group       Group     `json:"group"`
	Ran         bool      `json:"ran"`
	Interpreter string    `json:"interpreter,omitempty"`
	ExitCode    int       `json:"exit_code"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec float64   `json:"duration_sec"`
}

// Passed reports whether the group ran and every file loaded.
func (g GroupResult) Passed() bool {
	return g.Ran && g.ExitCode == 0
}

// RunResult aggregates all groups of one invocation.
type RunResult struct {
	ExitCode         int           `json:"exit_code"`
	Groups           []GroupResult `json:"groups"`
	Skipped          []string      `json:"skipped"`
	StartedAt        time.Time     `json:"started_at"`
	EndedAt          time.Time     `json:"ended_at"`
	TotalDurationSec float64       `json:"total_duration_sec"`
}

// FailedGroup returns the group that stopped the run, if any.
func (r *RunResult) FailedGroup() (GroupResult, bool) {
	for _, g := range r.Groups {
		if g.Ran && g.ExitCode != 0 {
			return g, true
		}
	}
	return GroupResult{}, false
}
