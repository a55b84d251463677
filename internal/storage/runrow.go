package storage

import "time"

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Kind        string    `json:"kind,omitempty"`
	ProjectPath string    `json:"project_path,omitempty"`
	Findings    int       `json:"findings"`
}
