package models

import "time"

type Request struct {
	Packages  []string `json:"packages"`
	Archive   string   `json:"archive,omitempty"`
	Directory string   `json:"directory,omitempty"`
}

// Sources - количество выбранных источников (-p и -a).
func (r Request) Sources() int {
	n := len(r.Packages)
	if r.Archive != "" {
		n++
	}
	return n
}

type Report struct {
	RunID     string         `json:"run_id"`
	Tasks     []*ArchiveTask `json:"tasks"`
	Errors    []string       `json:"errors,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

func (r *Report) Count(status TaskStatus) int {
	n := 0
	for _, t := range r.Tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}
