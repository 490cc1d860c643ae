package models

import "time"

type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
	TaskStatusSkipped TaskStatus = "skipped"
)

// Archive - найденный архив клиента игры.
type Archive struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Ext  string `json:"ext"`
}

// ArchiveTask - одна пара (архив, целевая директория).
type ArchiveTask struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SourcePath string     `json:"source_path"`
	TargetDir  string     `json:"target_dir"`
	Ext        string     `json:"ext"`
	Status     TaskStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
