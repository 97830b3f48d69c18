package monitor

import "time"

// Status is a snapshot of backing service reachability.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Queue      bool      `json:"queue"`
	QueueSize  int       `json:"queue_size"`
	DeadJobs   int       `json:"dead_jobs"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether every dependency answered the last check.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis && s.Queue
}
