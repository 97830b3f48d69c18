package domain

import (
	"encoding/json"
	"time"
)

// Job priorities; lower values are drained first.
const (
	PriorityCritical = 1
	PriorityDefault  = 3
	PriorityLow      = 5
)

// Job is a unit of asynchronous work handed to the queue.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Priority   int             `json:"priority"`
	Retries    int             `json:"retries"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}
