package models

import "time"

// ProgressEventType enumerates the tracker transitions that get logged
type ProgressEventType string

const (
	EventStart    ProgressEventType = "start"
	EventPause    ProgressEventType = "pause"
	EventComplete ProgressEventType = "complete"
)

// ProgressEvent is an immutable record of a session transition. The
// event log is append-only and is the source of truth for dashboard
// aggregation.
type ProgressEvent struct {
	ID             int64             `json:"id"`
	PlanID         string            `json:"plan_id"`
	SessionIndex   int               `json:"session_index"`
	Event          ProgressEventType `json:"event"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	CreatedAt      time.Time         `json:"created_at"`
}
