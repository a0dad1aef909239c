package store

import (
	"context"

	statex "github.com/brewhaven/voice-agents/agent/state"
)

// StatusCompleted tags a persisted order record.
const StatusCompleted = "completed"

// OrderRecord is the immutable snapshot written for one finished order.
type OrderRecord struct {
	Order     statex.Order `json:"order"`
	Timestamp string       `json:"timestamp"`
	Status    string       `json:"status"`
}

// CheckinRecord is one wellness log entry.
type CheckinRecord struct {
	Mood          string   `json:"mood"`
	Energy        string   `json:"energy"`
	StressFactors []string `json:"stressFactors"`
	Objectives    []string `json:"objectives"`
	Timestamp     string   `json:"timestamp"`
	Summary       string   `json:"summary"`
}

// Sink abstracts the record store so the on-disk JSON layout can be swapped
// for a database without touching state or tool logic. Records are append
// only; nothing here mutates a written record.
type Sink[R any] interface {
	Append(ctx context.Context, rec R) error
	LoadAll(ctx context.Context) ([]R, error)
}
