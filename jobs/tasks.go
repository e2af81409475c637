// Package jobs runs background work over Asynq: the nightly books integrity
// scan and GST filing reminders.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBooksIntegrityScan re-checks every client's books for unbalanced
	// vouchers and dangling ledger references.
	TaskBooksIntegrityScan = "books:integrity-scan"
	// TaskGSTFilingReminder flags clients whose GST returns for the prior
	// month have no recorded filing.
	TaskGSTFilingReminder = "gst:filing-reminder"
)

// BooksIntegrityPayload scopes the integrity scan. A nil client list means
// all clients.
type BooksIntegrityPayload struct {
	ClientIDs []uuid.UUID `json:"clientIds,omitempty"`
}

// NewBooksIntegrityTask constructs the integrity scan task.
func NewBooksIntegrityTask(payload BooksIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBooksIntegrityScan, data), nil
}

// GSTReminderPayload scopes the filing reminder to one period, formatted as
// the GST portal does (e.g. "04-2026"). Empty means the previous month.
type GSTReminderPayload struct {
	Period string `json:"period,omitempty"`
}

// NewGSTReminderTask constructs the filing reminder task.
func NewGSTReminderTask(payload GSTReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGSTFilingReminder, data), nil
}
