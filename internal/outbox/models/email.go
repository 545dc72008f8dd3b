package models

import (
	"time"

	id "auditdesk/pkg/domain"
)

// Status is the delivery state of an outbox email.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusSent      Status = "SENT"
	StatusFailed    Status = "FAILED"
	StatusDelivered Status = "DELIVERED"
)

// Type tags what kind of notification an email is, so consumers can route
// templates without parsing the subject line.
type Type string

const (
	TypeRequestLetter Type = "REQUEST_LETTER"
	TypeReportLetter  Type = "REPORT_LETTER"
	TypeClosureLetter Type = "CLOSURE_LETTER"
)

// DefaultMaxRetries is the delivery retry budget for a queued email.
const DefaultMaxRetries = 5

// Email is a queued notification. Rows live in the outbox until the worker
// hands them to the broker; DedupeKey prevents double-queueing the same
// letter for the same audit.
type Email struct {
	ID         id.EmailID `json:"id"`
	To         string     `json:"to"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Type       Type       `json:"type"`
	Status     Status     `json:"status"`
	Retries    int        `json:"retries"`
	MaxRetries int        `json:"maxRetries"`
	DedupeKey  string     `json:"dedupeKey,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewEmail builds a queued email with the default retry budget.
func NewEmail(to, subject, body string, emailType Type, now time.Time) *Email {
	return &Email{
		ID:         id.NewEmailID(),
		To:         to,
		Subject:    subject,
		Body:       body,
		Type:       emailType,
		Status:     StatusQueued,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Exhausted reports whether the retry budget is spent.
func (e *Email) Exhausted() bool {
	return e.Retries >= e.MaxRetries
}
