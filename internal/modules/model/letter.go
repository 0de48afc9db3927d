package model

import (
	"errors"
	"time"
)

type LetterStatus string

const (
	LetterNotRequested LetterStatus = "not-requested"
	LetterRequested    LetterStatus = "requested"
	LetterReceived     LetterStatus = "received"
)

// ReminderTimeLayout formats LastReminderDateTime.
const ReminderTimeLayout = "2006-01-02 15:04:05"

type RecommendationLetter struct {
	Status              LetterStatus `json:"status"`
	RequestDate         string       `json:"request_date,omitempty"`
	ClientEmail         string       `json:"client_email,omitempty"`
	ClientContactPerson string       `json:"client_contact_person,omitempty"`

	ReminderCount        int    `json:"reminder_count"`
	LastReminderDate     string `json:"last_reminder_date,omitempty"`
	LastReminderDateTime string `json:"last_reminder_date_time,omitempty"`

	// The generated letter that went out with the latest request or reminder.
	LastSentDocument *StoredDocument `json:"last_sent_document,omitempty"`

	ReceivedDocument *ReceivedDocument `json:"received_document,omitempty"`
}

type StoredDocument struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ReceivedDocument struct {
	Name       string    `json:"name"`
	Uploaded   bool      `json:"uploaded"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"upload_date"`
	URL        string    `json:"url"`
	Key        string    `json:"key,omitempty"`
}

var (
	errReceivedWithoutDocument = errors.New("received letter has no received document")
	errNotRequestedWithData    = errors.New("not-requested letter carries request data")
	errReminderWithoutTime     = errors.New("reminder count set without last reminder time")
	errNegativeReminders       = errors.New("negative reminder count")
)

// Check verifies the letter's state invariants. Reminders are only sent while requested, and a
// received letter keeps the reminder history of its request.
func (l RecommendationLetter) Check() error {
	status := l.Status
	if status == "" {
		status = LetterNotRequested
	}
	if l.ReminderCount < 0 {
		return errNegativeReminders
	}
	switch status {
	case LetterReceived:
		if l.ReceivedDocument == nil {
			return errReceivedWithoutDocument
		}
	case LetterNotRequested:
		if l.RequestDate != "" || l.ReminderCount != 0 || l.ReceivedDocument != nil {
			return errNotRequestedWithData
		}
	}
	if l.ReminderCount > 0 && l.LastReminderDateTime == "" {
		return errReminderWithoutTime
	}
	return nil
}
