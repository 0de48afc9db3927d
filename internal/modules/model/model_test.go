package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vesselworks/dashboard/internal/pkg/equipment"
	"gorm.io/datatypes"
)

func TestProject_Letter_DefaultsToNotRequested(t *testing.T) {
	p := Project{ID: "p-1"}

	assert.Equal(t, LetterNotRequested, p.Letter().Status)
	assert.NoError(t, p.Letter().Check())
}

func TestProject_DeadlineDate(t *testing.T) {
	tests := []struct {
		deadline string
		ok       bool
	}{
		{"2026-03-01", true},
		{"", false},
		{"soon", false},
		{"2026-13-40", false},
	}

	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			d, ok := Project{Deadline: tt.deadline}.DeadlineDate()
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.deadline, d.Format(DateLayout))
			}
		})
	}
}

func TestRecommendationLetter_Check(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		letter  RecommendationLetter
		wantErr error
	}{
		{name: "zero value", letter: RecommendationLetter{}},
		{
			name:   "requested with reminders",
			letter: RecommendationLetter{Status: LetterRequested, RequestDate: "2026-04-01", ReminderCount: 2, LastReminderDateTime: "2026-04-20 09:00:00"},
		},
		{
			name:   "received with document",
			letter: RecommendationLetter{Status: LetterReceived, ReceivedDocument: &ReceivedDocument{Name: "a.pdf", UploadDate: now}},
		},
		{
			name: "received keeps reminder history",
			letter: RecommendationLetter{
				Status: LetterReceived, RequestDate: "2026-04-01", ReminderCount: 2, LastReminderDateTime: "2026-04-20 09:00:00",
				ReceivedDocument: &ReceivedDocument{Name: "a.pdf", UploadDate: now},
			},
		},
		{
			name:    "not requested with reminders",
			letter:  RecommendationLetter{Status: LetterNotRequested, ReminderCount: 1, LastReminderDateTime: "2026-04-20 09:00:00"},
			wantErr: errNotRequestedWithData,
		},
		{
			name:    "received without document",
			letter:  RecommendationLetter{Status: LetterReceived},
			wantErr: errReceivedWithoutDocument,
		},
		{
			name:    "not requested with request date",
			letter:  RecommendationLetter{Status: LetterNotRequested, RequestDate: "2026-04-01"},
			wantErr: errNotRequestedWithData,
		},
		{
			name:    "reminder count without time",
			letter:  RecommendationLetter{Status: LetterRequested, ReminderCount: 1},
			wantErr: errReminderWithoutTime,
		},
		{
			name:    "negative reminders",
			letter:  RecommendationLetter{Status: LetterRequested, ReminderCount: -1},
			wantErr: errNegativeReminders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.letter.Check()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectPatch_ApplyAndColumns(t *testing.T) {
	orig := Project{
		ID:                 "p-1",
		Name:               "Refinery Upgrade",
		Status:             StatusActive,
		Progress:           40,
		EquipmentBreakdown: equipment.Breakdown{equipment.Reactor: 2},
	}
	status := StatusCompleted
	progress := 100
	date := "2026-05-01"
	letter := RecommendationLetter{Status: LetterRequested, RequestDate: date, ClientEmail: "a@b.com"}

	patch := ProjectPatch{Status: &status, Progress: &progress, CompletedDate: &date, RecommendationLetter: &letter}
	require.NoError(t, patch.Validate())

	got := patch.Apply(orig)

	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, date, got.CompletedDate)
	assert.Equal(t, "Refinery Upgrade", got.Name)
	assert.Equal(t, LetterRequested, got.Letter().Status)
	// original untouched
	assert.Equal(t, StatusActive, orig.Status)
	assert.Equal(t, LetterNotRequested, orig.Letter().Status)

	got.EquipmentBreakdown[equipment.Reactor] = 9
	assert.Equal(t, 2, orig.EquipmentBreakdown[equipment.Reactor])

	cols := patch.Columns()
	assert.Len(t, cols, 4)
	assert.Equal(t, "completed", cols["status"])
	assert.Equal(t, 100, cols["progress"])
	assert.Equal(t, datatypes.NewJSONType(letter), cols["recommendation_letter"])
}

func TestLetterPatch_OnlyTouchesLetterColumn(t *testing.T) {
	cols := LetterPatch(RecommendationLetter{Status: LetterRequested}).Columns()

	assert.Len(t, cols, 1)
	assert.Contains(t, cols, "recommendation_letter")
	assert.True(t, ProjectPatch{}.IsEmpty())
}

func TestProjectPatch_Validate(t *testing.T) {
	bad := ProjectStatus("paused")
	over := 120
	empty := ""

	assert.Error(t, ProjectPatch{Status: &bad}.Validate())
	assert.Error(t, ProjectPatch{Progress: &over}.Validate())
	assert.Error(t, ProjectPatch{Name: &empty}.Validate())
	assert.Error(t, LetterPatch(RecommendationLetter{Status: LetterReceived}).Validate())
}

func TestSessionContext(t *testing.T) {
	assert.ErrorIs(t, SessionContext{}.Validate(), ErrMissingFirm)
	assert.NoError(t, SessionContext{Role: RoleSuperAdmin}.Validate())
	assert.Equal(t, "firm:f-1", SessionContext{FirmID: "f-1", Role: "engineer"}.ScopeKey())
	assert.Equal(t, "*", SessionContext{FirmID: "f-1", Role: RoleSuperAdmin}.ScopeKey())
}
