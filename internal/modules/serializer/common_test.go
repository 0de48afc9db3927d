package serializer

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        errs.Validation("request letter", "project is not completed"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "request letter: project is not completed",
		},
		{
			name:       "not found",
			err:        errs.NotFound("get project", "project p-1 not found"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "get project: project p-1 not found",
		},
		{
			name:       "collaborator",
			err:        errs.Collaborator("request letter", errors.New("docgen: 503")),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "upstream service error",
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := FromError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, res.Code)
			assert.Equal(t, tt.wantMsg, res.Msg)
		})
	}
}
