package blob

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "precondition failed", err: &smithy.GenericAPIError{Code: "PreconditionFailed"}, want: true},
		{name: "conditional conflict", err: &smithy.GenericAPIError{Code: "ConditionalRequestConflict"}, want: true},
		{name: "wrapped", err: fmt.Errorf("upload: %w", &smithy.GenericAPIError{Code: "PreconditionFailed"}), want: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: false},
		{name: "plain error", err: errors.New("timeout"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicate(tt.err))
		})
	}
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t,
		"https://cdn.example.com/recommendation-letters/crude-unit/Letter%20Signed.pdf",
		JoinURL("https://cdn.example.com/", "recommendation-letters/crude-unit/Letter Signed.pdf"),
	)
	assert.Equal(t, "https://cdn.example.com/a/b", JoinURL("https://cdn.example.com", "a/b"))
}
