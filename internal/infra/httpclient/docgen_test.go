package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vesselworks/dashboard/internal/config"
	"go.uber.org/zap"
)

func newTestClient(url string) *DocGenClient {
	cfg := &config.Config{DocGen: config.DocGenCfg{BaseURL: url, TimeoutSec: 5}}
	return NewDocGenClient(cfg, zap.NewNop())
}

func TestDocGenClient_GenerateLetter(t *testing.T) {
	fields := LetterFields{
		ProjectName:    "Crude Unit Revamp",
		Client:         "Acme Petro",
		Location:       "Houston",
		CompletionDate: "2026-04-30",
		PONumber:       "PO-1001",
		Manager:        "Dana",
		ClientContact:  "Ms. Rivera",
	}

	var got LetterFields
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/templates/recommendation_letter/render", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(raw, &got))

		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"))
	}))
	defer srv.Close()

	doc, err := newTestClient(srv.URL).GenerateLetter(context.Background(), fields)

	require.NoError(t, err)
	assert.Equal(t, fields, got)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, ".pdf", doc.Extension)
	assert.NotEmpty(t, doc.Body)
}

func TestDocGenClient_GenerateLetter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errMsg  string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"error":"missing field"}`))
			},
			errMsg: "status 422",
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			errMsg:  "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			doc, err := newTestClient(srv.URL).GenerateLetter(context.Background(), LetterFields{})

			assert.Nil(t, doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
