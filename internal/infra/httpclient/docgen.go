package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/vesselworks/dashboard/internal/config"
	"go.uber.org/zap"
)

// maxDocumentBytes caps the generator response we are willing to buffer.
const maxDocumentBytes = 32 << 20

// DocGenClient is the HTTP client for the document rendering service
type DocGenClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewDocGenClient creates a new DocGenClient
func NewDocGenClient(cfg *config.Config, log *zap.Logger) *DocGenClient {
	timeout := time.Duration(cfg.DocGen.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DocGenClient{
		BaseURL: cfg.DocGen.BaseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Logger: log,
	}
}

// LetterFields are the project facts merged into the recommendation letter template
type LetterFields struct {
	ProjectName    string `json:"project_name"`
	Client         string `json:"client"`
	Location       string `json:"location"`
	CompletionDate string `json:"completion_date"`
	PONumber       string `json:"po_number"`
	Manager        string `json:"manager"`
	ClientContact  string `json:"client_contact"`
}

// GeneratedDocument is a rendered document
type GeneratedDocument struct {
	Body        []byte
	ContentType string
	// Extension includes the leading dot, e.g. ".docx"
	Extension string
}

// GenerateLetter calls the recommendation letter endpoint
func (c *DocGenClient) GenerateLetter(ctx context.Context, fields LetterFields) (*GeneratedDocument, error) {
	endpoint := fmt.Sprintf("%s/api/v1/templates/recommendation_letter/render", c.BaseURL)

	body, err := sonic.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Error("render recommendation_letter request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("empty document returned")
	}
	if len(respBody) > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}

	// Trust the bytes over the header; renderers often answer application/octet-stream.
	mt := mimetype.Detect(respBody)
	return &GeneratedDocument{
		Body:        respBody,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, nil
}
