// Package engine provides the HTTP client for the external answer-generation
// service. The service itself is an opaque collaborator; this client only
// moves the question over and the structured answer back.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
)

// Client calls a remote answer engine over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL. Per-attempt timeouts
// are enforced by the caller's context; the transport timeout is a backstop.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("engine: empty base url")
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	QuestionText string `json:"question_text"`
}

// Generate posts the question to the engine and decodes the answer.
func (c *Client) Generate(ctx context.Context, questionText string) (*sifu.Answer, error) {
	body, errEncode := json.Marshal(generateRequest{QuestionText: questionText})
	if errEncode != nil {
		return nil, fmt.Errorf("engine: encode request: %w", errEncode)
	}

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if errReq != nil {
		return nil, fmt.Errorf("engine: build request: %w", errReq)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, errDo := c.httpClient.Do(req)
	if errDo != nil {
		return nil, fmt.Errorf("engine: request: %w", errDo)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("engine: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var answer sifu.Answer
	if errDecode := json.NewDecoder(resp.Body).Decode(&answer); errDecode != nil {
		return nil, fmt.Errorf("engine: decode response: %w", errDecode)
	}
	if strings.TrimSpace(answer.ResponseText) == "" {
		return nil, errors.New("engine: empty response text")
	}
	return &answer, nil
}

// Ensure Client implements the engine contract.
var _ sifu.AnswerEngine = (*Client)(nil)
