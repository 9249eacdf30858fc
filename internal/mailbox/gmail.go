// internal/mailbox/gmail.go
package mailbox

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "prospector/internal/common/errors"
	"prospector/internal/common/metrics"
)

// GmailClient creates drafts through the Gmail REST API using an
// externally-obtained OAuth access token. Token acquisition is out of scope.
type GmailClient struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

func NewGmailClient(accessToken, baseURL string) *GmailClient {
	if baseURL == "" {
		baseURL = "https://gmail.googleapis.com"
	}
	return &GmailClient{
		accessToken: accessToken,
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GmailClient) CreateDraft(ctx context.Context, msg Message) error {
	if c.accessToken == "" {
		return apperrors.NewValidationError("gmail access token is not configured")
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"message": map[string]string{
			"raw": base64.RawURLEncoding.EncodeToString([]byte(buildRawMessage(msg))),
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/gmail/v1/users/me/drafts", bytes.NewBuffer(payload))
	if err != nil {
		return apperrors.NewMailboxDraftFailedError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.CollaboratorDuration.WithLabelValues("gmail").Observe(time.Since(start).Seconds())
	if err != nil {
		return apperrors.NewCollaboratorUnavailableError("gmail", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return apperrors.NewMailboxDraftFailedError(
				fmt.Errorf("gmail API: %s (status %d)", apiErr.Error.Message, resp.StatusCode))
		}
		return apperrors.NewMailboxDraftFailedError(
			fmt.Errorf("gmail API status %d", resp.StatusCode))
	}
	return nil
}

// buildRawMessage assembles the RFC 2822 message Gmail expects in the raw
// field. The subject is B-encoded so non-ASCII characters survive.
func buildRawMessage(msg Message) string {
	lines := []string{
		"To: " + msg.To,
		"Subject: =?utf-8?B?" + base64.StdEncoding.EncodeToString([]byte(msg.Subject)) + "?=",
		"Content-Type: text/html; charset=utf-8",
		"MIME-Version: 1.0",
		"",
		strings.ReplaceAll(msg.Body, "\n", "<br>"),
	}
	return strings.Join(lines, "\r\n")
}
