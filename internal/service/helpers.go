package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

const personURNPrefix = "urn:li:person:"

// PersonURN turns a bare LinkedIn member id into a person URN.
func PersonURN(id string) string {
	if strings.HasPrefix(id, personURNPrefix) {
		return id
	}
	return personURNPrefix + id
}

func newLinkedInRequest(ctx context.Context, method, url, accessToken string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	return req, nil
}

// errorMessage prefers the message field of a LinkedIn error body and falls
// back to the raw text.
func errorMessage(body []byte) string {
	var errResp transfer.LinkedInErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(body))
}
