package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

type LinkedInPostService interface {
	Publish(ctx context.Context, ownerURN, text string, assets []string, accessToken string) transfer.PublishResult
}

type linkedInPostService struct {
	cfg    config.Config
	client *http.Client
}

func NewLinkedInPostService(cfg config.Config, client *http.Client) LinkedInPostService {
	return &linkedInPostService{
		cfg:    cfg,
		client: client,
	}
}

// Publish submits one UGC post. It never returns an error: every outcome,
// including transport failures, is reported through the PublishResult.
func (s *linkedInPostService) Publish(ctx context.Context, ownerURN, text string, assets []string, accessToken string) transfer.PublishResult {
	url := s.cfg.LinkedIn.APIURL + "/v2/ugcPosts"

	req, err := newLinkedInRequest(ctx, http.MethodPost, url, accessToken, transfer.NewUGCPost(ownerURN, text, assets))
	if err != nil {
		return transfer.PublishResult{Reason: transfer.ReasonUnclassified, Message: err.Error()}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("linkedin publish request failed", "author", ownerURN, "error", err)
		return transfer.PublishResult{Reason: transfer.ReasonNetworkError, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
	}

	return classifyPublishResponse(resp, body)
}

func classifyPublishResponse(resp *http.Response, body []byte) transfer.PublishResult {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return transfer.PublishResult{
			Success:    true,
			StatusCode: resp.StatusCode,
			PostID:     publishedPostID(resp, body),
		}
	case http.StatusUnauthorized:
		return failure(resp.StatusCode, transfer.ReasonCredentialExpired, body)
	case http.StatusForbidden:
		return failure(resp.StatusCode, transfer.ReasonMissingPermission, body)
	case http.StatusUnprocessableEntity:
		return failure(resp.StatusCode, transfer.ReasonRejectedPayload, body)
	default:
		return failure(resp.StatusCode, transfer.ReasonUnclassified, body)
	}
}

func failure(statusCode int, reason transfer.FailureReason, body []byte) transfer.PublishResult {
	return transfer.PublishResult{
		StatusCode: statusCode,
		Reason:     reason,
		Message:    errorMessage(body),
	}
}

func publishedPostID(resp *http.Response, body []byte) string {
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err == nil && created.ID != "" {
		return created.ID
	}
	if id := resp.Header.Get("X-RestLi-Id"); id != "" {
		return id
	}
	return transfer.UnknownPostID
}
