package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/h2non/filetype"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

var (
	ErrRegistrationFailed = errors.New("linkedin upload registration failed")
	ErrUploadFailed       = errors.New("linkedin media upload failed")
)

type LinkedInMediaService interface {
	Upload(ctx context.Context, ownerURN, filePath, accessToken string) (string, error)
}

type linkedInMediaService struct {
	cfg    config.Config
	client *http.Client
}

func NewLinkedInMediaService(cfg config.Config, client *http.Client) LinkedInMediaService {
	return &linkedInMediaService{
		cfg:    cfg,
		client: client,
	}
}

// Upload registers an image upload for ownerURN, sends the file bytes to the
// URL LinkedIn hands back and returns the asset URN.
func (s *linkedInMediaService) Upload(ctx context.Context, ownerURN, filePath, accessToken string) (string, error) {
	upload, asset, err := s.registerUpload(ctx, ownerURN, accessToken)
	if err != nil {
		return "", err
	}

	file, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrUploadFailed, filePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, upload.UploadURL, bytes.NewReader(file))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	for key, value := range upload.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType(file))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	slog.Debug("uploaded media to linkedin", "asset", asset, "file", filePath)
	return asset, nil
}

func (s *linkedInMediaService) registerUpload(ctx context.Context, ownerURN, accessToken string) (transfer.UploadHTTPRequest, string, error) {
	url := s.cfg.LinkedIn.APIURL + "/v2/assets?action=registerUpload"

	req, err := newLinkedInRequest(ctx, http.MethodPost, url, accessToken, transfer.NewImageUploadRequest(ownerURN))
	if err != nil {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: reading response: %v", ErrRegistrationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: status %d: %s", ErrRegistrationFailed, resp.StatusCode, errorMessage(body))
	}

	var result transfer.RegisterUploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: decoding response: %v", ErrRegistrationFailed, err)
	}

	upload, ok := result.UploadRequest()
	if !ok || result.Value.Asset == "" {
		return transfer.UploadHTTPRequest{}, "", fmt.Errorf("%w: response carried no upload url or asset", ErrRegistrationFailed)
	}

	return upload, result.Value.Asset, nil
}

func contentType(file []byte) string {
	kind, err := filetype.Match(file)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}
