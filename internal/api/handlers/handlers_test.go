package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) Create(ctx context.Context, pc *transfer.PostCreation) (int64, error) {
	args := m.Called(ctx, pc)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostService) CreateSchedule(ctx context.Context, sc *transfer.ScheduleCreation) ([]int64, error) {
	args := m.Called(ctx, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockPostService) Update(ctx context.Context, authorURN string, postID int64, pu *transfer.PostUpdate) error {
	return m.Called(ctx, authorURN, postID, pu).Error(0)
}

func (m *mockPostService) List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error) {
	args := m.Called(ctx, authorURN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduledPost), args.Error(1)
}

func (m *mockPostService) PostInfo(ctx context.Context, authorURN string, postID int64) (*models.ScheduledPost, error) {
	args := m.Called(ctx, authorURN, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *mockPostService) Attempts(ctx context.Context, authorURN string, postID int64) ([]*models.PublishAttempt, error) {
	args := m.Called(ctx, authorURN, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublishAttempt), args.Error(1)
}

type mockBatchService struct {
	mock.Mock
}

func (m *mockBatchService) Run(ctx context.Context, today time.Time) (*transfer.BatchOutcome, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.BatchOutcome), args.Error(1)
}

func (m *mockBatchService) PublishNow(ctx context.Context, authorURN string, postID int64) (*transfer.BatchOutcome, error) {
	args := m.Called(ctx, authorURN, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.BatchOutcome), args.Error(1)
}

// withUser stands in for the auth middleware.
func withUser(urn string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_urn", urn)
		return c.Next()
	}
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func newPostApp(s service.PostService) *fiber.App {
	app := fiber.New()
	h := NewPostHandler(s)
	api := app.Group("/api", withUser("abc"))
	api.Post("/posts", h.CreatePost)
	api.Post("/posts/schedule", h.CreateSchedule)
	api.Get("/posts/:id", h.GetPost)
	api.Put("/posts/:id", h.UpdatePost)
	return app
}

func TestCreatePost_UsesSessionAuthor(t *testing.T) {
	s := new(mockPostService)
	s.On("Create", mock.Anything, mock.MatchedBy(func(pc *transfer.PostCreation) bool {
		return pc.AuthorURN == "abc" && pc.Content == "Hello world"
	})).Return(int64(5), nil)

	req := httptest.NewRequest("POST", "/api/posts", strings.NewReader(`{"post_date":"2026-10-20","content":"Hello world","author_urn":"someone-else"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := newPostApp(s).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(5), decode(t, resp.Body)["id"])
	s.AssertExpectations(t)
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrContentTooLong, fiber.StatusBadRequest},
		{service.ErrInvalidPost, fiber.StatusBadRequest},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			s := new(mockPostService)
			s.On("Create", mock.Anything, mock.Anything).Return(int64(0), tt.err)

			req := httptest.NewRequest("POST", "/api/posts", strings.NewReader(`{"post_date":"2026-10-20","content":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := newPostApp(s).Test(req)

			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, decode(t, resp.Body)["error"])
		})
	}
}

func TestGetPost_NotFound(t *testing.T) {
	s := new(mockPostService)
	s.On("PostInfo", mock.Anything, "abc", int64(7)).Return(nil, service.ErrPostNotFound)

	resp, err := newPostApp(s).Test(httptest.NewRequest("GET", "/api/posts/7", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdatePost_BadID(t *testing.T) {
	s := new(mockPostService)

	req := httptest.NewRequest("PUT", "/api/posts/seven", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := newPostApp(s).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	s.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePost_EmptyImagesDetachMedia(t *testing.T) {
	s := new(mockPostService)
	s.On("Update", mock.Anything, "abc", int64(7), mock.MatchedBy(func(pu *transfer.PostUpdate) bool {
		return pu.Images != nil && *pu.Images == ""
	})).Return(nil)

	req := httptest.NewRequest("PUT", "/api/posts/7", strings.NewReader(`{"images":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := newPostApp(s).Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	s.AssertExpectations(t)
}

func newBatchApp(s service.BatchService) *fiber.App {
	app := fiber.New()
	h := NewBatchHandler(s)
	app.Post("/api/posts/publish-due", h.PublishDue)
	app.Post("/api/posts/:id/publish", withUser("abc"), h.PublishNow)
	return app
}

func TestPublishDue_Completed(t *testing.T) {
	s := new(mockBatchService)
	s.On("Run", mock.Anything, mock.Anything).Return(&transfer.BatchOutcome{
		RunID:           "run-1",
		TotalPosts:      2,
		Successful:      1,
		Failed:          1,
		SuccessfulPosts: []transfer.PublishedPost{{PostID: 1, AuthorURN: "urn:li:person:abc", LinkedInPostID: "urn:li:share:1"}},
		FailedPosts:     []transfer.FailedPost{{PostID: 2, StatusCode: 403, Error: "missing publish permission: Not enough permissions"}},
	}, nil)

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/publish-due", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["total_posts"])
	assert.Equal(t, float64(1), body["successful"])
	assert.Equal(t, float64(1), body["failed"])

	succeeded := body["successful_posts"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), succeeded["post_id"])
	assert.Equal(t, "urn:li:person:abc", succeeded["author_urn"])

	failed := body["failed_posts"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(403), failed["status_code"])
	assert.NotContains(t, failed, "reason")
}

func TestPublishDue_RunFault(t *testing.T) {
	s := new(mockBatchService)
	s.On("Run", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/publish-due", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestPublishDue_Busy(t *testing.T) {
	s := new(mockBatchService)
	s.On("Run", mock.Anything, mock.Anything).Return(nil, service.ErrBatchInProgress)

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/publish-due", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPublishNow_Published(t *testing.T) {
	s := new(mockBatchService)
	s.On("PublishNow", mock.Anything, "abc", int64(9)).Return(&transfer.BatchOutcome{
		RunID:           "run-2",
		TotalPosts:      1,
		Successful:      1,
		SuccessfulPosts: []transfer.PublishedPost{{PostID: 9, AuthorURN: "urn:li:person:abc", LinkedInPostID: "urn:li:share:9"}},
		FailedPosts:     []transfer.FailedPost{},
	}, nil)

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/9/publish", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, true, body["success"])
	published := body["published"].(map[string]any)
	assert.Equal(t, "urn:li:share:9", published["linkedin_post_id"])
	assert.NotContains(t, body, "failed")
}

func TestPublishNow_Rejected(t *testing.T) {
	s := new(mockBatchService)
	s.On("PublishNow", mock.Anything, "abc", int64(9)).Return(&transfer.BatchOutcome{
		RunID:           "run-3",
		TotalPosts:      1,
		Failed:          1,
		SuccessfulPosts: []transfer.PublishedPost{},
		FailedPosts:     []transfer.FailedPost{{PostID: 9, StatusCode: 403, Error: "missing publish permission: Not enough permissions"}},
	}, nil)

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/9/publish", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, false, body["success"])
	failed := body["failed"].(map[string]any)
	assert.Equal(t, float64(403), failed["status_code"])
}

func TestPublishNow_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrPostNotFound, want: fiber.StatusNotFound},
		{err: service.ErrPostAlreadyPublished, want: fiber.StatusConflict},
		{err: service.ErrBatchInProgress, want: fiber.StatusConflict},
		{err: errors.New("connection refused"), want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			s := new(mockBatchService)
			s.On("PublishNow", mock.Anything, "abc", int64(9)).Return(nil, tt.err)

			resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/9/publish", nil))

			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPublishNow_BadID(t *testing.T) {
	s := new(mockBatchService)

	resp, err := newBatchApp(s).Test(httptest.NewRequest("POST", "/api/posts/nine/publish", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	s.AssertNotCalled(t, "PublishNow", mock.Anything, mock.Anything, mock.Anything)
}
