package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/stretchr/testify/mock"
)

// --- Mock ScheduledPostRepository ---

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	args := m.Called(ctx, tx, post)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduledPost), args.Error(1)
}

func (m *mockPostRepo) List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error) {
	args := m.Called(ctx, authorURN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduledPost), args.Error(1)
}

func (m *mockPostRepo) ListDueUnpublished(ctx context.Context, today time.Time) ([]*models.ScheduledPost, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduledPost), args.Error(1)
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.ScheduledPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) MarkPublished(ctx context.Context, id int64, when time.Time) error {
	return m.Called(ctx, id, when).Error(0)
}

// --- Mock LinkedInTokenRepository ---

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) GetByURN(ctx context.Context, userURN string) (*models.LinkedInToken, error) {
	args := m.Called(ctx, userURN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedInToken), args.Error(1)
}

func (m *mockTokenRepo) Upsert(ctx context.Context, userURN, accessToken string) error {
	return m.Called(ctx, userURN, accessToken).Error(0)
}

func (m *mockTokenRepo) Invalidate(ctx context.Context, userURN string) error {
	return m.Called(ctx, userURN).Error(0)
}

// --- Mock PublishAttemptRepository ---

type mockAttemptRepo struct {
	mock.Mock
}

func (m *mockAttemptRepo) Create(ctx context.Context, pa *models.PublishAttempt) (int64, error) {
	args := m.Called(ctx, pa)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAttemptRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PublishAttempt, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PublishAttempt), args.Error(1)
}

// --- Mock LinkedIn services ---

type mockMedia struct {
	mock.Mock
}

func (m *mockMedia) Upload(ctx context.Context, ownerURN, filePath, accessToken string) (string, error) {
	args := m.Called(ctx, ownerURN, filePath, accessToken)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ownerURN, text string, assets []string, accessToken string) transfer.PublishResult {
	args := m.Called(ctx, ownerURN, text, assets, accessToken)
	return args.Get(0).(transfer.PublishResult)
}
