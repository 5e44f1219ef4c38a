package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/metrics"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrBatchInProgress      = errors.New("a publishing run is already in progress")
	ErrPostAlreadyPublished = errors.New("post already published")
)

type BatchService interface {
	Run(ctx context.Context, today time.Time) (*transfer.BatchOutcome, error)
	PublishNow(ctx context.Context, authorURN string, postID int64) (*transfer.BatchOutcome, error)
}

type batchService struct {
	cfg       config.Config
	sp        repository.ScheduledPostRepository
	tk        repository.LinkedInTokenRepository
	pa        repository.PublishAttemptRepository
	media     LinkedInMediaService
	publisher LinkedInPostService
	m         *metrics.Metrics
	now       func() time.Time

	mu sync.Mutex
}

func NewBatchService(
	cfg config.Config,
	sp repository.ScheduledPostRepository,
	tk repository.LinkedInTokenRepository,
	pa repository.PublishAttemptRepository,
	media LinkedInMediaService,
	publisher LinkedInPostService,
	m *metrics.Metrics) BatchService {
	return &batchService{
		cfg:       cfg,
		sp:        sp,
		tk:        tk,
		pa:        pa,
		media:     media,
		publisher: publisher,
		m:         m,
		now:       time.Now,
	}
}

// Run publishes every post due on today's date that is not yet published,
// one at a time. Per-post failures are collected in the outcome; only a
// failure to read the due posts aborts the run. Cancelling ctx does not stop
// a run once it has started.
func (s *batchService) Run(ctx context.Context, today time.Time) (*transfer.BatchOutcome, error) {
	if !s.mu.TryLock() {
		s.m.BatchRuns.WithLabelValues("busy").Inc()
		return nil, ErrBatchInProgress
	}
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	started := time.Now()
	defer func() { s.m.BatchDuration.Observe(time.Since(started).Seconds()) }()

	runID, err := gonanoid.New()
	if err != nil {
		s.m.BatchRuns.WithLabelValues("fault").Inc()
		return nil, fmt.Errorf("generating run id: %w", err)
	}
	logger := slog.With("run_id", runID)

	posts, err := s.sp.ListDueUnpublished(ctx, today)
	if err != nil {
		s.m.BatchRuns.WithLabelValues("fault").Inc()
		logger.Error("fetching due posts failed", "error", err)
		return nil, fmt.Errorf("fetching due posts: %w", err)
	}

	outcome := newOutcome(runID, len(posts))
	logger.Info("publishing due posts", "date", today.Format("2006-01-02"), "count", len(posts))

	for _, post := range posts {
		s.publishPost(ctx, logger, post, outcome)
	}

	outcome.Successful = len(outcome.SuccessfulPosts)
	outcome.Failed = len(outcome.FailedPosts)
	s.m.BatchRuns.WithLabelValues("completed").Inc()
	logger.Info("publishing run finished", "total", outcome.TotalPosts, "successful", outcome.Successful, "failed", outcome.Failed)

	return outcome, nil
}

// PublishNow publishes one of the author's unpublished posts regardless of
// its date, through the same path as a scheduled run. It shares the run lock,
// so it is refused while a batch is in progress.
func (s *batchService) PublishNow(ctx context.Context, authorURN string, postID int64) (*transfer.BatchOutcome, error) {
	if !s.mu.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	post, err := s.sp.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	if post == nil || post.AuthorURN != authorURN {
		return nil, ErrPostNotFound
	}
	if post.Posted {
		return nil, ErrPostAlreadyPublished
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}
	logger := slog.With("run_id", runID, "trigger", "manual")

	outcome := newOutcome(runID, 1)
	s.publishPost(ctx, logger, post, outcome)
	outcome.Successful = len(outcome.SuccessfulPosts)
	outcome.Failed = len(outcome.FailedPosts)

	return outcome, nil
}

func newOutcome(runID string, total int) *transfer.BatchOutcome {
	return &transfer.BatchOutcome{
		RunID:           runID,
		TotalPosts:      total,
		SuccessfulPosts: []transfer.PublishedPost{},
		FailedPosts:     []transfer.FailedPost{},
	}
}

func (s *batchService) publishPost(ctx context.Context, logger *slog.Logger, post *models.ScheduledPost, outcome *transfer.BatchOutcome) {
	logger = logger.With("post_id", post.ID, "author", post.AuthorURN)
	author := PersonURN(post.AuthorURN)

	fail := func(f transfer.FailedPost, reason transfer.FailureReason, message string) {
		f.PostID = post.ID
		outcome.FailedPosts = append(outcome.FailedPosts, f)
		s.m.PostsFailed.WithLabelValues(string(reason)).Inc()
		logger.Warn("post not published", "reason", reason, "status_code", f.StatusCode, "message", message)
		s.recordAttempt(ctx, &models.PublishAttempt{
			PostID:       post.ID,
			AuthorURN:    post.AuthorURN,
			StatusCode:   f.StatusCode,
			ErrorMessage: joinReason(reason, message),
		})
	}

	if utf8.RuneCountInString(post.Content) > models.MaxContentLength {
		fail(transfer.FailedPost{Reason: string(transfer.ReasonContentTooLong)}, transfer.ReasonContentTooLong, "")
		return
	}

	credential, err := s.tk.GetByURN(ctx, post.AuthorURN)
	if err != nil {
		fail(transfer.FailedPost{Reason: string(transfer.ReasonCredentialLookup)}, transfer.ReasonCredentialLookup, err.Error())
		return
	}
	if credential == nil {
		fail(transfer.FailedPost{Reason: string(transfer.ReasonNoCredential)}, transfer.ReasonNoCredential, "")
		return
	}

	accessToken, err := utils.Decrypt(credential.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		fail(transfer.FailedPost{Reason: string(transfer.ReasonCredentialUnusable)}, transfer.ReasonCredentialUnusable, err.Error())
		return
	}

	assets := s.uploadMedia(ctx, logger, author, post, accessToken)

	result := s.publisher.Publish(ctx, author, post.Content, assets, accessToken)
	if !result.Success {
		f := transfer.FailedPost{Reason: string(result.Reason)}
		if result.StatusCode != 0 {
			f = transfer.FailedPost{StatusCode: result.StatusCode, Error: joinReason(result.Reason, result.Message)}
		}
		fail(f, result.Reason, result.Message)

		if result.RequiresReconnect() {
			if err := s.tk.Invalidate(ctx, post.AuthorURN); err != nil {
				logger.Error("invalidating linkedin credential failed", "error", err)
			}
		}
		return
	}

	if err := s.sp.MarkPublished(ctx, post.ID, s.now()); errors.Is(err, repository.ErrAlreadyPublished) {
		logger.Warn("post was already marked published, possible duplicate on linkedin", "linkedin_post_id", result.PostID)
	} else if err != nil {
		logger.Error("post published but not marked as published", "linkedin_post_id", result.PostID, "error", err)
	}

	outcome.SuccessfulPosts = append(outcome.SuccessfulPosts, transfer.PublishedPost{
		PostID:         post.ID,
		AuthorURN:      author,
		LinkedInPostID: result.PostID,
	})
	s.m.PostsPublished.Inc()
	logger.Info("post published", "linkedin_post_id", result.PostID, "assets", len(assets))

	s.recordAttempt(ctx, &models.PublishAttempt{
		PostID:         post.ID,
		AuthorURN:      post.AuthorURN,
		Success:        true,
		LinkedInPostID: result.PostID,
		StatusCode:     result.StatusCode,
	})
}

// uploadMedia uploads up to MaxPostImages attached files and returns the
// asset references that succeeded, in attachment order.
func (s *batchService) uploadMedia(ctx context.Context, logger *slog.Logger, author string, post *models.ScheduledPost, accessToken string) []string {
	var assets []string
	for _, name := range post.ImageNames() {
		path := filepath.Join(s.cfg.MediaDir, filepath.Base(name))

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("media file missing, skipping", "file", name)
			} else {
				logger.Warn("media file unreadable, skipping", "file", name, "error", err)
			}
			s.m.MediaUploads.WithLabelValues("skipped").Inc()
			continue
		}

		asset, err := s.media.Upload(ctx, author, path, accessToken)
		if err != nil {
			logger.Warn("media upload failed, skipping", "file", name, "error", err)
			s.m.MediaUploads.WithLabelValues("failed").Inc()
			continue
		}

		s.m.MediaUploads.WithLabelValues("uploaded").Inc()
		assets = append(assets, asset)
	}
	return assets
}

func (s *batchService) recordAttempt(ctx context.Context, attempt *models.PublishAttempt) {
	if s.pa == nil {
		return
	}
	if _, err := s.pa.Create(ctx, attempt); err != nil {
		slog.Error("saving publish attempt failed", "post_id", attempt.PostID, "error", err)
	}
}

func joinReason(reason transfer.FailureReason, message string) string {
	if message == "" {
		return string(reason)
	}
	return string(reason) + ": " + message
}
