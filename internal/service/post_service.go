package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

var (
	ErrContentTooLong = fmt.Errorf("content exceeds %d characters", models.MaxContentLength)
	ErrInvalidPost    = errors.New("invalid post")
	ErrPostNotFound   = errors.New("post not found")
)

type PostService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (int64, error)
	CreateSchedule(ctx context.Context, sc *transfer.ScheduleCreation) ([]int64, error)
	Update(ctx context.Context, authorURN string, postID int64, pu *transfer.PostUpdate) error
	List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, authorURN string, postID int64) (*models.ScheduledPost, error)
	Attempts(ctx context.Context, authorURN string, postID int64) ([]*models.PublishAttempt, error)
}

type postService struct {
	db *sql.DB
	sp repository.ScheduledPostRepository
	pa repository.PublishAttemptRepository
}

func NewPostService(db *sql.DB, sp repository.ScheduledPostRepository, pa repository.PublishAttemptRepository) PostService {
	return &postService{
		db: db,
		sp: sp,
		pa: pa,
	}
}

func (s *postService) Create(ctx context.Context, pc *transfer.PostCreation) (int64, error) {
	post, err := newScheduledPost(pc)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	id, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}
	return id, nil
}

// CreateSchedule stores a day-wise batch in one transaction. Entries without a
// date or content are skipped; any other invalid entry rejects the batch.
func (s *postService) CreateSchedule(ctx context.Context, sc *transfer.ScheduleCreation) (ids []int64, err error) {
	if sc == nil || sc.AuthorURN == "" {
		err = fmt.Errorf("%w: author is required", ErrInvalidPost)
		slog.Info(err.Error())
		return nil, err
	}

	var posts []*models.ScheduledPost
	for i := range sc.Posts {
		pc := sc.Posts[i]
		if strings.TrimSpace(pc.PostDate) == "" || strings.TrimSpace(pc.Content) == "" {
			slog.Info("skipping incomplete schedule entry", "index", i)
			continue
		}
		pc.AuthorURN = sc.AuthorURN

		post, err := newScheduledPost(&pc)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	if len(posts) == 0 {
		err = fmt.Errorf("%w: schedule has no complete entries", ErrInvalidPost)
		slog.Info(err.Error())
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	for _, post := range posts {
		id, err := s.sp.Create(ctx, tx, post)
		if err != nil {
			return nil, fmt.Errorf("error creating post: %w", err)
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

func (s *postService) Update(ctx context.Context, authorURN string, postID int64, pu *transfer.PostUpdate) error {
	if pu == nil {
		err := fmt.Errorf("%w: update is empty", ErrInvalidPost)
		slog.Info(err.Error())
		return err
	}

	post, err := s.PostInfo(ctx, authorURN, postID)
	if err != nil {
		return err
	}

	if pu.PostDate != "" {
		if post.PostDate, err = parsePostDate(pu.PostDate); err != nil {
			return err
		}
	}
	if pu.Content != "" {
		if err := validateContent(pu.Content); err != nil {
			return err
		}
		post.Content = pu.Content
	}
	if pu.Images != nil {
		if post.Images, err = normalizeImages(*pu.Images); err != nil {
			return err
		}
	}
	post.UpdatedBy = pu.UpdatedBy
	if post.UpdatedBy == "" {
		post.UpdatedBy = authorURN
	}

	if err := s.sp.Update(ctx, post); err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	return nil
}

func (s *postService) List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error) {
	posts, err := s.sp.List(ctx, authorURN)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, authorURN string, postID int64) (*models.ScheduledPost, error) {
	if postID == 0 {
		err := fmt.Errorf("%w: post id is not valid", ErrInvalidPost)
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.sp.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	if post == nil || post.AuthorURN != authorURN {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) Attempts(ctx context.Context, authorURN string, postID int64) ([]*models.PublishAttempt, error) {
	if _, err := s.PostInfo(ctx, authorURN, postID); err != nil {
		return nil, err
	}

	attempts, err := s.pa.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing publish attempts: %w", err)
	}
	return attempts, nil
}

func newScheduledPost(pc *transfer.PostCreation) (*models.ScheduledPost, error) {
	if pc == nil {
		return nil, fmt.Errorf("%w: post creation data is nil", ErrInvalidPost)
	}
	if pc.AuthorURN == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidPost)
	}

	postDate, err := parsePostDate(pc.PostDate)
	if err != nil {
		return nil, err
	}
	if err := validateContent(pc.Content); err != nil {
		return nil, err
	}
	images, err := normalizeImages(pc.Images)
	if err != nil {
		return nil, err
	}

	addedBy := pc.AddedBy
	if addedBy == "" {
		addedBy = models.DefaultAddedBy
	}

	return &models.ScheduledPost{
		PostDate:  postDate,
		Content:   pc.Content,
		AuthorURN: pc.AuthorURN,
		Images:    images,
		AddedBy:   addedBy,
	}, nil
}

func parsePostDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: post date must be YYYY-MM-DD", ErrInvalidPost)
	}
	return d, nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content cannot be empty", ErrInvalidPost)
	}
	if utf8.RuneCountInString(content) > models.MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// normalizeImages trims the comma-joined list and rejects more than
// MaxPostImages names or names carrying a directory.
func normalizeImages(value string) (string, error) {
	var names []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if filepath.Base(name) != name {
			return "", fmt.Errorf("%w: image %q must be a bare file name", ErrInvalidPost, name)
		}
		names = append(names, name)
	}
	if len(names) > models.MaxPostImages {
		return "", fmt.Errorf("%w: at most %d images per post", ErrInvalidPost, models.MaxPostImages)
	}
	return strings.Join(names, ","), nil
}
