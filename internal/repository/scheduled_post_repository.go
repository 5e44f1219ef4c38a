package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
)

const dateLayout = "2006-01-02"

var ErrAlreadyPublished = errors.New("post already published")

type ScheduledPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error)
	ListDueUnpublished(ctx context.Context, today time.Time) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, post *models.ScheduledPost) error
	MarkPublished(ctx context.Context, id int64, when time.Time) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, post_date, content, author_urn, posted, images, posted_at, added_by, added_date, updated_by, updated_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledPost(row rowScanner) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	var images, updatedBy sql.NullString
	var postedAt, updatedDate sql.NullTime

	err := row.Scan(&post.ID, &post.PostDate, &post.Content, &post.AuthorURN, &post.Posted,
		&images, &postedAt, &post.AddedBy, &post.AddedDate, &updatedBy, &updatedDate)
	if err != nil {
		return nil, err
	}

	post.Images = images.String
	post.UpdatedBy = updatedBy.String
	if postedAt.Valid {
		post.PostedAt = &postedAt.Time
	}
	if updatedDate.Valid {
		post.UpdatedDate = &updatedDate.Time
	}
	return &post, nil
}

func (r *scheduledPostRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (post_date, content, author_urn, posted, images, added_by, added_date)
		VALUES ($1, $2, $3, false, $4, $5, $6)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{post.PostDate.Format(dateLayout), post.Content, post.AuthorURN, nullIfEmpty(post.Images), post.AddedBy, time.Now()}
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE id = $1`

	post, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

// List returns every post, or only the author's when authorURN is set.
func (r *scheduledPostRepository) List(ctx context.Context, authorURN string) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts`
	args := []any{}

	if authorURN != "" {
		query += ` WHERE author_urn = $1`
		args = append(args, authorURN)
	}
	query += ` ORDER BY post_date, id`

	return r.query(ctx, query, args...)
}

func (r *scheduledPostRepository) ListDueUnpublished(ctx context.Context, today time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + `
		FROM scheduled_posts
		WHERE post_date = $1 AND posted = false
		ORDER BY id`

	return r.query(ctx, query, today.Format(dateLayout))
}

func (r *scheduledPostRepository) query(ctx context.Context, query string, args ...any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

func (r *scheduledPostRepository) Update(ctx context.Context, post *models.ScheduledPost) error {
	query := `
		UPDATE scheduled_posts
		SET post_date = $1,
			content = $2,
			images = $3,
			updated_by = $4,
			updated_date = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query, post.PostDate.Format(dateLayout), post.Content,
		nullIfEmpty(post.Images), post.UpdatedBy, time.Now(), post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return errors.New("no rows affected")
	}
	return nil
}

// MarkPublished only flips posts that are still unpublished and returns
// ErrAlreadyPublished when the row was flipped earlier or does not exist.
func (r *scheduledPostRepository) MarkPublished(ctx context.Context, id int64, when time.Time) error {
	query := `
		UPDATE scheduled_posts
		SET posted = true,
			posted_at = $1
		WHERE id = $2 AND posted = false
	`
	result, err := r.db.ExecContext(ctx, query, when, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrAlreadyPublished
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
