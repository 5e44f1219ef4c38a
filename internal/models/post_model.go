package models

import (
	"strings"
	"time"
)

const (
	MaxContentLength = 3000
	MaxPostImages    = 5
	DefaultAddedBy   = "AI Generator"
)

type ScheduledPost struct {
	ID          int64      `db:"id" json:"id"`
	PostDate    time.Time  `db:"post_date" json:"post_date"`
	Content     string     `db:"content" json:"content"`
	AuthorURN   string     `db:"author_urn" json:"author_urn"`
	Posted      bool       `db:"posted" json:"posted"`
	Images      string     `db:"images" json:"images"`
	PostedAt    *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	AddedBy     string     `db:"added_by" json:"added_by"`
	AddedDate   time.Time  `db:"added_date" json:"added_date"`
	UpdatedBy   string     `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedDate *time.Time `db:"updated_date" json:"updated_date,omitempty"`
}

// ImageNames splits the comma-joined image list, trimming blanks and
// keeping at most MaxPostImages names in their original order.
func (p *ScheduledPost) ImageNames() []string {
	if p.Images == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(p.Images, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) == MaxPostImages {
			break
		}
	}
	return names
}

type PublishAttempt struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	AuthorURN      string    `db:"author_urn" json:"author_urn"`
	Success        bool      `db:"success" json:"success"`
	LinkedInPostID string    `db:"linkedin_post_id" json:"linkedin_post_id,omitempty"`
	StatusCode     int       `db:"status_code" json:"status_code,omitempty"`
	ErrorMessage   string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
