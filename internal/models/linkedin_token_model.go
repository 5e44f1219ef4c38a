package models

import "time"

// LinkedInToken is the bearer credential stored for one LinkedIn member.
// AccessToken holds the encrypted value.
type LinkedInToken struct {
	ID            int64      `db:"id" json:"id"`
	UserURN       string     `db:"user_urn" json:"user_urn"`
	AccessToken   string     `db:"access_token" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	InvalidatedAt *time.Time `db:"invalidated_at" json:"invalidated_at,omitempty"`
}
