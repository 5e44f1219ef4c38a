package transfer

import "fmt"

// FailureReason classifies why a post was not published.
type FailureReason string

const (
	ReasonCredentialExpired  FailureReason = "credential expired"
	ReasonMissingPermission  FailureReason = "missing publish permission"
	ReasonRejectedPayload    FailureReason = "rejected payload"
	ReasonUnclassified       FailureReason = "unclassified"
	ReasonNetworkError       FailureReason = "network error"
	ReasonNoCredential       FailureReason = "no credential found"
	ReasonCredentialLookup   FailureReason = "credential lookup failed"
	ReasonCredentialUnusable FailureReason = "credential unreadable"
	ReasonContentTooLong     FailureReason = "content too long"
)

// UnknownPostID is reported when the platform accepted a post without an id.
const UnknownPostID = "unknown"

type PublishResult struct {
	Success    bool
	PostID     string
	StatusCode int
	Reason     FailureReason
	Message    string
}

// RequiresReconnect reports whether the stored credential must be invalidated.
func (r PublishResult) RequiresReconnect() bool {
	return !r.Success && (r.Reason == ReasonCredentialExpired || r.Reason == ReasonMissingPermission)
}

type PublishedPost struct {
	PostID         int64  `json:"post_id"`
	AuthorURN      string `json:"author_urn"`
	LinkedInPostID string `json:"linkedin_post_id,omitempty"`
}

// FailedPost carries either Reason, for failures raised before or outside an
// HTTP response, or StatusCode and Error for rejected submissions.
type FailedPost struct {
	PostID     int64  `json:"post_id"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type BatchOutcome struct {
	RunID           string          `json:"run_id"`
	TotalPosts      int             `json:"total_posts"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	SuccessfulPosts []PublishedPost `json:"successful_posts"`
	FailedPosts     []FailedPost    `json:"failed_posts"`
}

type BatchSummary struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*BatchOutcome
}

// NewBatchSummary wraps a completed run. A run with per-post failures still
// counts as successful.
func NewBatchSummary(o *BatchOutcome) BatchSummary {
	return BatchSummary{
		Success:      true,
		Message:      fmt.Sprintf("Processed %d scheduled posts", o.TotalPosts),
		BatchOutcome: o,
	}
}

// PublishNowSummary reports a manual publish of a single post.
type PublishNowSummary struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Published *PublishedPost `json:"published,omitempty"`
	Failed    *FailedPost    `json:"failed,omitempty"`
}

func NewPublishNowSummary(o *BatchOutcome) PublishNowSummary {
	if len(o.SuccessfulPosts) > 0 {
		return PublishNowSummary{
			Success:   true,
			Message:   "Post published to LinkedIn",
			Published: &o.SuccessfulPosts[0],
		}
	}

	s := PublishNowSummary{Message: "Post was not published"}
	if len(o.FailedPosts) > 0 {
		s.Failed = &o.FailedPosts[0]
	}
	return s
}
