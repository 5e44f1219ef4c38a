package transfer

// ShareMediaCategory is the media category of a UGC share.
type ShareMediaCategory string

const (
	MediaCategoryNone  ShareMediaCategory = "NONE"
	MediaCategoryImage ShareMediaCategory = "IMAGE"
)

const (
	feedShareImageRecipe = "urn:li:digitalmediaRecipe:feedshare-image"
	uploadHTTPRequestKey = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"
)

type UGCPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent SpecificContent `json:"specificContent"`
	Visibility      Visibility      `json:"visibility"`
}

type SpecificContent struct {
	ShareContent ShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ShareContent struct {
	ShareCommentary    TextValue          `json:"shareCommentary"`
	ShareMediaCategory ShareMediaCategory `json:"shareMediaCategory"`
	Media              []ShareMedia       `json:"media,omitempty"`
}

type ShareMedia struct {
	Status      string    `json:"status"`
	Description TextValue `json:"description"`
	Media       string    `json:"media"`
	Title       TextValue `json:"title"`
}

type TextValue struct {
	Text string `json:"text"`
}

type Visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// NewUGCPost builds a public share for author. The media category is IMAGE
// when at least one asset is attached and NONE otherwise.
func NewUGCPost(author, text string, assets []string) *UGCPost {
	content := ShareContent{
		ShareCommentary:    TextValue{Text: text},
		ShareMediaCategory: MediaCategoryNone,
	}
	if len(assets) > 0 {
		content.ShareMediaCategory = MediaCategoryImage
		for _, asset := range assets {
			content.Media = append(content.Media, ShareMedia{
				Status: "READY",
				Media:  asset,
			})
		}
	}

	return &UGCPost{
		Author:          author,
		LifecycleState:  "PUBLISHED",
		SpecificContent: SpecificContent{ShareContent: content},
		Visibility:      Visibility{MemberNetworkVisibility: "PUBLIC"},
	}
}

type RegisterUploadRequest struct {
	RegisterUploadRequest RegisterUpload `json:"registerUploadRequest"`
}

type RegisterUpload struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []ServiceRelationship `json:"serviceRelationships"`
}

type ServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

func NewImageUploadRequest(owner string) *RegisterUploadRequest {
	return &RegisterUploadRequest{
		RegisterUploadRequest: RegisterUpload{
			Recipes: []string{feedShareImageRecipe},
			Owner:   owner,
			ServiceRelationships: []ServiceRelationship{{
				RelationshipType: "OWNER",
				Identifier:       "urn:li:userGeneratedContent",
			}},
		},
	}
}

type RegisterUploadResponse struct {
	Value struct {
		UploadMechanism map[string]UploadHTTPRequest `json:"uploadMechanism"`
		Asset           string                       `json:"asset"`
	} `json:"value"`
}

type UploadHTTPRequest struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}

// UploadRequest returns the HTTP upload instructions, if the platform sent any.
func (r *RegisterUploadResponse) UploadRequest() (UploadHTTPRequest, bool) {
	req, ok := r.Value.UploadMechanism[uploadHTTPRequestKey]
	if !ok || req.UploadURL == "" {
		return UploadHTTPRequest{}, false
	}
	return req, true
}

type LinkedInErrorResponse struct {
	Message     string `json:"message"`
	ServiceCode int    `json:"serviceErrorCode"`
	Status      int    `json:"status"`
}

type LinkedInUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}
