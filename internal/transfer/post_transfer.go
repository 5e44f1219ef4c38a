package transfer

type PostCreation struct {
	PostDate  string `json:"post_date" form:"post_date"`
	Content   string `json:"content" form:"content"`
	AuthorURN string `json:"author_urn" form:"author_urn"`
	Images    string `json:"images" form:"images"`
	AddedBy   string `json:"added_by" form:"added_by"`
}

// ScheduleCreation is a day-wise batch of posts for one author.
type ScheduleCreation struct {
	AuthorURN string         `json:"author_urn"`
	Posts     []PostCreation `json:"posts"`
}

// PostUpdate leaves empty fields unchanged. Images is a pointer so that an
// explicit empty list detaches all media.
type PostUpdate struct {
	PostDate  string  `json:"post_date" form:"post_date"`
	Content   string  `json:"content" form:"content"`
	Images    *string `json:"images" form:"images"`
	UpdatedBy string  `json:"updated_by" form:"updated_by"`
}
