package post

import "narration-desk/types"

// PostPayload creates or replaces a blog post
type PostPayload struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Slug      string  `json:"slug" validate:"max=255"`
	Excerpt   string  `json:"excerpt" validate:"max=1000"`
	Body      string  `json:"body"`
	CoverURL  *string `json:"cover_url" validate:"omitempty,max=2048"`
	Published bool    `json:"published"`
}

func (r *PostPayload) Validate() error {
	return types.Validate(r)
}
