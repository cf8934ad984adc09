package inquiry

import "narration-desk/types"

// ParsePayload is an inquiry pasted into the dashboard
type ParsePayload struct {
	Text   string `json:"text" form:"text" validate:"max=20000"`
	Create bool   `json:"create" form:"create"`
}

func (r *ParsePayload) Validate() error {
	return types.Validate(r)
}
