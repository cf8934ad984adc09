package auth

import "narration-desk/types"

// LoginRequest is posted by the login form or as JSON
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=255"`
	Redirect string `json:"redirect" form:"redirect"`
}

func (r *LoginRequest) Validate() error {
	return types.Validate(r)
}

// LoginResponse is returned to API clients after a successful login
type LoginResponse struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	ExpiresAt   int64    `json:"expires_at"`
}
