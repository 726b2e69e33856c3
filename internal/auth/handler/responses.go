package handler

// One response struct per endpoint. The shapes are part of the public
// contract; fields that can be absent are pointers so null survives
// round-tripping instead of collapsing to zero values.

// SessionCheckResponse answers GET /session/check/{session_id}.
type SessionCheckResponse struct {
	SessionValid bool `json:"session_valid"`
	Active       bool `json:"active"`
}

// SessionDescribeResponse answers GET /session/describe/{session_id}.
type SessionDescribeResponse struct {
	Active  bool    `json:"active"`
	UserID  *string `json:"user_id"`
	Expiry  *int64  `json:"expiry"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Picture *string `json:"picture"`
}

// TokenResponse answers GET /token/get/{user_id}.
type TokenResponse struct {
	AccessToken *string `json:"access_token"`
	Expiry      *int64  `json:"expiry"`
	Active      bool    `json:"active"`
}

// UserDescribeResponse answers GET /user/describe/{user_id}.
type UserDescribeResponse struct {
	Active  bool    `json:"active"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Picture *string `json:"picture"`
}

// UserScopesResponse answers GET /user/scopes/{user_id}.
type UserScopesResponse struct {
	Scopes   []string `json:"scopes"`
	IsActive bool     `json:"is_active"`
}

// UserExistsResponse answers GET /user/exists/{user_id}.
type UserExistsResponse struct {
	Exists bool `json:"exists"`
}

// UserSummary is one entry of a UserListResponse.
type UserSummary struct {
	UserID string  `json:"id"`
	Name   *string `json:"name"`
	Email  string  `json:"email"`
}

// UserListResponse answers GET /user/list.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
}
