// Package api defines the JSON wire types shared by the server's HTTP
// surface, the station gateway client, and the change-notification channel.
package api

import "time"

// Flat is a directory entry. Code is the human-entered form, e.g. "B203".
type Flat struct {
	ID     string `json:"id"`
	Wing   string `json:"wing"`
	Number int    `json:"number"`
	Code   string `json:"code"`
}

// Resident is the identity returned by authentication and lookups.
type Resident struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	FlatID    string    `json:"flat_id"`
	LastLogin time.Time `json:"last_login"`
	Active    bool      `json:"active"`
}

// VisitorRequest is the wire form of one visit attempt.
type VisitorRequest struct {
	ID            string     `json:"id"`
	VisitorName   string     `json:"visitor_name"`
	VehicleType   string     `json:"vehicle_type,omitempty"`
	VehicleNumber string     `json:"vehicle_number,omitempty"`
	Purpose       string     `json:"purpose"`
	FlatID        string     `json:"flat_id"`
	PhotoURL      string     `json:"photo_url"`
	GuardID       string     `json:"guard_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	DeniedAt      *time.Time `json:"denied_at,omitempty"`
	EntryTime     *time.Time `json:"entry_time,omitempty"`
	ApprovedBy    *string    `json:"approved_by,omitempty"`
}

// CreateRequestPayload is a guard submission. The photo is either a remote
// URL (after a successful presigned upload) or an inline data URI; either
// satisfies the photo-required rule.
type CreateRequestPayload struct {
	ID            string `json:"id,omitempty"`
	VisitorName   string `json:"visitor_name" binding:"required"`
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
	Purpose       string `json:"purpose"`
	FlatCode      string `json:"flat_code" binding:"required,flatcode"`
	PhotoURL      string `json:"photo_url" binding:"required"`
	GuardID       string `json:"guard_id"`
}

// AuthenticateRequest registers or re-registers a resident.
type AuthenticateRequest struct {
	Phone    string `json:"phone" binding:"required,len=10,numeric"`
	Email    string `json:"email" binding:"required,email"`
	FlatCode string `json:"flat_code" binding:"required,flatcode"`
}

// TokenPair carries a session's access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthenticateResponse is the result of resident authentication.
type AuthenticateResponse struct {
	Resident Resident  `json:"resident"`
	Tokens   TokenPair `json:"tokens"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateStatusRequest approves or denies a pending request.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved denied"`
}

// AdminLoginRequest authenticates the reporting view.
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Stats are the admin dashboard counters for one day.
type Stats struct {
	TodayVisitors    int `json:"today_visitors"`
	PendingApprovals int `json:"pending_approvals"`
	ApprovedToday    int `json:"approved_today"`
	DeniedToday      int `json:"denied_today"`
}

// PresignResponse points a station at a presigned PUT for a photo and the
// URL the stored object will be readable from.
type PresignResponse struct {
	Key    string `json:"key"`
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

// ErrorResponse is the uniform error body of the HTTP surface.
type ErrorResponse struct {
	Error string `json:"error"`
}
