package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims identifies the owner of uploaded jobs on dashboard routes.
// The printing party never carries a session; it reaches its job through the
// capability token alone.
type SessionClaims struct {
	OwnerKey string `json:"owner_key"`
	jwt.RegisteredClaims
}

// Pagination describes list slicing metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
