package dto

import (
	"time"

	"github.com/printgate/printgate/internal/models"
)

// CreateJobRequest carries the multipart form fields accompanying an upload.
// The document itself arrives as the "file" form part.
type CreateJobRequest struct {
	Copies      int    `form:"copies" binding:"required,min=1" validate:"required,min=1"`
	ColorMode   string `form:"color_mode" binding:"required" validate:"required"`
	PaperSize   string `form:"paper_size" binding:"required" validate:"required"`
	Orientation string `form:"orientation" binding:"required" validate:"required"`
}

// JobCreatedResponse is returned to the job owner only. It is the single
// place the plaintext secret ever appears in a response.
type JobCreatedResponse struct {
	ID              string             `json:"id"`
	FileName        string             `json:"file_name"`
	Secret          string             `json:"secret"`
	CapabilityToken string             `json:"capability_token"`
	PrintURL        string             `json:"print_url"`
	Params          models.PrintParams `json:"params"`
	Status          models.JobStatus   `json:"status"`
	ExpiresAt       time.Time          `json:"expires_at"`
}

// JobView is the public projection served to the printing party via the
// capability token. It never includes the storage locator or any secret
// material.
type JobView struct {
	ID                string           `json:"id"`
	FileName          string           `json:"file_name"`
	ContentType       string           `json:"content_type"`
	Status            models.JobStatus `json:"status"`
	AttemptsRemaining int              `json:"attempts_remaining"`
	ExpiresAt         time.Time        `json:"expires_at"`
}

// VerifyRequest carries the one-time secret for a verification attempt.
type VerifyRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// VerifyResponse reports a verification outcome. FileKey and Params are
// present only when Success is true; ErrorKind and AttemptsRemaining only on
// failure.
type VerifyResponse struct {
	Success           bool                `json:"success"`
	ErrorKind         string              `json:"error_kind,omitempty"`
	AttemptsRemaining *int                `json:"attempts_remaining,omitempty"`
	FileKey           string              `json:"file_key,omitempty"`
	Params            *models.PrintParams `json:"params,omitempty"`
}

// RenderRequest asks the disclosure gateway for print output. The gateway
// re-validates every field against the persisted job before honoring it.
type RenderRequest struct {
	FileKey     string `json:"file_key" binding:"required"`
	Copies      int    `json:"copies" binding:"required,min=1"`
	ColorMode   string `json:"color_mode" binding:"required"`
	PaperSize   string `json:"paper_size" binding:"required"`
	Orientation string `json:"orientation" binding:"required"`
}

// RenderResponse wraps the generated print document.
type RenderResponse struct {
	HTML string `json:"html"`
}

// SessionResponse returns an issued owner session token.
type SessionResponse struct {
	Token     string    `json:"token"`
	OwnerKey  string    `json:"owner_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PurgeResponse summarises an owner-triggered bulk purge.
type PurgeResponse struct {
	Deleted int `json:"deleted"`
}
