package models

import "time"

// JobStatus captures the authorization lifecycle of a print job.
// Transitions are monotonic: PENDING is the only non-terminal state.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusPrinted JobStatus = "PRINTED"
	JobStatusExpired JobStatus = "EXPIRED"
	JobStatusLocked  JobStatus = "LOCKED"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusPrinted || s == JobStatusExpired || s == JobStatusLocked
}

// PrintJob is one authorization ticket governing the printing of a single
// uploaded document.
//
// FileKey is the storage locator. It is the secret the whole state machine
// protects: it is excluded from JSON serialization and surfaces only through
// the success branch of verification. SecretDigest, Secret and
// CapabilityToken are likewise never serialized with the job; the plaintext
// secret reaches the owner through a dedicated creation response.
type PrintJob struct {
	ID       string `db:"id" json:"id"`
	OwnerKey string `db:"owner_key" json:"-"`

	FileKey     string `db:"file_key" json:"-"`
	FileName    string `db:"file_name" json:"file_name"`
	ContentType string `db:"content_type" json:"content_type"`

	Copies      int         `db:"copies" json:"copies"`
	ColorMode   ColorMode   `db:"color_mode" json:"color_mode"`
	PaperSize   PaperSize   `db:"paper_size" json:"paper_size"`
	Orientation Orientation `db:"orientation" json:"orientation"`

	SecretDigest    string `db:"secret_digest" json:"-"`
	Secret          string `db:"secret" json:"-"`
	CapabilityToken string `db:"capability_token" json:"-"`

	Status      JobStatus `db:"status" json:"status"`
	Attempts    int       `db:"attempts" json:"attempts"`
	MaxAttempts int       `db:"max_attempts" json:"max_attempts"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	PrintedAt *time.Time `db:"printed_at" json:"printed_at,omitempty"`
}

// AttemptsRemaining returns how many verification attempts are left.
func (j *PrintJob) AttemptsRemaining() int {
	remaining := j.MaxAttempts - j.Attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExpiredAt reports whether the job's expiry has passed at the given instant.
func (j *PrintJob) ExpiredAt(now time.Time) bool {
	return now.After(j.ExpiresAt)
}

// PrintParams groups the immutable presentation parameters fixed at creation.
type PrintParams struct {
	Copies      int         `json:"copies"`
	ColorMode   ColorMode   `json:"color_mode"`
	PaperSize   PaperSize   `json:"paper_size"`
	Orientation Orientation `json:"orientation"`
}

// Params extracts the job's print parameters.
func (j *PrintJob) Params() PrintParams {
	return PrintParams{
		Copies:      j.Copies,
		ColorMode:   j.ColorMode,
		PaperSize:   j.PaperSize,
		Orientation: j.Orientation,
	}
}
