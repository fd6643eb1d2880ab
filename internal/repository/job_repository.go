package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/printgate/printgate/internal/models"
)

const jobColumns = `id, owner_key, file_key, file_name, content_type, copies, color_mode, paper_size, orientation,
       secret_digest, secret, capability_token, status, attempts, max_attempts, created_at, expires_at, printed_at`

// JobRepository persists print job authorization tickets.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository constructs the repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job row.
func (r *JobRepository) Create(ctx context.Context, job *models.PrintJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO print_jobs
	(id, owner_key, file_key, file_name, content_type, copies, color_mode, paper_size, orientation,
	 secret_digest, secret, capability_token, status, attempts, max_attempts, created_at, expires_at, printed_at)
	VALUES (:id, :owner_key, :file_key, :file_name, :content_type, :copies, :color_mode, :paper_size, :orientation,
	 :secret_digest, :secret, :capability_token, :status, :attempts, :max_attempts, :created_at, :expires_at, :printed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create print job: %w", err)
	}
	return nil
}

// GetByID fetches a job by identifier.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE id = $1`
	var job models.PrintJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetByToken fetches a job by its current capability token.
func (r *JobRepository) GetByToken(ctx context.Context, token string) (*models.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE capability_token = $1`
	var job models.PrintJob
	if err := r.db.GetContext(ctx, &job, query, token); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListByOwner returns the owner's jobs, newest first.
func (r *JobRepository) ListByOwner(ctx context.Context, ownerKey string) ([]models.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE owner_key = $1 ORDER BY created_at DESC`
	var jobs []models.PrintJob
	if err := r.db.SelectContext(ctx, &jobs, query, ownerKey); err != nil {
		return nil, fmt.Errorf("list print jobs: %w", err)
	}
	return jobs, nil
}

// PurgeTerminalByOwner deletes the owner's terminal jobs and returns the
// storage keys of the deleted rows so callers can garbage-collect the
// backing files.
func (r *JobRepository) PurgeTerminalByOwner(ctx context.Context, ownerKey string) ([]string, error) {
	const query = `DELETE FROM print_jobs WHERE owner_key = $1 AND status <> $2 RETURNING file_key`
	var fileKeys []string
	if err := r.db.SelectContext(ctx, &fileKeys, query, ownerKey, models.JobStatusPending); err != nil {
		return nil, fmt.Errorf("purge print jobs: %w", err)
	}
	return fileKeys, nil
}

// JobMutator applies the permitted state transitions while the job row lock
// is held. Every method touches only rows still in PENDING, so terminal
// states can never be mutated even if a caller misuses the interface.
type JobMutator interface {
	MarkExpired(ctx context.Context, id string) error
	MarkPrinted(ctx context.Context, id string, printedAt time.Time, rotatedToken string) error
	RecordFailedAttempt(ctx context.Context, id string, attempts int, lock bool) error
}

// WithJobLock runs fn inside a transaction holding an exclusive row lock on
// the job. The lock spans the whole check-then-act sequence; concurrent
// calls for the same job serialize here. fn returning an error rolls back
// any mutation.
func (r *JobRepository) WithJobLock(ctx context.Context, id string, fn func(ctx context.Context, job *models.PrintJob, mut JobMutator) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin verify transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE id = $1 FOR UPDATE`
	var job models.PrintJob
	if err = tx.GetContext(ctx, &job, query, id); err != nil {
		return err
	}

	if err = fn(ctx, &job, &txMutator{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit verify transaction: %w", err)
	}
	return nil
}

type txMutator struct {
	tx *sqlx.Tx
}

func (m *txMutator) MarkExpired(ctx context.Context, id string) error {
	const query = `UPDATE print_jobs SET status = $2 WHERE id = $1 AND status = $3`
	return m.exec(ctx, query, id, models.JobStatusExpired, models.JobStatusPending)
}

func (m *txMutator) MarkPrinted(ctx context.Context, id string, printedAt time.Time, rotatedToken string) error {
	const query = `UPDATE print_jobs SET status = $2, printed_at = $3, capability_token = $4 WHERE id = $1 AND status = $5`
	return m.exec(ctx, query, id, models.JobStatusPrinted, printedAt, rotatedToken, models.JobStatusPending)
}

func (m *txMutator) RecordFailedAttempt(ctx context.Context, id string, attempts int, lock bool) error {
	status := models.JobStatusPending
	if lock {
		status = models.JobStatusLocked
	}
	const query = `UPDATE print_jobs SET attempts = $2, status = $3 WHERE id = $1 AND status = $4`
	return m.exec(ctx, query, id, attempts, status, models.JobStatusPending)
}

func (m *txMutator) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := m.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update print job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check print job update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
