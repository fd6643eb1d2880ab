package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/internal/repository"
	appErrors "github.com/printgate/printgate/pkg/errors"
)

type verifyJobStore interface {
	WithJobLock(ctx context.Context, id string, fn func(ctx context.Context, job *models.PrintJob, mut repository.JobMutator) error) error
}

// VerifyResult is the tagged outcome of one verification attempt. Exactly
// one of the two variants is populated: the success payload (FileKey,
// Params) or the failure description (Err, AttemptsRemaining).
type VerifyResult struct {
	Success           bool
	FileKey           string
	Params            models.PrintParams
	Err               *appErrors.Error
	AttemptsRemaining int
}

// VerifyService is the authorization state machine. Its success branch is
// the only code path in the system that reveals a job's storage locator.
type VerifyService struct {
	store   verifyJobStore
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewVerifyService constructs the service.
func NewVerifyService(store verifyJobStore, metrics *MetricsService, logger *zap.Logger) *VerifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerifyService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Verify runs one attempt against the job's secret. The whole
// check-then-act sequence executes under an exclusive lock on the job row:
// two concurrent calls can never both succeed, and the attempt counter can
// never lose an update. Every failure either leaves the row untouched or
// commits exactly one transition (expire, or increment-and-maybe-lock).
func (s *VerifyService) Verify(ctx context.Context, jobID, secret string) (*VerifyResult, error) {
	if jobID == "" {
		return s.failure(appErrors.Clone(appErrors.ErrValidation, "job id is required"), 0), nil
	}
	if !ValidSecretFormat(secret) {
		return s.failure(appErrors.Clone(appErrors.ErrValidation, "secret must be a 6-digit code"), 0), nil
	}

	var result *VerifyResult
	err := s.store.WithJobLock(ctx, jobID, func(ctx context.Context, job *models.PrintJob, mut repository.JobMutator) error {
		switch job.Status {
		case models.JobStatusPrinted:
			result = s.failure(appErrors.ErrAlreadyPrinted, 0)
			return nil
		case models.JobStatusLocked:
			result = s.failure(appErrors.ErrLocked, 0)
			return nil
		case models.JobStatusExpired:
			result = s.failure(appErrors.ErrExpired, 0)
			return nil
		}

		// Lazy expiry runs before the digest comparison on every call: a
		// job past its window can never become printed, valid code or not.
		if job.ExpiredAt(s.now()) {
			if err := mut.MarkExpired(ctx, job.ID); err != nil {
				return err
			}
			result = s.failure(appErrors.ErrExpired, 0)
			return nil
		}

		if SecretMatches(job.SecretDigest, secret) {
			token, err := NewCapabilityToken()
			if err != nil {
				return err
			}
			// Status flip and token rotation commit together, so the old
			// link dies in the same instant the job becomes printed.
			if err := mut.MarkPrinted(ctx, job.ID, s.now(), token); err != nil {
				return err
			}
			result = &VerifyResult{
				Success: true,
				FileKey: job.FileKey,
				Params:  job.Params(),
			}
			return nil
		}

		attempts := job.Attempts + 1
		lock := attempts >= job.MaxAttempts
		if err := mut.RecordFailedAttempt(ctx, job.ID, attempts, lock); err != nil {
			return err
		}
		if lock {
			result = s.failure(appErrors.ErrLocked, 0)
			return nil
		}
		result = s.failure(appErrors.ErrInvalidSecret, job.MaxAttempts-attempts)
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.failure(appErrors.ErrNotFound, 0), nil
		}
		s.logger.Error("verification transaction failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "verification failed")
	}

	if result != nil && result.Success {
		s.observe(result)
	}
	return result, nil
}

func (s *VerifyService) failure(kind *appErrors.Error, remaining int) *VerifyResult {
	r := &VerifyResult{Err: kind, AttemptsRemaining: remaining}
	s.observe(r)
	return r
}

func (s *VerifyService) observe(r *VerifyResult) {
	if s.metrics == nil || r == nil {
		return
	}
	if r.Success {
		s.metrics.ObserveVerification("success")
		return
	}
	if r.Err != nil {
		s.metrics.ObserveVerification(r.Err.Code)
	}
}
