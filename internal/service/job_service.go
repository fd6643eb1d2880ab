package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printgate/printgate/internal/dto"
	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/pkg/cleanup"
	"github.com/printgate/printgate/pkg/config"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/export"
	"github.com/printgate/printgate/pkg/storage"
)

type jobStore interface {
	Create(ctx context.Context, job *models.PrintJob) error
	GetByID(ctx context.Context, id string) (*models.PrintJob, error)
	GetByToken(ctx context.Context, token string) (*models.PrintJob, error)
	ListByOwner(ctx context.Context, ownerKey string) ([]models.PrintJob, error)
	PurgeTerminalByOwner(ctx context.Context, ownerKey string) ([]string, error)
}

// JobService owns the job lifecycle around the state machine: creation with
// secret issuance, owner-facing reads, and the bulk purge.
type JobService struct {
	store     jobStore
	objects   storage.ObjectStore
	sweeper   *cleanup.Sweeper
	validator *validator.Validate
	cfg       config.PrintConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewJobService constructs the service.
func NewJobService(store jobStore, objects storage.ObjectStore, sweeper *cleanup.Sweeper, validate *validator.Validate, cfg config.PrintConfig, logger *zap.Logger) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &JobService{
		store:     store,
		objects:   objects,
		sweeper:   sweeper,
		validator: validate,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stores the uploaded document, issues the one-time secret and
// capability token, and persists the job in PENDING. The plaintext secret
// appears only in the returned owner response.
func (s *JobService) Create(ctx context.Context, ownerKey string, req dto.CreateJobRequest, fileName, contentType string, file io.Reader) (*dto.JobCreatedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job payload")
	}
	params := models.PrintParams{
		Copies:      req.Copies,
		ColorMode:   models.ColorMode(strings.ToUpper(req.ColorMode)),
		PaperSize:   models.PaperSize(strings.ToUpper(req.PaperSize)),
		Orientation: models.Orientation(strings.ToUpper(req.Orientation)),
	}
	if err := validateParams(params, s.cfg.MaxCopies); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	secret, err := GenerateSecret()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate secret")
	}
	token, err := NewCapabilityToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generate capability token")
	}

	jobID := uuid.NewString()
	fileKey := objectKey(jobID, fileName)

	if err := s.objects.Put(ctx, fileKey, contentType, file); err != nil {
		s.logger.Error("object upload failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}

	now := s.now()
	job := &models.PrintJob{
		ID:              jobID,
		OwnerKey:        ownerKey,
		FileKey:         fileKey,
		FileName:        fileName,
		ContentType:     contentType,
		Copies:          params.Copies,
		ColorMode:       params.ColorMode,
		PaperSize:       params.PaperSize,
		Orientation:     params.Orientation,
		SecretDigest:    DigestSecret(secret),
		Secret:          secret,
		CapabilityToken: token,
		Status:          models.JobStatusPending,
		MaxAttempts:     s.cfg.MaxAttempts,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.cfg.ExpiryWindow),
	}
	if err := s.store.Create(ctx, job); err != nil {
		// The row never existed; drop the orphaned object.
		s.sweeper.Enqueue(fileKey)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist job")
	}

	s.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("owner_key", ownerKey),
		zap.Time("expires_at", job.ExpiresAt),
	)

	return &dto.JobCreatedResponse{
		ID:              job.ID,
		FileName:        job.FileName,
		Secret:          secret,
		CapabilityToken: token,
		PrintURL:        "/print/" + token,
		Params:          params,
		Status:          job.Status,
		ExpiresAt:       job.ExpiresAt,
	}, nil
}

// GetByToken resolves a capability token into the public job projection for
// the print page. The view carries no locator and no secret material.
func (s *JobService) GetByToken(ctx context.Context, token string) (*dto.JobView, error) {
	job, err := s.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load job")
	}
	view := jobView(job, s.now())
	return &view, nil
}

// ListByOwner returns the owner's jobs as public projections, newest first.
func (s *JobService) ListByOwner(ctx context.Context, ownerKey string) ([]dto.JobView, error) {
	jobs, err := s.store.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list jobs")
	}
	now := s.now()
	views := make([]dto.JobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, jobView(&jobs[i], now))
	}
	return views, nil
}

// Purge deletes the owner's terminal jobs and garbage-collects their backing
// objects. Object deletion is best-effort; the rows are already gone.
func (s *JobService) Purge(ctx context.Context, ownerKey string) (int, error) {
	fileKeys, err := s.store.PurgeTerminalByOwner(ctx, ownerKey)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "purge jobs")
	}
	for _, key := range fileKeys {
		s.sweeper.Enqueue(key)
	}
	s.logger.Info("jobs purged", zap.String("owner_key", ownerKey), zap.Int("deleted", len(fileKeys)))
	return len(fileKeys), nil
}

// Receipt renders a PDF audit receipt for one of the owner's jobs. It
// records the authorization outcome, never the document.
func (s *JobService) Receipt(ctx context.Context, ownerKey, jobID string) ([]byte, error) {
	job, err := s.store.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load job")
	}
	if job.OwnerKey != ownerKey {
		return nil, appErrors.ErrForbidden
	}

	printedAt := "-"
	if job.PrintedAt != nil {
		printedAt = job.PrintedAt.Format(time.RFC3339)
	}
	receipt := export.Receipt{
		Title: "Print Authorization Receipt",
		Fields: []export.Field{
			{Label: "Job", Value: job.ID},
			{Label: "Document", Value: job.FileName},
			{Label: "Status", Value: string(job.Status)},
			{Label: "Copies", Value: fmt.Sprintf("%d", job.Copies)},
			{Label: "Color mode", Value: string(job.ColorMode)},
			{Label: "Paper", Value: fmt.Sprintf("%s %s", job.PaperSize, job.Orientation)},
			{Label: "Attempts used", Value: fmt.Sprintf("%d of %d", job.Attempts, job.MaxAttempts)},
			{Label: "Created", Value: job.CreatedAt.Format(time.RFC3339)},
			{Label: "Expires", Value: job.ExpiresAt.Format(time.RFC3339)},
			{Label: "Printed", Value: printedAt},
		},
	}
	data, err := export.NewReceiptExporter().Render(receipt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render receipt")
	}
	return data, nil
}

// ExportCSV renders the owner's job list as CSV for the dashboard export.
func (s *JobService) ExportCSV(ctx context.Context, ownerKey string) ([]byte, error) {
	jobs, err := s.store.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list jobs")
	}
	data := export.Dataset{
		Headers: []string{"id", "file_name", "status", "copies", "paper_size", "created_at", "expires_at"},
	}
	for i := range jobs {
		j := &jobs[i]
		data.Rows = append(data.Rows, []string{
			j.ID,
			j.FileName,
			string(j.Status),
			fmt.Sprintf("%d", j.Copies),
			string(j.PaperSize),
			j.CreatedAt.Format(time.RFC3339),
			j.ExpiresAt.Format(time.RFC3339),
		})
	}
	out, err := export.NewCSVExporter().Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv")
	}
	return out, nil
}

func jobView(job *models.PrintJob, now time.Time) dto.JobView {
	status := job.Status
	// Present a lapsed pending job as expired without mutating it; the
	// authoritative transition happens inside verification.
	if status == models.JobStatusPending && job.ExpiredAt(now) {
		status = models.JobStatusExpired
	}
	return dto.JobView{
		ID:                job.ID,
		FileName:          job.FileName,
		ContentType:       job.ContentType,
		Status:            status,
		AttemptsRemaining: job.AttemptsRemaining(),
		ExpiresAt:         job.ExpiresAt,
	}
}

func objectKey(jobID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("jobs/%s/document%s", jobID, ext)
}
