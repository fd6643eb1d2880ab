package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printgate/printgate/internal/dto"
	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/pkg/config"
	appErrors "github.com/printgate/printgate/pkg/errors"
)

func testPrintConfig() config.PrintConfig {
	return config.PrintConfig{
		ExpiryWindow: 30 * time.Minute,
		MaxAttempts:  3,
		MaxCopies:    50,
	}
}

func validCreateRequest() dto.CreateJobRequest {
	return dto.CreateJobRequest{
		Copies:      2,
		ColorMode:   "color",
		PaperSize:   "a4",
		Orientation: "portrait",
	}
}

func TestJobCreateIssuesSecretAndToken(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	svc := NewJobService(store, objects, nil, nil, testPrintConfig(), nil)

	created, err := svc.Create(context.Background(), "owner-1", validCreateRequest(), "contract.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.True(t, ValidSecretFormat(created.Secret))
	assert.Len(t, created.CapabilityToken, 32)
	assert.Equal(t, "/print/"+created.CapabilityToken, created.PrintURL)
	assert.Equal(t, models.JobStatusPending, created.Status)
	assert.Equal(t, models.ColorModeColor, created.Params.ColorMode)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), created.ExpiresAt, 5*time.Second)

	job := store.snapshot(created.ID)
	require.NotNil(t, job)
	assert.Equal(t, DigestSecret(created.Secret), job.SecretDigest)
	assert.Equal(t, 3, job.MaxAttempts)
	assert.Contains(t, job.FileKey, created.ID)

	data, err := objects.Get(context.Background(), job.FileKey)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestJobCreateRejectsBadParams(t *testing.T) {
	svc := NewJobService(newMemJobStore(), newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	req := validCreateRequest()
	req.Copies = 51
	_, err := svc.Create(context.Background(), "owner-1", req, "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	req = validCreateRequest()
	req.PaperSize = "A9"
	_, err = svc.Create(context.Background(), "owner-1", req, "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestJobCreateStorageFailure(t *testing.T) {
	objects := newMemObjectStore()
	objects.failPut = true
	svc := NewJobService(newMemJobStore(), objects, nil, nil, testPrintConfig(), nil)

	_, err := svc.Create(context.Background(), "owner-1", validCreateRequest(), "a.pdf", "application/pdf", strings.NewReader("x"))
	assert.True(t, appErrors.Is(err, appErrors.ErrUnavailable))
}

func TestJobGetByTokenHidesSecretMaterial(t *testing.T) {
	store := newMemJobStore()
	store.put(pendingJob("482913"))
	svc := NewJobService(store, newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	view, err := svc.GetByToken(context.Background(), "token-original")
	require.NoError(t, err)
	assert.Equal(t, "job-1", view.ID)
	assert.Equal(t, "contract.pdf", view.FileName)
	assert.Equal(t, models.JobStatusPending, view.Status)
	assert.Equal(t, 3, view.AttemptsRemaining)

	_, err = svc.GetByToken(context.Background(), "no-such-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestJobGetByTokenPresentsLapsedJobAsExpired(t *testing.T) {
	store := newMemJobStore()
	job := pendingJob("482913")
	job.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	store.put(job)
	svc := NewJobService(store, newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	view, err := svc.GetByToken(context.Background(), "token-original")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusExpired, view.Status)
	// Presentation only: the stored row is untouched.
	assert.Equal(t, models.JobStatusPending, store.snapshot("job-1").Status)
}

func TestJobPurgeRemovesTerminalJobsOnly(t *testing.T) {
	store := newMemJobStore()
	active := pendingJob("482913")
	store.put(active)

	done := pendingJob("482913")
	done.ID = "job-2"
	done.FileKey = "jobs/job-2/document.pdf"
	done.CapabilityToken = "token-2"
	done.Status = models.JobStatusPrinted
	store.put(done)

	svc := NewJobService(store, newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	deleted, err := svc.Purge(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NotNil(t, store.snapshot("job-1"), "pending jobs survive the purge")
	assert.Nil(t, store.snapshot("job-2"))
}

func TestJobReceipt(t *testing.T) {
	store := newMemJobStore()
	job := pendingJob("482913")
	printedAt := time.Now().UTC()
	job.Status = models.JobStatusPrinted
	job.PrintedAt = &printedAt
	job.Attempts = 1
	store.put(job)
	svc := NewJobService(store, newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	data, err := svc.Receipt(context.Background(), "owner-1", "job-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "receipt must be a PDF document")

	_, err = svc.Receipt(context.Background(), "someone-else", "job-1")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Receipt(context.Background(), "owner-1", "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestJobExportCSV(t *testing.T) {
	store := newMemJobStore()
	store.put(pendingJob("482913"))
	svc := NewJobService(store, newMemObjectStore(), nil, nil, testPrintConfig(), nil)

	data, err := svc.ExportCSV(context.Background(), "owner-1")
	require.NoError(t, err)

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,file_name,status,copies,paper_size,created_at,expires_at", lines[0])
	assert.Contains(t, lines[1], "job-1")
	assert.Contains(t, lines[1], "contract.pdf")
	assert.NotContains(t, out, "482913", "exports never carry the secret")
	assert.NotContains(t, out, "jobs/job-1", "exports never carry the locator")
}
