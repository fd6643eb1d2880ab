package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printgate/printgate/internal/models"
	appErrors "github.com/printgate/printgate/pkg/errors"
)

func printedJob(t *testing.T, store *memJobStore, objects *memObjectStore, contentType string, body []byte) *models.PrintJob {
	t.Helper()
	job := pendingJob("482913")
	job.ContentType = contentType
	printedAt := time.Now().UTC()
	job.Status = models.JobStatusPrinted
	job.PrintedAt = &printedAt
	store.put(job)
	require.NoError(t, objects.Put(context.Background(), job.FileKey, contentType, strings.NewReader(string(body))))
	return job
}

func TestRenderProducesWatermarkedCopies(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "image/png", []byte("png-bytes"))
	svc := NewRenderService(store, objects, 50, nil, nil)

	html, err := svc.Render(context.Background(), job.ID, job.FileKey, models.PrintParams{
		Copies:      3,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(html, `class="page"`), "one page block per copy")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "page-break-after: always")
	assert.Contains(t, html, "JOB "+strings.ToUpper(job.ID))
	assert.Contains(t, html, "size: 210mm 297mm")
	assert.NotContains(t, html, "grayscale", "color output must not be desaturated")
}

func TestRenderMonochromeLandscape(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "application/pdf", []byte("%PDF-1.4"))
	svc := NewRenderService(store, objects, 50, nil, nil)

	html, err := svc.Render(context.Background(), job.ID, job.FileKey, models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeMonochrome,
		PaperSize:   models.PaperSizeLetter,
		Orientation: models.OrientationLandscape,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "grayscale(100%)")
	assert.Contains(t, html, "size: 279mm 216mm", "landscape transposes the paper dimensions")
	assert.Contains(t, html, "data:application/pdf;base64,")
	assert.Contains(t, html, "<embed")
}

func TestRenderUnsupportedTypeEmitsNoContent(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "text/plain", []byte("hello"))
	svc := NewRenderService(store, objects, 50, nil, nil)

	html, err := svc.Render(context.Background(), job.ID, job.FileKey, models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "data:text/plain")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "<embed")
}

func TestRenderRefusesPendingJob(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := pendingJob("482913")
	store.put(job)
	require.NoError(t, objects.Put(context.Background(), job.FileKey, job.ContentType, strings.NewReader("bytes")))
	svc := NewRenderService(store, objects, 50, nil, nil)

	_, err := svc.Render(context.Background(), job.ID, job.FileKey, models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestRenderRefusesMismatchedLocator(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "image/png", []byte("png"))
	svc := NewRenderService(store, objects, 50, nil, nil)

	_, err := svc.Render(context.Background(), job.ID, "jobs/other/document.png", models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestRenderUnknownJob(t *testing.T) {
	svc := NewRenderService(newMemJobStore(), newMemObjectStore(), 50, nil, nil)

	_, err := svc.Render(context.Background(), "missing", "key", models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestRenderStorageFailure(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "image/png", []byte("png"))
	objects.failGet = true
	svc := NewRenderService(store, objects, 50, nil, nil)

	_, err := svc.Render(context.Background(), job.ID, job.FileKey, models.PrintParams{
		Copies:      1,
		ColorMode:   models.ColorModeColor,
		PaperSize:   models.PaperSizeA4,
		Orientation: models.OrientationPortrait,
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnavailable))
}

func TestRenderRejectsBadParams(t *testing.T) {
	store := newMemJobStore()
	objects := newMemObjectStore()
	job := printedJob(t, store, objects, "image/png", []byte("png"))
	svc := NewRenderService(store, objects, 10, nil, nil)

	cases := []models.PrintParams{
		{Copies: 0, ColorMode: models.ColorModeColor, PaperSize: models.PaperSizeA4, Orientation: models.OrientationPortrait},
		{Copies: 11, ColorMode: models.ColorModeColor, PaperSize: models.PaperSizeA4, Orientation: models.OrientationPortrait},
		{Copies: 1, ColorMode: "SEPIA", PaperSize: models.PaperSizeA4, Orientation: models.OrientationPortrait},
		{Copies: 1, ColorMode: models.ColorModeColor, PaperSize: "A7", Orientation: models.OrientationPortrait},
		{Copies: 1, ColorMode: models.ColorModeColor, PaperSize: models.PaperSizeA4, Orientation: "DIAGONAL"},
	}
	for _, params := range cases {
		_, err := svc.Render(context.Background(), job.ID, job.FileKey, params)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "params %+v should be rejected", params)
	}
}
