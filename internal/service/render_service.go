package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/printgate/printgate/internal/models"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/storage"
)

type renderJobStore interface {
	GetByID(ctx context.Context, id string) (*models.PrintJob, error)
}

// RenderService is the disclosure gateway. It turns a verified storage
// locator into throwaway watermarked print output; decoded bytes live only
// for the duration of one request.
type RenderService struct {
	store     renderJobStore
	objects   storage.ObjectStore
	metrics   *MetricsService
	logger    *zap.Logger
	maxCopies int
	now       func() time.Time
}

// NewRenderService constructs the gateway.
func NewRenderService(store renderJobStore, objects storage.ObjectStore, maxCopies int, metrics *MetricsService, logger *zap.Logger) *RenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCopies <= 0 {
		maxCopies = 50
	}
	return &RenderService{
		store:     store,
		objects:   objects,
		metrics:   metrics,
		logger:    logger,
		maxCopies: maxCopies,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Render produces the printable HTML document for a disclosed job.
//
// The caller already holds the locator from a successful verification, but
// the gateway does not trust the claim: it re-loads the job, requires
// status = PRINTED, and requires the presented locator to match the
// persisted one. The duplication with the orchestrator's own check is
// intentional.
func (s *RenderService) Render(ctx context.Context, jobID, fileKey string, params models.PrintParams) (string, error) {
	if err := validateParams(params, s.maxCopies); err != nil {
		return "", err
	}

	job, err := s.store.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrNotFound
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load job")
	}
	if job.Status != models.JobStatusPrinted {
		return "", appErrors.Clone(appErrors.ErrForbidden, "job is not authorized for printing")
	}
	if fileKey == "" || fileKey != job.FileKey {
		return "", appErrors.Clone(appErrors.ErrForbidden, "file reference does not match job")
	}

	raw, err := s.objects.Get(ctx, job.FileKey)
	if err != nil {
		s.metrics.ObserveStorageFailure()
		s.logger.Error("object fetch failed", zap.String("job_id", job.ID), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}

	html, err := s.compose(job, params, raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "compose print document")
	}

	s.metrics.ObserveDisclosure()
	s.logger.Info("document disclosed",
		zap.String("job_id", job.ID),
		zap.Int("copies", params.Copies),
		zap.String("paper_size", string(params.PaperSize)),
	)
	return html, nil
}

func validateParams(p models.PrintParams, maxCopies int) error {
	switch {
	case p.Copies < 1 || p.Copies > maxCopies:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("copies must be between 1 and %d", maxCopies))
	case !p.ColorMode.IsValid():
		return appErrors.Clone(appErrors.ErrValidation, "unknown color mode")
	case !p.PaperSize.IsValid():
		return appErrors.Clone(appErrors.ErrValidation, "unknown paper size")
	case !p.Orientation.IsValid():
		return appErrors.Clone(appErrors.ErrValidation, "unknown orientation")
	}
	return nil
}

type renderPage struct {
	Copy  int
	Total int
}

type renderData struct {
	Watermark   string
	Grayscale   bool
	PageWidth   int
	PageHeight  int
	ContentType string
	IsImage     bool
	IsDocument  bool
	DataURI     template.URL
	Pages       []renderPage
}

func (s *RenderService) compose(job *models.PrintJob, params models.PrintParams, raw []byte) (string, error) {
	width, height := params.PaperSize.PageDimensions(params.Orientation)

	data := renderData{
		Watermark:   watermark(job.ID, s.now()),
		Grayscale:   params.ColorMode == models.ColorModeMonochrome,
		PageWidth:   width,
		PageHeight:  height,
		ContentType: job.ContentType,
		IsImage:     strings.HasPrefix(job.ContentType, "image/"),
		IsDocument:  job.ContentType == "application/pdf",
		DataURI:     template.URL("data:" + job.ContentType + ";base64," + base64.StdEncoding.EncodeToString(raw)),
	}
	for i := 1; i <= params.Copies; i++ {
		data.Pages = append(data.Pages, renderPage{Copy: i, Total: params.Copies})
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// watermark builds the per-page traceability stamp: a truncated job id plus
// the issuance timestamp.
func watermark(jobID string, now time.Time) string {
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("JOB %s · %s", strings.ToUpper(short), now.Format("2006-01-02 15:04 MST"))
}

// printTemplate is the one-shot print document. The save/copy deterrents
// (context-menu suppression, selection blocking) are UX friction only, not
// a security boundary; the data URI is the single place the bytes appear
// and they are never written anywhere.
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Print</title>
<style>
@page { size: {{.PageWidth}}mm {{.PageHeight}}mm; margin: 0; }
html, body { margin: 0; padding: 0; }
body {
	-webkit-user-select: none;
	user-select: none;
	{{if .Grayscale}}filter: grayscale(100%);
	-webkit-filter: grayscale(100%);{{end}}
}
.page {
	position: relative;
	width: {{.PageWidth}}mm;
	height: {{.PageHeight}}mm;
	overflow: hidden;
	page-break-after: always;
}
.page:last-child { page-break-after: auto; }
.content { width: 100%; height: 100%; }
.content img { width: 100%; height: 100%; object-fit: contain; }
.content embed { width: 100%; height: 100%; }
.watermark {
	position: absolute;
	bottom: 4mm;
	right: 4mm;
	font: 9px monospace;
	color: rgba(0, 0, 0, 0.45);
	z-index: 10;
	pointer-events: none;
}
</style>
</head>
<body oncontextmenu="return false" ondragstart="return false">
{{range .Pages}}
<div class="page">
	<div class="content">
	{{if $.IsImage}}<img src="{{$.DataURI}}" alt="">{{else if $.IsDocument}}<embed src="{{$.DataURI}}" type="{{$.ContentType}}">{{end}}
	</div>
	<div class="watermark">{{$.Watermark}} · {{.Copy}}/{{.Total}}</div>
</div>
{{end}}
</body>
</html>
`))
