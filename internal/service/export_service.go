package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
	"github.com/surfacelog/surface-log-api/pkg/export"
)

type historyLister interface {
	History(ctx context.Context, rawHandle string) ([]models.LogEntry, error)
}

// ExportService renders a handle's history as a downloadable dossier.
type ExportService struct {
	history historyLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(history historyLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		history: history,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// ExportResult carries rendered bytes plus the response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// HandleDossier renders the handle's visible history in the requested format
// ("csv" or "pdf"). Rendering is synchronous; nothing is stored at rest.
func (s *ExportService) HandleDossier(ctx context.Context, rawHandle, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	entries, err := s.history.History(ctx, rawHandle)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no logs found for handle")
	}

	dataset := export.Dataset{
		Headers: []string{"created_at", "handle", "platform", "sentiment", "severity", "encounter", "category", "description"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		platform := ""
		if e.Platform != nil {
			platform = *e.Platform
		}
		dataset.Rows = append(dataset.Rows, []string{
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.Handle,
			platform,
			string(e.Sentiment),
			string(e.Severity),
			string(e.Encounter),
			e.Category,
			e.Description,
		})
	}

	key := NormalizeHandle(rawHandle)
	switch format {
	case "pdf":
		content, err := s.pdf.Render(dataset, fmt.Sprintf("surface log dossier: %s", entries[0].Handle))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: key + "-dossier.pdf"}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: key + "-dossier.csv"}, nil
	}
}
