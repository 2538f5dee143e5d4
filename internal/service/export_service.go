package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
	"github.com/RInot-Aikcraft/cours/pkg/export"
)

// ExportFormat selects the roster output encoding.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with transport metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type enrollmentLister interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
}

// ExportService renders the enrollment roster as CSV or PDF.
type ExportService struct {
	enrollments enrollmentLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(enrollments enrollmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
		now:         time.Now,
	}
}

var rosterHeaders = []string{"Code", "Student", "Group", "Level", "Session", "Payment", "Enrolled"}

// EnrollmentRoster renders all enrollments in the requested format.
func (s *ExportService) EnrollmentRoster(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	enrollments, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(enrollments))}
	for _, e := range enrollments {
		data.Rows = append(data.Rows, map[string]string{
			"Code":     e.EnrollmentCode,
			"Student":  e.Student.Name + " " + e.Student.Surname,
			"Group":    e.Group.Name,
			"Level":    e.Group.Level.Name,
			"Session":  e.Group.Level.Session.Name,
			"Payment":  string(e.PaymentState),
			"Enrolled": e.EnrollmentDate.Format("2006-01-02"),
		})
	}

	stamp := s.now().UTC().Format("20060102")
	switch format {
	case ExportPDF:
		content, err := s.pdf.Render(data, "Enrollments")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("enrollments_%s.pdf", stamp),
		}, nil
	default:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("enrollments_%s.csv", stamp),
		}, nil
	}
}
