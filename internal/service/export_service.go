package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/export"
)

// ExportFormat selects the rendering backend.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with their HTTP metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportUserLister interface {
	ExportDataset(ctx context.Context, actor *models.User) ([]models.User, error)
}

// ExportService renders the admin roster into downloadable files.
type ExportService struct {
	users  exportUserLister
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(users exportUserLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		users:  users,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// Users exports the roster visible to the actor in the requested format.
func (s *ExportService) Users(ctx context.Context, actor *models.User, format ExportFormat) (*ExportResult, error) {
	users, err := s.users.ExportDataset(ctx, actor)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Nom", "Email", "Rôle", "Institut", "Filière", "Niveau", "Matricule", "Vérifié"},
	}
	for _, u := range users {
		row := map[string]string{
			"Nom":      u.Name,
			"Email":    u.Email,
			"Rôle":     string(u.Role),
			"Institut": deref(u.Institute),
			"Filière":  deref(u.Filiere),
			"Niveau":   deref(u.Niveau),
			"Matricule": deref(u.StudentNumber),
			"Vérifié":  "non",
		}
		if u.IdentityVerified {
			row["Vérifié"] = "oui"
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	switch format {
	case ExportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "utilisateurs.csv"}, nil
	case ExportPDF:
		content, err := s.pdf.Render(dataset, "Liste des utilisateurs")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "utilisateurs.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "Format d'export inconnu")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
