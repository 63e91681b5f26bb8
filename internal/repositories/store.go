package repositories

import (
	"context"

	"github.com/google/uuid"

	"datakeep/internal/models"
)

// ProjectStore is the persistence boundary for projects. Implementations
// provide atomic single-document writes; nothing here requires multi-document
// transactions. Get returns (nil, nil) for an unknown id.
type ProjectStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectSummary, error)
}
