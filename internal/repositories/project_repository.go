package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"datakeep/internal/entries"
	"datakeep/internal/models"
)

// ProjectRepository stores projects in Postgres. The entry tree lives in a
// JSON column (not JSONB: jsonb normalizes key order, and stored order drives
// the formatter's suffix assignment).
type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, owner_id, name, plan, data::text, created_at
		FROM projects WHERE id = $1
	`

	var project models.Project
	var data []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.Plan,
		&data,
		&project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	tree := entries.NewTree()
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("failed to decode entry tree for project %s: %w", id, err)
	}
	project.Data = tree

	return &project, nil
}

func (r *ProjectRepository) Save(ctx context.Context, project *models.Project) error {
	project.Prepare()

	data, err := json.Marshal(project.Data)
	if err != nil {
		return fmt.Errorf("failed to encode entry tree: %w", err)
	}

	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO projects (id, owner_id, name, plan, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, plan = EXCLUDED.plan, data = EXCLUDED.data
	`

	_, err = r.pool.Exec(ctx, query,
		project.ID,
		project.OwnerID,
		project.Name,
		project.Plan,
		string(data),
		project.CreatedAt,
	)

	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *ProjectRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectSummary, error) {
	query := `
		SELECT id, name
		FROM projects WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.ProjectSummary
	for rows.Next() {
		var summary models.ProjectSummary
		if err := rows.Scan(&summary.ID, &summary.Name); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}
