package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"datakeep/internal/entries"
	"datakeep/internal/models"
	"datakeep/internal/repositories"
	"datakeep/internal/resolver"
)

// DataService owns the per-project entry trees: entry CRUD, the raw and
// formatted read paths and remote source resolution. Concurrent writes are
// last-writer-wins at entry granularity; there is no optimistic concurrency
// token on entries (known limitation).
type DataService struct {
	projects repositories.ProjectStore
	resolver *resolver.Resolver
}

func NewDataService(projects repositories.ProjectStore, res *resolver.Resolver) *DataService {
	return &DataService{
		projects: projects,
		resolver: res,
	}
}

// RawProject is the unresolved data-info view; no remote fetches happen on
// this path.
type RawProject struct {
	ID   uuid.UUID     `json:"id"`
	Name string        `json:"name"`
	Data *entries.Tree `json:"data"`
}

// FormattedProject is the display view: entries regrouped by name with
// duplicate names disambiguated.
type FormattedProject struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Data *entries.Map `json:"data"`
}

// CreateProject starts a free-plan project. Each top-level key of the initial
// data becomes its own entry under a fresh entry id.
func (s *DataService) CreateProject(ctx context.Context, ownerID, name string, initialData json.RawMessage) (*models.Project, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrValidation)
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner id: %v", ErrValidation, err)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	tree := entries.NewTree()
	if len(initialData) > 0 {
		value, err := entries.DecodeValue(initialData)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid initial data: %v", ErrValidation, err)
		}
		root, ok := value.(*entries.Map)
		if !ok {
			return nil, fmt.Errorf("%w: initial data must be a JSON object", ErrValidation)
		}
		for pair := root.Oldest(); pair != nil; pair = pair.Next() {
			entry := entries.NewMap()
			entry.Set(pair.Key, pair.Value)
			tree.Add(uuid.NewString(), entry)
		}
	}

	project := &models.Project{
		OwnerID: owner,
		Name:    name,
		Plan:    models.PlanFree,
		Data:    tree,
	}
	project.Prepare()

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	return project, nil
}

// AddEntry inserts a value under a fresh entry id and returns the id along
// with the updated project snapshot.
func (s *DataService) AddEntry(ctx context.Context, projectID string, value json.RawMessage) (string, *models.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return "", nil, err
	}

	entryValue, err := entries.DecodeValue(value)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid entry value: %v", ErrValidation, err)
	}

	entryID := uuid.NewString()
	project.Data.Add(entryID, entryValue)

	if err := s.projects.Save(ctx, project); err != nil {
		return "", nil, fmt.Errorf("failed to save entry: %w", err)
	}

	return entryID, project, nil
}

// UpdateEntry replaces the value stored at an entry id wholesale.
func (s *DataService) UpdateEntry(ctx context.Context, projectID, entryID string, value json.RawMessage) (*models.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entryValue, err := entries.DecodeValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry value: %v", ErrValidation, err)
	}

	if !project.Data.Replace(entryID, entryValue) {
		return nil, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	return project, nil
}

// DeleteEntry removes an entry. Ids are never reused, so a repeated delete
// reports NotFound rather than succeeding silently.
func (s *DataService) DeleteEntry(ctx context.Context, projectID, entryID string) (*models.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !project.Data.Remove(entryID) {
		return nil, fmt.Errorf("%w: entry %s", ErrNotFound, entryID)
	}

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save entry deletion: %w", err)
	}

	return project, nil
}

// GetRawData returns the stored tree as-is.
func (s *DataService) GetRawData(ctx context.Context, projectID string) (*RawProject, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &RawProject{ID: project.ID, Name: project.Name, Data: project.Data}, nil
}

// GetFormatted renders the display view. Remote sources are resolved
// opportunistically on a snapshot of the tree (silently skipped on free
// plans) and refreshed caches are persisted best effort before formatting.
func (s *DataService) GetFormatted(ctx context.Context, projectID string) (*FormattedProject, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	snapshot, err := project.Data.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot entry tree: %w", err)
	}

	resolved, err := s.resolver.Resolve(ctx, snapshot, project.Plan, resolver.Opportunistic)
	if err != nil {
		return nil, err
	}

	if resolved > 0 && project.Plan == models.PlanPremium {
		project.Data = snapshot
		if err := s.projects.Save(ctx, project); err != nil {
			// the formatted view still renders from the snapshot
			log.Printf("Warning: failed to persist resolved data for project %s: %v", project.ID, err)
		}
	}

	return &FormattedProject{ID: project.ID, Name: project.Name, Data: entries.Format(snapshot)}, nil
}

// ResolveProject is the explicit resolution path: it fails with
// ErrPlanRequired on non-premium plans, otherwise resolves every source and
// persists the refreshed caches.
func (s *DataService) ResolveProject(ctx context.Context, projectID string) (*RawProject, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	snapshot, err := project.Data.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot entry tree: %w", err)
	}

	if _, err := s.resolver.Resolve(ctx, snapshot, project.Plan, resolver.Explicit); err != nil {
		return nil, err
	}

	project.Data = snapshot
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to persist resolved data: %w", err)
	}

	return &RawProject{ID: project.ID, Name: project.Name, Data: project.Data}, nil
}

// ListByOwner returns current {id, name} summaries for the owner's projects.
func (s *DataService) ListByOwner(ctx context.Context, ownerID string) ([]models.ProjectSummary, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner id: %v", ErrValidation, err)
	}

	summaries, err := s.projects.FindByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return summaries, nil
}

// DeleteProject removes the project and its tree together.
func (s *DataService) DeleteProject(ctx context.Context, projectID string) error {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return fmt.Errorf("%w: invalid project id: %v", ErrValidation, err)
	}

	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}
	return nil
}

// SetPlan records a plan change handed over by the billing collaborators.
func (s *DataService) SetPlan(ctx context.Context, projectID, plan string) (*models.Project, error) {
	if !models.ValidPlan(plan) {
		return nil, fmt.Errorf("%w: unknown plan '%s'", ErrValidation, plan)
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	project.Plan = plan
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save plan change: %w", err)
	}

	return project, nil
}

func (s *DataService) getProject(ctx context.Context, projectID string) (*models.Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project id: %v", ErrValidation, err)
	}

	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, projectID)
	}

	return project, nil
}
