package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"datakeep/internal/models"
)

// MemoryProjectStore keeps projects in process memory. It is used by service
// tests and mirrors the repository's snapshot behavior: every Get and Save
// deep-copies, so callers never share tree nodes with the store.
type MemoryProjectStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*models.Project
}

func NewMemoryProjectStore() *MemoryProjectStore {
	return &MemoryProjectStore{projects: make(map[uuid.UUID]*models.Project)}
}

func (s *MemoryProjectStore) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return cloneProject(project)
}

func (s *MemoryProjectStore) Save(ctx context.Context, project *models.Project) error {
	project.Prepare()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	clone, err := cloneProject(project)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[clone.ID] = clone
	return nil
}

func (s *MemoryProjectStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

func (s *MemoryProjectStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var summaries []models.ProjectSummary
	for _, project := range s.projects {
		if project.OwnerID == ownerID {
			summaries = append(summaries, models.ProjectSummary{ID: project.ID, Name: project.Name})
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID.String() < summaries[j].ID.String()
	})
	return summaries, nil
}

func cloneProject(project *models.Project) (*models.Project, error) {
	raw, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	var clone models.Project
	if err := json.Unmarshal(raw, &clone); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &clone, nil
}
