package models

import (
	"time"

	"github.com/google/uuid"

	"datakeep/internal/entries"
)

// Plan tiers. Remote source resolution is gated on premium; billing itself
// lives outside this service and hands us plan changes.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

func ValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanPremium
}

type Project struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Name      string        `json:"name"`
	Plan      string        `json:"plan"` // 'free' or 'premium'
	Data      *entries.Tree `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
}

func (p *Project) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Plan == "" {
		p.Plan = PlanFree
	}
	if p.Data == nil {
		p.Data = entries.NewTree()
	}
}

// ProjectSummary is the list-by-owner projection.
type ProjectSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
