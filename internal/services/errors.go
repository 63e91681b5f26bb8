package services

import (
	"errors"

	"datakeep/internal/resolver"
)

// Request-level error kinds, wrapped with context where they occur and mapped
// onto HTTP status codes by the handlers. Remote fetch failures never show up
// here: they degrade to the entry's dataError marker so the rest of the view
// still renders.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPlanRequired = resolver.ErrPlanRequired
)
