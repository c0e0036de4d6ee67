package service

import (
	"context"
	"fmt"

	"storyfusion/internal/dataset"
	"storyfusion/internal/repository"
)

// AdminService covers store-wide chores: schema setup and health
type AdminService struct {
	store   *repository.Store
	catalog *dataset.Catalog
}

// NewAdminService creates a new admin service
func NewAdminService(store *repository.Store, catalog *dataset.Catalog) *AdminService {
	return &AdminService{store: store, catalog: catalog}
}

// InitSchema creates every table or collection and its indexes
func (s *AdminService) InitSchema(ctx context.Context) error {
	if err := s.store.Init(ctx); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// MissingData lists reference data files that were absent at startup
func (s *AdminService) MissingData() []string {
	if s.catalog.Missing == nil {
		return []string{}
	}
	return s.catalog.Missing
}
