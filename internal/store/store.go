// Package store persists company and place records. The contract is
// deliberately key-value shaped: single-item gets, inserts, and partial
// merge updates, no transactions across entities.
package store

import (
	"context"

	"github.com/AurisAASI/backend-core/internal/model"
)

// Store defines the persistence interface shared by the three engines.
type Store interface {
	// Companies
	GetCompany(ctx context.Context, companyID string) (*model.Company, error)
	InsertCompany(ctx context.Context, company model.Company) error
	// UpdateCompany merges the patch into the stored record; keys absent
	// from the patch are left untouched.
	UpdateCompany(ctx context.Context, companyID string, patch map[string]any) error

	// Places
	GetPlace(ctx context.Context, placeID string) (*model.PlaceRecord, error)
	InsertPlace(ctx context.Context, rec model.PlaceRecord) error
	UpdatePlace(ctx context.Context, placeID string, patch map[string]any) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
