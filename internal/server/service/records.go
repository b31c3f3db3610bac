package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kyrilous/AutoLogg/internal/shared/models"
)

var (
	// ErrValidation indicates a required field was absent on create.
	ErrValidation = errors.New("missing required fields")
	// ErrForbidden indicates the record exists but belongs to someone else.
	ErrForbidden = errors.New("caller does not own record")
)

// Repository is the persistence contract the service depends on. The
// concrete store lives in repository/sqlite and is injected at
// construction time.
type Repository interface {
	Insert(ctx context.Context, rec models.MaintenanceRecord) (models.MaintenanceRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.MaintenanceRecord, error)
	GetByID(ctx context.Context, id int64) (models.MaintenanceRecord, error)
	DeleteByID(ctx context.Context, id int64) error
}

// CreateInput carries the client-supplied fields of a new record. The
// owner never comes from here; it is passed separately from the verified
// identity.
type CreateInput struct {
	ServiceType string
	Mileage     int64
	Date        string
}

// Records implements the three maintenance-log use-cases. Every call
// assumes the caller's identity was already verified by the HTTP gate.
type Records struct {
	repo Repository
}

func NewRecords(repo Repository) *Records {
	return &Records{repo: repo}
}

// Create validates the payload and persists a record owned by ownerID.
// Mileage zero counts as missing; negative mileage and non-calendar dates
// are accepted as-is.
func (s *Records) Create(ctx context.Context, ownerID string, in CreateInput) (models.MaintenanceRecord, error) {
	if ownerID == "" || in.ServiceType == "" || in.Mileage == 0 || in.Date == "" {
		return models.MaintenanceRecord{}, ErrValidation
	}
	rec := models.MaintenanceRecord{
		ServiceType: in.ServiceType,
		Mileage:     in.Mileage,
		Date:        in.Date,
		OwnerID:     ownerID,
	}
	rec, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return models.MaintenanceRecord{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// ListByOwner returns every record owned by ownerID, oldest first. An
// owner with no records gets an empty slice, not an error.
func (s *Records) ListByOwner(ctx context.Context, ownerID string) ([]models.MaintenanceRecord, error) {
	recs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if recs == nil {
		recs = []models.MaintenanceRecord{}
	}
	return recs, nil
}

// DeleteIfOwner removes the record only when ownerID created it.
// Existence is checked before ownership, so a missing record reports
// not-found rather than forbidden.
func (s *Records) DeleteIfOwner(ctx context.Context, ownerID string, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.OwnerID != ownerID {
		return ErrForbidden
	}
	return s.repo.DeleteByID(ctx, id)
}
