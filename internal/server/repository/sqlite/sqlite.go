package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/Kyrilous/AutoLogg/internal/server/repository"
	"github.com/Kyrilous/AutoLogg/internal/shared/models"
)

type Repository struct {
	db *sql.DB
}

func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS maintenance_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_type TEXT NOT NULL,
			mileage INTEGER NOT NULL,
			date TEXT NOT NULL,
			owner_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_maintenance_records_owner
			ON maintenance_records(owner_id);
	`); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// Insert persists rec and returns it with its assigned id. Ids are
// monotonic per the AUTOINCREMENT clause and never reused.
func (r *Repository) Insert(ctx context.Context, rec models.MaintenanceRecord) (models.MaintenanceRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_records(service_type, mileage, date, owner_id) VALUES(?,?,?,?)`,
		rec.ServiceType, rec.Mileage, rec.Date, rec.OwnerID)
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.MaintenanceRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

// ListByOwner returns the owner's records in insertion order.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]models.MaintenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, service_type, mileage, date, owner_id FROM maintenance_records WHERE owner_id = ? ORDER BY id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.MaintenanceRecord
	for rows.Next() {
		var rec models.MaintenanceRecord
		if err := rows.Scan(&rec.ID, &rec.ServiceType, &rec.Mileage, &rec.Date, &rec.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByID fetches a record regardless of owner. Ownership is the service
// layer's concern: existence must be distinguishable from non-ownership.
func (r *Repository) GetByID(ctx context.Context, id int64) (models.MaintenanceRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, service_type, mileage, date, owner_id FROM maintenance_records WHERE id = ?`, id)
	var rec models.MaintenanceRecord
	if err := row.Scan(&rec.ID, &rec.ServiceType, &rec.Mileage, &rec.Date, &rec.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MaintenanceRecord{}, repository.ErrNotFound
		}
		return models.MaintenanceRecord{}, err
	}
	return rec, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
