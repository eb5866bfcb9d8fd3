package repository

import (
	"context"
	"fmt"
	"time"

	"ticketsync/ingestion/internal/models"
)

// VendorRepository handles ticket vendor database operations
type VendorRepository struct {
	db *Database
}

// Create inserts a new ticket vendor
func (r *VendorRepository) Create(ctx context.Context, vendor *models.TicketVendor) error {
	query := `
		INSERT INTO ticket_vendors (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	if err := r.db.Pool.QueryRow(ctx, query, vendor.Name).Scan(&vendor.ID, &vendor.CreatedAt); err != nil {
		return fmt.Errorf("failed to create ticket vendor: %w", err)
	}

	return nil
}

// List retrieves all ticket vendors
func (r *VendorRepository) List(ctx context.Context) (vendors []models.TicketVendor, err error) {
	defer func(start time.Time) { observe("select", "ticket_vendors", start, err) }(time.Now())

	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, created_at FROM ticket_vendors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket vendors: %w", err)
	}
	defer rows.Close()

	vendors = []models.TicketVendor{}
	for rows.Next() {
		var v models.TicketVendor
		if err := rows.Scan(&v.ID, &v.Name, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket vendor: %w", err)
		}
		vendors = append(vendors, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket vendors: %w", err)
	}

	return vendors, nil
}
