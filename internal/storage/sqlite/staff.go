package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tablepay/internal/models"
)

const staffColumns = "id, email, display_name, password_hash, created_at, updated_at"

// CreateStaff inserts a new staff account.
func (s *SQLiteStore) CreateStaff(ctx context.Context, staff *models.Staff) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO staff ("+staffColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		staff.ID,
		staff.Email,
		staff.DisplayName,
		staff.PasswordHash,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

// GetStaffByEmail retrieves a staff account by email address.
func (s *SQLiteStore) GetStaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	staff, err := s.getStaff(ctx, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by email: %w", err)
	}
	return staff, nil
}

// GetStaffByID retrieves a staff account by ID.
func (s *SQLiteStore) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	staff, err := s.getStaff(ctx, "id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff by id: %w", err)
	}
	return staff, nil
}

// getStaff looks up a single account by column. column is never user input.
func (s *SQLiteStore) getStaff(ctx context.Context, column, value string) (*models.Staff, error) {
	staff := &models.Staff{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM staff WHERE "+column+" = ?",
		value,
	).Scan(
		&staff.ID,
		&staff.Email,
		&staff.DisplayName,
		&staff.PasswordHash,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Staff not found
	}
	if err != nil {
		return nil, err
	}
	return staff, nil
}
