// Package applications reads applicant records from the admissions database.
package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"admission-workers/internal/models"
)

var ErrNotFound = errors.New("application not found")

const getApplicationQuery = `SELECT id, applicant_name, email, phone, program_code, intake_id, status, created_at, updated_at
FROM applications
WHERE id = $1`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Application, error) {
	var (
		app                  models.Application
		phone, intake        sql.NullString
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, getApplicationQuery, id).Scan(
		&app.ID, &app.ApplicantName, &app.Email, &phone, &app.ProgramCode,
		&intake, &app.Status, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}

	app.Phone = phone.String
	app.IntakeID = intake.String
	app.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	app.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return &app, nil
}
