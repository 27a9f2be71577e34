// Package fees resolves the application fee an applicant must have paid.
package fees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"admission-workers/internal/models"
)

// ErrFeeNotFound means no fee is configured for the application's programme
// and intake.
var ErrFeeNotFound = errors.New("fee not found")

type Resolver interface {
	RequiredAmount(ctx context.Context, applicationID string) (float64, error)
}

const programFeeQuery = `SELECT pf.program_code, pf.intake_id, pf.amount::text, pf.currency
FROM applications a
JOIN program_fees pf ON pf.program_code = a.program_code AND pf.intake_id = a.intake_id
WHERE a.id = $1`

// PostgresResolver joins the application to its programme fee.
type PostgresResolver struct {
	db *sql.DB
}

func NewPostgresResolver(db *sql.DB) *PostgresResolver {
	return &PostgresResolver{db: db}
}

// ProgramFee returns the fee row that applies to the application.
func (r *PostgresResolver) ProgramFee(ctx context.Context, applicationID string) (*models.ProgramFee, error) {
	var (
		fee    models.ProgramFee
		intake sql.NullString
		amount string
	)
	err := r.db.QueryRowContext(ctx, programFeeQuery, applicationID).
		Scan(&fee.ProgramCode, &intake, &amount, &fee.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve fee for application %s: %w", applicationID, err)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse fee amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return nil, fmt.Errorf("fee for application %s is not positive: %s", applicationID, d.StringFixed(2))
	}

	fee.IntakeID = intake.String
	fee.Amount = d.InexactFloat64()
	return &fee, nil
}

func (r *PostgresResolver) RequiredAmount(ctx context.Context, applicationID string) (float64, error) {
	fee, err := r.ProgramFee(ctx, applicationID)
	if err != nil {
		return 0, err
	}
	return fee.Amount, nil
}

// FixedResolver returns the same amount for every application.
type FixedResolver float64

func (f FixedResolver) RequiredAmount(context.Context, string) (float64, error) {
	return float64(f), nil
}
