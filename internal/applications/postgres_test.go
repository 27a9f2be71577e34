package applications

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "applicant_name", "email", "phone", "program_code", "intake_id", "status", "created_at", "updated_at"}

func TestRepository_Get(t *testing.T) {
	created := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		check   func(t *testing.T, phone, intake string)
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, applicant_name, email, phone, program_code, intake_id, status, created_at, updated_at FROM applications WHERE id = \$1`).
					WithArgs("app-1").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("app-1", "Mpho Ramakau", "mpho@example.com", "+26658001122", "BSCIT", "2025-AUG", "submitted", created, created))
			},
			check: func(t *testing.T, phone, intake string) {
				assert.Equal(t, "+26658001122", phone)
				assert.Equal(t, "2025-AUG", intake)
			},
		},
		{
			name: "null phone and intake",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM applications WHERE id = \$1`).
					WithArgs("app-1").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("app-1", "Mpho Ramakau", "mpho@example.com", nil, "BSCIT", nil, "submitted", created, created))
			},
			check: func(t *testing.T, phone, intake string) {
				assert.Empty(t, phone)
				assert.Empty(t, intake)
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM applications`).WithArgs("app-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			app, err := NewRepository(db).Get(context.Background(), "app-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Mpho Ramakau", app.ApplicantName)
				assert.Equal(t, "2025-07-01T08:00:00Z", app.CreatedAt)
				tt.check(t, app.Phone, app.IntakeID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
