// Package registry stores the certificate types known to the admissions
// office and their qualification levels.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"admission-workers/internal/models"
)

const (
	lookupByNameQuery = `SELECT name, lqf_level FROM certificate_types WHERE LOWER(name) = $1`
	listQuery         = `SELECT name, lqf_level FROM certificate_types ORDER BY name`
)

// PostgresRegistry reads the certificate_types table.
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// LookupByName returns nil, nil when no row matches.
func (r *PostgresRegistry) LookupByName(ctx context.Context, name string) (*models.CertificateTypeDescriptor, error) {
	row := r.db.QueryRowContext(ctx, lookupByNameQuery, normalize(name))

	descriptor, err := scanDescriptor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup certificate type %q: %w", name, err)
	}
	return descriptor, nil
}

// List returns every registered certificate type.
func (r *PostgresRegistry) List(ctx context.Context) ([]models.CertificateTypeDescriptor, error) {
	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("list certificate types: %w", err)
	}
	defer rows.Close()

	var out []models.CertificateTypeDescriptor
	for rows.Next() {
		descriptor, err := scanDescriptor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate type: %w", err)
		}
		out = append(out, *descriptor)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDescriptor(s scanner) (*models.CertificateTypeDescriptor, error) {
	var (
		name  string
		level sql.NullInt64
	)
	if err := s.Scan(&name, &level); err != nil {
		return nil, err
	}

	descriptor := &models.CertificateTypeDescriptor{Name: name}
	if level.Valid {
		descriptor.LQFLevel = models.IntPtr(int(level.Int64))
	}
	return descriptor, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
