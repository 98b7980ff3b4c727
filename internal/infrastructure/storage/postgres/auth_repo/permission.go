package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stockroom/internal/core/apperror"
	"stockroom/internal/domain/auth"
	"stockroom/internal/infrastructure/storage/postgres"
)

// PermissionRepo implements auth.PermissionRepository.
type PermissionRepo struct {
	txManager *postgres.TxManager
}

// NewPermissionRepo creates a new permission repository.
func NewPermissionRepo(txManager *postgres.TxManager) *PermissionRepo {
	return &PermissionRepo{txManager: txManager}
}

// Ensure compile-time interface compliance.
var _ auth.PermissionRepository = (*PermissionRepo)(nil)

// GetByCode retrieves permission by code.
func (r *PermissionRepo) GetByCode(ctx context.Context, code string) (*auth.Permission, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `
		SELECT id, code, name, description, resource, action
		FROM permissions WHERE code = $1
	`

	var perm auth.Permission
	err := q.QueryRow(ctx, query, code).Scan(
		&perm.ID, &perm.Code, &perm.Name, &perm.Description,
		&perm.Resource, &perm.Action,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("permission", code)
	}
	if err != nil {
		return nil, fmt.Errorf("query permission: %w", err)
	}

	return &perm, nil
}

// List retrieves all permissions.
func (r *PermissionRepo) List(ctx context.Context) ([]auth.Permission, error) {
	return r.list(ctx, `
		SELECT id, code, name, description, resource, action
		FROM permissions ORDER BY resource, action
	`)
}

// ListByResource retrieves permissions for a resource.
func (r *PermissionRepo) ListByResource(ctx context.Context, resource string) ([]auth.Permission, error) {
	return r.list(ctx, `
		SELECT id, code, name, description, resource, action
		FROM permissions WHERE resource = $1 ORDER BY action
	`, resource)
}

// Upsert inserts or updates a permission by code. Used by the seeder.
func (r *PermissionRepo) Upsert(ctx context.Context, perm *auth.Permission) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO permissions (id, code, name, description, resource, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			resource = EXCLUDED.resource,
			action = EXCLUDED.action
	`

	_, err := q.Exec(ctx, query,
		perm.ID, perm.Code, perm.Name, perm.Description, perm.Resource, perm.Action)
	if err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}

	return nil
}

func (r *PermissionRepo) list(ctx context.Context, query string, args ...interface{}) ([]auth.Permission, error) {
	q := r.txManager.GetQuerier(ctx)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	var permissions []auth.Permission
	for rows.Next() {
		var perm auth.Permission
		err := rows.Scan(
			&perm.ID, &perm.Code, &perm.Name, &perm.Description,
			&perm.Resource, &perm.Action,
		)
		if err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		permissions = append(permissions, perm)
	}

	return permissions, nil
}
