// Package audit provides helpers for stamping created_by/updated_by fields
// from the authenticated user in context.
package audit

import (
	"context"

	appctx "stockroom/internal/core/context"
)

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// No-op when the context carries no user (seeders, tests).
func EnrichCreatedBy(ctx context.Context, createdBy, updatedBy *string) {
	uid := appctx.GetUserID(ctx)
	if uid != "" && createdBy != nil && updatedBy != nil {
		*createdBy = uid
		*updatedBy = uid
	}
}

// EnrichUpdatedBy sets only UpdatedBy from the context user.
func EnrichUpdatedBy(ctx context.Context, updatedBy *string) {
	uid := appctx.GetUserID(ctx)
	if uid != "" && updatedBy != nil {
		*updatedBy = uid
	}
}
