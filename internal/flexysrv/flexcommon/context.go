// Package flexcommon provides context management and ID generation
// utilities shared across the flexy server components.
package flexcommon

import (
	"context"

	"github.com/hemanthpathath/flexy-db/pkg/types"
)

// ctxKeyType represents the type for all context keys
type ctxKeyType string

const (
	ctxTenantIdKey    ctxKeyType = "FlexyTenantId"
	ctxTestContextKey ctxKeyType = "FlexyTestContext"
)

// SetTenantIdInContext sets the tenant ID in the provided context.
func SetTenantIdInContext(ctx context.Context, tenantId types.TenantId) context.Context {
	return context.WithValue(ctx, ctxTenantIdKey, tenantId)
}

// TenantIdFromContext retrieves the tenant ID from the provided context.
func TenantIdFromContext(ctx context.Context) types.TenantId {
	if tenantId, ok := ctx.Value(ctxTenantIdKey).(types.TenantId); ok {
		return tenantId
	}
	return ""
}

// SetTestContext sets the test context flag in the provided context.
func SetTestContext(ctx context.Context, b bool) context.Context {
	return context.WithValue(ctx, ctxTestContextKey, b)
}

// TestContextFromContext retrieves the test context flag from the provided context.
func TestContextFromContext(ctx context.Context) bool {
	if testContext, ok := ctx.Value(ctxTestContextKey).(bool); ok {
		return testContext
	}
	return false
}
