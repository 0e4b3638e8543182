package middleware

import (
	"context"

	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// tenantCtxKey is the key used to store the resolved tenant context in the
// request context.
const tenantCtxKey = contextKey("tenantContext")

// WithTenantContext returns a context carrying the tenant context.
func WithTenantContext(ctx context.Context, tctx domain.TenantContext) context.Context {
	return context.WithValue(ctx, tenantCtxKey, tctx)
}

// GetTenantContextFromCtx retrieves the tenant context established by the
// auth middleware. The boolean reports whether one was found.
func GetTenantContextFromCtx(ctx context.Context) (domain.TenantContext, bool) {
	tctx, ok := ctx.Value(tenantCtxKey).(domain.TenantContext)
	return tctx, ok
}

// GetTenantContext is the Gin-flavored accessor used by handlers.
func GetTenantContext(c *gin.Context) (domain.TenantContext, bool) {
	return GetTenantContextFromCtx(c.Request.Context())
}
