package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles HTTP requests related to tenants and memberships.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: tenantService}
}

func registerTenantRoutes(rg *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	h := newTenantHandler(tenantService)

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("/:tenantID", h.getTenant)
		tenants.GET("/:tenantID/members", h.listMembers)
		tenants.POST("/:tenantID/members", h.addMember)
	}
}

func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, tctx.ActorID)
	if err != nil {
		respondWithError(c, logger, err, "create tenant")
		return
	}

	logger.Info("Tenant created", slog.String("tenant_id", tenant.TenantID))
	c.JSON(http.StatusCreated, tenant)
}

func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tctx, tenantID)
	if err != nil {
		respondWithError(c, logger, err, "get tenant")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *tenantHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if c.Param("tenantID") != tctx.TenantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	members, err := h.tenantService.ListMembers(c.Request.Context(), tctx)
	if err != nil {
		respondWithError(c, logger, err, "list members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *tenantHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tctx, ok := middleware.GetTenantContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if c.Param("tenantID") != tctx.TenantID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), tctx, req)
	if err != nil {
		respondWithError(c, logger, err, "add member")
		return
	}

	logger.Info("Member added", slog.String("actor_id", membership.ActorID), slog.String("role", string(membership.Role)))
	c.JSON(http.StatusCreated, membership)
}
