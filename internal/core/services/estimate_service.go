package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
)

// estimateService provides estimate lifecycle operations, including the
// one-time conversion of an approved estimate into a draft invoice.
type estimateService struct {
	estimateRepo portsrepo.EstimateRepository
	txManager    portsrepo.TransactionManager
	tenantSvc    portssvc.TenantAuthorizerSvc
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(estimateRepo portsrepo.EstimateRepository, txManager portsrepo.TransactionManager, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.EstimateSvcFacade {
	return &estimateService{
		estimateRepo: estimateRepo,
		txManager:    txManager,
		tenantSvc:    tenantSvc,
	}
}

var _ portssvc.EstimateSvcFacade = (*estimateService)(nil)

// buildLineItems validates and converts request line items, assigning IDs and
// positions in request order.
func buildLineItems(estimateID string, items []dto.LineItemRequest) ([]domain.EstimateLineItem, error) {
	out := make([]domain.EstimateLineItem, 0, len(items))
	for i, item := range items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationError("line item quantity must be positive")
		}
		if item.UnitPriceCents < 0 {
			return nil, apperrors.NewValidationError("line item unit price cannot be negative")
		}
		out = append(out, domain.EstimateLineItem{
			LineItemID:     uuid.NewString(),
			EstimateID:     estimateID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			Position:       i,
		})
	}
	return out, nil
}

func (s *estimateService) CreateEstimate(ctx context.Context, tctx domain.TenantContext, req dto.CreateEstimateRequest) (*domain.Estimate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	estimate := domain.Estimate{
		EstimateID: uuid.NewString(),
		TenantID:   tctx.TenantID,
		ClientID:   req.ClientID,
		JobID:      req.JobID,
		TaxRateBPS: req.TaxRateBPS,
		Notes:      req.Notes,
		Status:     domain.EstimateDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}
	items, err := buildLineItems(estimate.EstimateID, req.LineItems)
	if err != nil {
		return nil, err
	}
	estimate.LineItems = items
	estimate.RecalculateTotals()

	err = s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Estimates().SaveEstimate(ctx, estimate); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityEstimate, estimate.EstimateID, domain.ActionInsert, nil, estimate)
	})
	if err != nil {
		logger.Error("Failed to create estimate", "error", err)
		return nil, err
	}
	logger.Info("Estimate created", "estimate_id", estimate.EstimateID, "total_cents", estimate.TotalCents)
	return &estimate, nil
}

func (s *estimateService) GetEstimateByID(ctx context.Context, tctx domain.TenantContext, estimateID string) (*domain.Estimate, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.estimateRepo.FindEstimateByID(ctx, tctx.TenantID, estimateID)
}

func (s *estimateService) ListEstimates(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListEstimatesResponse, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	estimates, nextToken, err := s.estimateRepo.ListEstimatesByTenant(ctx, tctx.TenantID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListEstimatesResponse{Estimates: estimates, NextToken: nextToken}, nil
}

func (s *estimateService) UpdateEstimateItems(ctx context.Context, tctx domain.TenantContext, estimateID string, req dto.UpdateEstimateItemsRequest) (*domain.Estimate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Estimate
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		estimate, err := repos.Estimates().FindEstimateByIDForUpdate(ctx, tctx.TenantID, estimateID)
		if err != nil {
			return err
		}
		if estimate.Status != domain.EstimateDraft {
			return apperrors.NewImmutableEntityError("line items are frozen once an estimate is sent")
		}
		old := *estimate

		items, err := buildLineItems(estimateID, req.LineItems)
		if err != nil {
			return err
		}
		estimate.LineItems = items
		if req.TaxRateBPS != nil {
			estimate.TaxRateBPS = *req.TaxRateBPS
		}
		estimate.RecalculateTotals()
		estimate.LastUpdatedAt = time.Now().UTC()
		estimate.LastUpdatedBy = tctx.ActorID

		if err := repos.Estimates().ReplaceLineItems(ctx, *estimate); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, tctx, domain.EntityEstimate, estimateID, domain.ActionUpdate, old, estimate); err != nil {
			return err
		}
		updated = estimate
		return nil
	})
	if err != nil {
		logger.Error("Failed to update estimate items", "estimate_id", estimateID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *estimateService) UpdateEstimateNotes(ctx context.Context, tctx domain.TenantContext, estimateID string, notes string) (*domain.Estimate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Estimate
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		estimate, err := repos.Estimates().FindEstimateByIDForUpdate(ctx, tctx.TenantID, estimateID)
		if err != nil {
			return err
		}
		// Notes stay editable after sending; terminal estimates are frozen.
		switch estimate.Status {
		case domain.EstimateDeclined, domain.EstimateExpired:
			return apperrors.NewImmutableEntityError("cannot edit a " + string(estimate.Status) + " estimate")
		}
		old := *estimate

		now := time.Now().UTC()
		if err := repos.Estimates().UpdateEstimateNotes(ctx, tctx.TenantID, estimateID, notes, tctx.ActorID, now); err != nil {
			return err
		}
		estimate.Notes = notes
		estimate.LastUpdatedAt = now
		estimate.LastUpdatedBy = tctx.ActorID

		if err := recordAudit(ctx, repos, tctx, domain.EntityEstimate, estimateID, domain.ActionUpdate, old, estimate); err != nil {
			return err
		}
		updated = estimate
		return nil
	})
	if err != nil {
		logger.Error("Failed to update estimate notes", "estimate_id", estimateID, "error", err)
		return nil, err
	}
	return updated, nil
}

func (s *estimateService) TransitionEstimate(ctx context.Context, tctx domain.TenantContext, estimateID string, target domain.EstimateStatus) (*domain.Estimate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Estimate
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		estimate, err := repos.Estimates().FindEstimateByIDForUpdate(ctx, tctx.TenantID, estimateID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(domain.EntityEstimate, string(estimate.Status), string(target)); err != nil {
			return err
		}
		if err := domain.EstimateTransitionGuard(*estimate, target); err != nil {
			return err
		}
		old := *estimate

		now := time.Now().UTC()
		if err := repos.Estimates().UpdateEstimateStatus(ctx, tctx.TenantID, estimateID, target, tctx.ActorID, now); err != nil {
			return err
		}
		estimate.Status = target
		estimate.LastUpdatedAt = now
		estimate.LastUpdatedBy = tctx.ActorID

		if err := recordAudit(ctx, repos, tctx, domain.EntityEstimate, estimateID, domain.ActionUpdate, old, estimate); err != nil {
			return err
		}
		updated = estimate
		return nil
	})
	if err != nil {
		logger.Warn("Estimate transition rejected", "estimate_id", estimateID, "target", string(target), "error", err)
		return nil, err
	}
	logger.Info("Estimate transitioned", "estimate_id", estimateID, "status", string(target))
	return updated, nil
}

// ConvertToInvoice snapshots an approved estimate into a draft invoice. Each
// line carries a back-reference to its source line, and the estimate records
// the invoice ID so a second conversion attempt fails.
func (s *estimateService) ConvertToInvoice(ctx context.Context, tctx domain.TenantContext, estimateID string, dueDate time.Time) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var invoice *domain.Invoice
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		estimate, err := repos.Estimates().FindEstimateByIDForUpdate(ctx, tctx.TenantID, estimateID)
		if err != nil {
			return err
		}
		if estimate.Status != domain.EstimateApproved {
			return apperrors.NewConflictError("only approved estimates can be converted to invoices")
		}
		if estimate.ConvertedInvoiceID != nil {
			return apperrors.NewConflictError("estimate already converted to an invoice")
		}

		now := time.Now().UTC()
		inv := domain.Invoice{
			InvoiceID:  uuid.NewString(),
			TenantID:   tctx.TenantID,
			ClientID:   estimate.ClientID,
			JobID:      estimate.JobID,
			EstimateID: &estimate.EstimateID,
			TotalCents: estimate.TotalCents,
			DueDate:    dueDate.UTC(),
			Status:     domain.InvoiceDraft,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     tctx.ActorID,
				LastUpdatedAt: now,
				LastUpdatedBy: tctx.ActorID,
			},
		}
		for _, item := range estimate.LineItems {
			sourceID := item.LineItemID
			inv.LineItems = append(inv.LineItems, domain.InvoiceLineItem{
				LineItemID:       uuid.NewString(),
				InvoiceID:        inv.InvoiceID,
				SourceLineItemID: &sourceID,
				Description:      item.Description,
				Quantity:         item.Quantity,
				UnitPriceCents:   item.UnitPriceCents,
				TotalCents:       item.TotalCents,
				Position:         item.Position,
			})
		}

		if err := repos.Invoices().SaveInvoice(ctx, inv); err != nil {
			return err
		}
		if err := repos.Estimates().SetConvertedInvoice(ctx, tctx.TenantID, estimateID, inv.InvoiceID, tctx.ActorID, now); err != nil {
			return err
		}
		if err := recordAudit(ctx, repos, tctx, domain.EntityInvoice, inv.InvoiceID, domain.ActionInsert, nil, inv); err != nil {
			return err
		}
		invoice = &inv
		return nil
	})
	if err != nil {
		logger.Warn("Estimate conversion rejected", "estimate_id", estimateID, "error", err)
		return nil, err
	}
	logger.Info("Estimate converted", "estimate_id", estimateID, "invoice_id", invoice.InvoiceID)
	return invoice, nil
}
