package services

import (
	"context"
	"errors"
	"fmt"
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

// duplicatePaymentWindow is how far back the same-amount same-method
// submission heuristic looks when no idempotency key is provided.
const duplicatePaymentWindow = 60 * time.Second

// invoiceService provides invoice lifecycle operations and payment
// reconciliation. All balance math runs inside one transaction holding the
// invoice row lock, and the paid total is always recomputed from the payment
// ledger rather than incremented.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	txManager   portsrepo.TransactionManager
	tenantSvc   portssvc.TenantAuthorizerSvc
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, paymentRepo portsrepo.PaymentRepositoryFacade, txManager portsrepo.TransactionManager, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		tenantSvc:   tenantSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, tctx domain.TenantContext, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID: uuid.NewString(),
		TenantID:  tctx.TenantID,
		ClientID:  req.ClientID,
		JobID:     req.JobID,
		DueDate:   req.DueDate.UTC(),
		Status:    domain.InvoiceDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}

	var total int64
	for i, item := range req.LineItems {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewValidationError("line item quantity must be positive")
		}
		if item.UnitPriceCents < 0 {
			return nil, apperrors.NewValidationError("line item unit price cannot be negative")
		}
		lineTotal := item.Quantity.Mul(decimal.NewFromInt(item.UnitPriceCents)).Round(0).IntPart()
		invoice.LineItems = append(invoice.LineItems, domain.InvoiceLineItem{
			LineItemID:     uuid.NewString(),
			InvoiceID:      invoice.InvoiceID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     lineTotal,
			Position:       i,
		})
		total += lineTotal
	}
	invoice.TotalCents = total

	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Invoices().SaveInvoice(ctx, invoice); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityInvoice, invoice.InvoiceID, domain.ActionInsert, nil, invoice)
	})
	if err != nil {
		logger.Error("Failed to create invoice", "error", err)
		return nil, err
	}
	logger.Info("Invoice created", "invoice_id", invoice.InvoiceID, "total_cents", invoice.TotalCents)
	return &invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, tctx domain.TenantContext, invoiceID string) (*domain.Invoice, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.invoiceRepo.FindInvoiceByID(ctx, tctx.TenantID, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, tctx domain.TenantContext, params dto.ListParams) (*dto.ListInvoicesResponse, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	invoices, nextToken, err := s.invoiceRepo.ListInvoicesByTenant(ctx, tctx.TenantID, clampLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListInvoicesResponse{Invoices: invoices, NextToken: nextToken}, nil
}

func (s *invoiceService) ListPayments(ctx context.Context, tctx domain.TenantContext, invoiceID string) ([]domain.Payment, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, tctx.TenantID, invoiceID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListPaymentsByInvoiceID(ctx, tctx.TenantID, invoiceID)
}

func (s *invoiceService) TransitionInvoice(ctx context.Context, tctx domain.TenantContext, invoiceID string, target domain.InvoiceStatus) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}

	var updated *domain.Invoice
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		invoice, err := repos.Invoices().FindInvoiceByIDForUpdate(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(domain.EntityInvoice, string(invoice.Status), string(target)); err != nil {
			return err
		}
		paymentCount, err := repos.Payments().CountPaymentsByInvoiceID(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}
		if err := domain.InvoiceTransitionGuard(*invoice, target, paymentCount); err != nil {
			return err
		}
		old := *invoice

		now := time.Now().UTC()
		if err := repos.Invoices().UpdateInvoiceStatus(ctx, tctx.TenantID, invoiceID, target, tctx.ActorID, now); err != nil {
			return err
		}
		invoice.Status = target
		invoice.LastUpdatedAt = now
		invoice.LastUpdatedBy = tctx.ActorID

		if err := recordAudit(ctx, repos, tctx, domain.EntityInvoice, invoiceID, domain.ActionUpdate, old, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		logger.Warn("Invoice transition rejected", "invoice_id", invoiceID, "target", string(target), "error", err)
		return nil, err
	}
	logger.Info("Invoice transitioned", "invoice_id", invoiceID, "status", string(target))
	return updated, nil
}

// RecordPayment applies one payment to an invoice. The whole reconciliation
// runs under the invoice row lock: idempotency replay, payable check,
// amount-vs-balance check, recent-duplicate heuristic, insert, then a full
// recompute of the paid total and derived status. The replay lookup comes
// first so a retried request whose original completed the invoice still
// returns the stored payment instead of failing the payable check.
func (s *invoiceService) RecordPayment(ctx context.Context, tctx domain.TenantContext, invoiceID string, req dto.RecordPaymentRequest) (*domain.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Method.IsValid() {
		return nil, apperrors.NewValidationError("unknown payment method")
	}

	var result *domain.PaymentResult
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		invoice, err := repos.Invoices().FindInvoiceByIDForUpdate(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}

		// Replay: a payment already stored under this key is returned as-is,
		// with no re-validation. The original request may have completed the
		// invoice, so this runs before the payable and balance checks.
		if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
			existing, err := repos.Payments().FindPaymentByIdempotencyKey(ctx, tctx.TenantID, invoiceID, *req.IdempotencyKey)
			if err == nil {
				result = &domain.PaymentResult{
					Payment:       *existing,
					Created:       false,
					InvoiceStatus: invoice.Status,
					PaidCents:     invoice.PaidCents,
					BalanceCents:  invoice.BalanceCents(),
				}
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}

		if !invoice.Status.IsPayable() {
			// A payment would move the invoice toward partial or paid; from a
			// non-payable status that edge does not exist.
			target := domain.DeriveInvoiceStatus(invoice.TotalCents, invoice.PaidCents+req.AmountCents, invoice.Status)
			return apperrors.NewInvalidTransitionError(string(domain.EntityInvoice), string(invoice.Status), string(target),
				domain.AllowedTransitions(domain.EntityInvoice, string(invoice.Status)))
		}

		balance := invoice.BalanceCents()
		if req.AmountCents <= 0 {
			return apperrors.NewValidationError("payment amount must be positive")
		}
		if req.AmountCents > balance {
			return apperrors.NewValidationError(fmt.Sprintf("payment of %d cents exceeds remaining balance of %d cents", req.AmountCents, balance))
		}

		if req.IdempotencyKey == nil || *req.IdempotencyKey == "" {
			// Without a key, an identical amount and method moments ago is
			// almost certainly a double submission.
			since := time.Now().UTC().Add(-duplicatePaymentWindow)
			dup, err := repos.Payments().ExistsRecentDuplicate(ctx, tctx.TenantID, invoiceID, req.AmountCents, req.Method, since)
			if err != nil {
				return err
			}
			if dup {
				return apperrors.NewConflictError("an identical payment was recorded within the last minute; pass an idempotency key to force")
			}
		}

		now := time.Now().UTC()
		receivedAt := now
		if req.ReceivedAt != nil {
			receivedAt = req.ReceivedAt.UTC()
		}
		payment := domain.Payment{
			PaymentID:      uuid.NewString(),
			TenantID:       tctx.TenantID,
			InvoiceID:      invoiceID,
			AmountCents:    req.AmountCents,
			Method:         req.Method,
			ReceivedAt:     receivedAt,
			IdempotencyKey: req.IdempotencyKey,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     tctx.ActorID,
				LastUpdatedAt: now,
				LastUpdatedBy: tctx.ActorID,
			},
		}
		if err := repos.Payments().SavePayment(ctx, payment); err != nil {
			return err
		}

		paid, err := repos.Payments().SumPaymentsByInvoiceID(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}
		newStatus := domain.DeriveInvoiceStatus(invoice.TotalCents, paid, invoice.Status)

		var paidAt *time.Time
		if invoice.PaidAt != nil {
			paidAt = invoice.PaidAt
		} else if newStatus == domain.InvoicePaid {
			paidAt = &now
		}

		if err := repos.Invoices().ApplyPaymentTotals(ctx, tctx.TenantID, invoiceID, paid, newStatus, paidAt, tctx.ActorID, now); err != nil {
			return err
		}

		if err := recordAudit(ctx, repos, tctx, domain.EntityPayment, payment.PaymentID, domain.ActionInsert, nil, payment); err != nil {
			return err
		}
		if newStatus != invoice.Status {
			old := *invoice
			after := *invoice
			after.PaidCents = paid
			after.Status = newStatus
			after.PaidAt = paidAt
			if err := recordAudit(ctx, repos, tctx, domain.EntityInvoice, invoiceID, domain.ActionUpdate, old, after); err != nil {
				return err
			}
		}

		result = &domain.PaymentResult{
			Payment:       payment,
			Created:       true,
			InvoiceStatus: newStatus,
			PaidCents:     paid,
			BalanceCents:  invoice.TotalCents - paid,
		}
		return nil
	})
	if err != nil {
		logger.Warn("Payment rejected", "invoice_id", invoiceID, "error", err)
		return nil, err
	}
	logger.Info("Payment recorded", "invoice_id", invoiceID, "payment_id", result.Payment.PaymentID, "created", result.Created)
	return result, nil
}

// DeletePayment removes a payment and recomputes the invoice from the
// remaining ledger. Owner only; terminal invoices are immutable.
func (s *invoiceService) DeletePayment(ctx context.Context, tctx domain.TenantContext, invoiceID string, paymentID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleOwner); err != nil {
		return nil, err
	}

	var updated *domain.Invoice
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		invoice, err := repos.Invoices().FindInvoiceByIDForUpdate(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == domain.InvoiceVoid {
			return apperrors.NewImmutableEntityError("cannot modify payments on a void invoice")
		}

		payment, err := repos.Payments().FindPaymentByID(ctx, tctx.TenantID, paymentID)
		if err != nil {
			return err
		}
		if payment.InvoiceID != invoiceID {
			return apperrors.NewNotFoundError("payment not found")
		}

		if err := repos.Payments().DeletePayment(ctx, tctx.TenantID, paymentID); err != nil {
			return err
		}

		paid, err := repos.Payments().SumPaymentsByInvoiceID(ctx, tctx.TenantID, invoiceID)
		if err != nil {
			return err
		}

		// Recompute the status from scratch. Dropping below the total always
		// reopens the invoice; a paid invoice falls back to partial or sent.
		newStatus := invoice.Status
		var paidAt *time.Time
		switch {
		case invoice.TotalCents > 0 && paid >= invoice.TotalCents:
			newStatus = domain.InvoicePaid
			paidAt = invoice.PaidAt
		case paid > 0:
			newStatus = domain.InvoicePartial
		default:
			newStatus = domain.InvoiceSent
			if invoice.DueDate.Before(time.Now().UTC()) {
				newStatus = domain.InvoiceOverdue
			}
		}

		now := time.Now().UTC()
		if err := repos.Invoices().ApplyPaymentTotals(ctx, tctx.TenantID, invoiceID, paid, newStatus, paidAt, tctx.ActorID, now); err != nil {
			return err
		}

		if err := recordAudit(ctx, repos, tctx, domain.EntityPayment, paymentID, domain.ActionDelete, payment, nil); err != nil {
			return err
		}

		after := *invoice
		after.PaidCents = paid
		after.Status = newStatus
		after.PaidAt = paidAt
		after.LastUpdatedAt = now
		after.LastUpdatedBy = tctx.ActorID
		if newStatus != invoice.Status {
			if err := recordAudit(ctx, repos, tctx, domain.EntityInvoice, invoiceID, domain.ActionUpdate, *invoice, after); err != nil {
				return err
			}
		}
		updated = &after
		return nil
	})
	if err != nil {
		logger.Warn("Payment deletion rejected", "invoice_id", invoiceID, "payment_id", paymentID, "error", err)
		return nil, err
	}
	logger.Info("Payment deleted", "invoice_id", invoiceID, "payment_id", paymentID)
	return updated, nil
}
