package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	portssvc "github.com/fieldsrv/field_service_app/internal/core/ports/services"
	"github.com/fieldsrv/field_service_app/internal/dto"
	"github.com/fieldsrv/field_service_app/internal/middleware"
	"github.com/fieldsrv/field_service_app/internal/utils/cadence"
)

// dueBatchLimit caps how many definitions one tick picks up.
const dueBatchLimit = 100

// automationService manages automation definitions and runs the dispatcher
// loop that turns due definitions into audit-ledger events. The ledger's
// dedupe keys make every dispatch idempotent: re-running a tick emits nothing
// new.
type automationService struct {
	automationRepo portsrepo.AutomationRepository
	txManager      portsrepo.TransactionManager
	tenantSvc      portssvc.TenantAuthorizerSvc
	logger         *slog.Logger
	pollInterval   time.Duration
	runBackoff     time.Duration
	now            func() time.Time
}

// NewAutomationService creates a new AutomationService. pollInterval drives
// the RunForever ticker; runBackoff is the constant delay written into
// next_run_at after each evaluation.
func NewAutomationService(automationRepo portsrepo.AutomationRepository, txManager portsrepo.TransactionManager, tenantSvc portssvc.TenantAuthorizerSvc, logger *slog.Logger, pollInterval, runBackoff time.Duration) portssvc.AutomationSvcFacade {
	return &automationService{
		automationRepo: automationRepo,
		txManager:      txManager,
		tenantSvc:      tenantSvc,
		logger:         logger,
		pollInterval:   pollInterval,
		runBackoff:     runBackoff,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.AutomationSvcFacade = (*automationService)(nil)

func (s *automationService) CreateAutomation(ctx context.Context, tctx domain.TenantContext, req dto.CreateAutomationRequest) (*domain.AutomationDefinition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	def := domain.AutomationDefinition{
		AutomationID:    uuid.NewString(),
		TenantID:        tctx.TenantID,
		Type:            req.Type,
		Enabled:         req.Enabled,
		VisitReminder:   req.VisitReminder,
		InvoiceFollowup: req.InvoiceFollowup,
		NextRunAt:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     tctx.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: tctx.ActorID,
		},
	}
	if err := def.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Automations().SaveAutomation(ctx, def); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityAutomation, def.AutomationID, domain.ActionInsert, nil, def)
	})
	if err != nil {
		logger.Error("Failed to create automation", "error", err)
		return nil, err
	}
	logger.Info("Automation created", "automation_id", def.AutomationID, "type", string(def.Type))
	return &def, nil
}

func (s *automationService) GetAutomationByID(ctx context.Context, tctx domain.TenantContext, automationID string) (*domain.AutomationDefinition, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.automationRepo.FindAutomationByID(ctx, tctx.TenantID, automationID)
}

func (s *automationService) ListAutomations(ctx context.Context, tctx domain.TenantContext) ([]domain.AutomationDefinition, error) {
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.automationRepo.ListAutomationsByTenant(ctx, tctx.TenantID)
}

func (s *automationService) UpdateAutomation(ctx context.Context, tctx domain.TenantContext, automationID string, req dto.UpdateAutomationRequest) (*domain.AutomationDefinition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.tenantSvc.AuthorizeActorAction(ctx, tctx, domain.RoleAdmin); err != nil {
		return nil, err
	}

	def, err := s.automationRepo.FindAutomationByID(ctx, tctx.TenantID, automationID)
	if err != nil {
		return nil, err
	}
	old := *def

	if req.Enabled != nil {
		def.Enabled = *req.Enabled
	}
	if req.VisitReminder != nil {
		def.VisitReminder = req.VisitReminder
	}
	if req.InvoiceFollowup != nil {
		def.InvoiceFollowup = req.InvoiceFollowup
	}
	if err := def.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	def.LastUpdatedAt = s.now()
	def.LastUpdatedBy = tctx.ActorID

	err = s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if err := repos.Automations().UpdateAutomation(ctx, *def); err != nil {
			return err
		}
		return recordAudit(ctx, repos, tctx, domain.EntityAutomation, automationID, domain.ActionUpdate, old, def)
	})
	if err != nil {
		logger.Error("Failed to update automation", "automation_id", automationID, "error", err)
		return nil, err
	}
	return def, nil
}

// RunForever polls for due automations until the context is cancelled.
func (s *automationService) RunForever(ctx context.Context) {
	s.logger.Info("Automation dispatcher started", slog.Duration("poll_interval", s.pollInterval))
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Automation dispatcher stopped")
			return
		case <-ticker.C:
			if dispatched, err := s.ProcessDue(ctx); err != nil {
				s.logger.Error("Automation tick failed", "error", err)
			} else if dispatched > 0 {
				s.logger.Info("Automation tick completed", slog.Int("dispatched", dispatched))
			}
		}
	}
}

// ProcessDue evaluates every due definition once. A failing definition is
// logged and skipped so one tenant cannot block the rest of the batch, and
// its schedule still advances so it retries next tick rather than spinning.
func (s *automationService) ProcessDue(ctx context.Context) (int, error) {
	now := s.now()
	defs, err := s.automationRepo.FindDueAutomations(ctx, now, dueBatchLimit)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, def := range defs {
		dispatched, err := s.processDefinition(ctx, def, now)
		if err != nil {
			s.logger.Error("Automation evaluation failed",
				slog.String("automation_id", def.AutomationID),
				slog.String("tenant_id", def.TenantID),
				slog.String("error", err.Error()),
			)
		}
		total += dispatched

		// Bookkeeping runs even after a failed evaluation. If the write
		// itself fails, the definition stays due and retries next tick.
		if err := s.automationRepo.UpdateRunTimestamps(ctx, def.AutomationID, now, now.Add(s.runBackoff)); err != nil {
			s.logger.Error("Failed to advance automation schedule",
				slog.String("automation_id", def.AutomationID),
				slog.String("error", err.Error()),
			)
		}
	}
	return total, nil
}

func (s *automationService) processDefinition(ctx context.Context, def domain.AutomationDefinition, now time.Time) (int, error) {
	tctx := domain.SystemContext(def.TenantID, uuid.NewString())
	switch def.Type {
	case domain.AutomationVisitReminder:
		return s.processVisitReminders(ctx, tctx, def, now)
	case domain.AutomationInvoiceFollowup:
		return s.processInvoiceFollowups(ctx, tctx, def, now)
	default:
		return 0, apperrors.NewValidationError("unknown automation type " + string(def.Type))
	}
}

// processVisitReminders emits one reminder event per scheduled visit whose
// start falls within the configured lead window. The visit_reminder dedupe
// key suppresses repeats across ticks. Each visit gets its own transaction;
// a Postgres error aborts the whole enclosing transaction, so sharing one
// across targets would let a single failure roll back every emitted event.
func (s *automationService) processVisitReminders(ctx context.Context, tctx domain.TenantContext, def domain.AutomationDefinition, now time.Time) (int, error) {
	window := time.Duration(def.VisitReminder.HoursBefore) * time.Hour

	var visits []domain.Visit
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		visits, err = repos.Visits().ListScheduledVisitsStartingBetween(ctx, tctx.TenantID, now, now.Add(window))
		return err
	})
	if err != nil {
		return 0, err
	}

	dispatched := 0
	failed := 0
	for _, visit := range visits {
		if !cadence.WithinWindow(now, visit.ScheduledStart, window) {
			continue
		}
		var sent bool
		err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			var err error
			sent, err = s.emitEvent(ctx, repos, tctx, domain.EntityVisit, visit.VisitID, domain.VisitReminderDedupeKey, visit, now)
			return err
		})
		if err != nil {
			failed++
			s.logger.Error("Visit reminder failed",
				slog.String("visit_id", visit.VisitID),
				slog.String("tenant_id", tctx.TenantID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if sent {
			dispatched++
		}
	}
	if failed > 0 {
		s.logger.Warn("Visit reminder batch had failures", slog.Int("failed", failed), slog.String("automation_id", def.AutomationID))
	}
	return dispatched, nil
}

// processInvoiceFollowups emits one event per newly crossed overdue cadence
// step and flips still-open invoices to overdue through the transition table.
// One transaction per invoice: the flip and that invoice's step events commit
// or roll back together, and a failing invoice cannot abort its neighbours.
func (s *automationService) processInvoiceFollowups(ctx context.Context, tctx domain.TenantContext, def domain.AutomationDefinition, now time.Time) (int, error) {
	steps := def.InvoiceFollowup.DaysOverdueSteps

	var invoices []domain.Invoice
	err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		invoices, err = repos.Invoices().ListPayableInvoicesPastDue(ctx, tctx.TenantID, now)
		return err
	})
	if err != nil {
		return 0, err
	}

	dispatched := 0
	failed := 0
	for _, invoice := range invoices {
		sent := 0
		err := s.txManager.WithTenantTx(ctx, tctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			// Flip open invoices to overdue when the table allows the edge.
			if invoice.Status != domain.InvoiceOverdue && domain.CanTransition(domain.EntityInvoice, string(invoice.Status), string(domain.InvoiceOverdue)) {
				if err := repos.Invoices().UpdateInvoiceStatus(ctx, tctx.TenantID, invoice.InvoiceID, domain.InvoiceOverdue, tctx.ActorID, now); err != nil {
					return err
				}
			}
			for _, step := range cadence.CrossedSteps(now, invoice.DueDate, 24*time.Hour, steps) {
				emitted, err := s.emitEvent(ctx, repos, tctx, domain.EntityInvoice, invoice.InvoiceID, domain.InvoiceFollowupDedupeKey(step), invoice, now)
				if err != nil {
					return err
				}
				if emitted {
					sent++
				}
			}
			return nil
		})
		if err != nil {
			failed++
			s.logger.Error("Invoice followup failed",
				slog.String("invoice_id", invoice.InvoiceID),
				slog.String("tenant_id", tctx.TenantID),
				slog.String("error", err.Error()),
			)
			continue
		}
		dispatched += sent
	}
	if failed > 0 {
		s.logger.Warn("Invoice followup batch had failures", slog.Int("failed", failed), slog.String("automation_id", def.AutomationID))
	}
	return dispatched, nil
}

// emitEvent appends one automation event unless the dedupe key already has an
// entry. Callers run it inside a per-target transaction; the unique index
// closes the exists-then-append race, surfacing as ErrDuplicate which is
// treated as already-sent.
func (s *automationService) emitEvent(ctx context.Context, repos portsrepo.TxRepositories, tctx domain.TenantContext, entityType domain.EntityType, entityID, dedupeKey string, payload any, now time.Time) (bool, error) {
	exists, err := repos.Audit().ExistsEntry(ctx, tctx.TenantID, entityType, entityID, dedupeKey)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	entry := domain.AuditLogEntry{
		EntryID:    uuid.NewString(),
		TenantID:   tctx.TenantID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     domain.ActionAutomation,
		ActorID:    tctx.ActorID,
		DedupeKey:  &dedupeKey,
		TraceID:    tctx.TraceID,
		CreatedAt:  now,
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return false, err
		}
		entry.NewValue = b
	}
	if err := repos.Audit().AppendEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
