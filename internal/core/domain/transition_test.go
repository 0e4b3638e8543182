package domain_test

import (
	"testing"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = map[domain.EntityType][]string{
	domain.EntityJob: {
		string(domain.JobDraft), string(domain.JobQuoted), string(domain.JobScheduled),
		string(domain.JobInProgress), string(domain.JobCompleted), string(domain.JobInvoiced),
		string(domain.JobCancelled),
	},
	domain.EntityVisit: {
		string(domain.VisitScheduled), string(domain.VisitArrived), string(domain.VisitInProgress),
		string(domain.VisitCompleted), string(domain.VisitCancelled),
	},
	domain.EntityEstimate: {
		string(domain.EstimateDraft), string(domain.EstimateSent), string(domain.EstimateApproved),
		string(domain.EstimateDeclined), string(domain.EstimateExpired),
	},
	domain.EntityInvoice: {
		string(domain.InvoiceDraft), string(domain.InvoiceSent), string(domain.InvoicePartial),
		string(domain.InvoicePaid), string(domain.InvoiceOverdue), string(domain.InvoiceVoid),
	},
}

func TestCanTransition_LegalEdges(t *testing.T) {
	tests := []struct {
		entityType domain.EntityType
		from, to   string
	}{
		{domain.EntityJob, "draft", "quoted"},
		{domain.EntityJob, "draft", "scheduled"},
		{domain.EntityJob, "completed", "invoiced"},
		{domain.EntityJob, "in_progress", "cancelled"},
		{domain.EntityVisit, "scheduled", "arrived"},
		{domain.EntityVisit, "arrived", "in_progress"},
		{domain.EntityEstimate, "draft", "sent"},
		{domain.EntityEstimate, "sent", "approved"},
		{domain.EntityInvoice, "draft", "sent"},
		{domain.EntityInvoice, "sent", "overdue"},
		{domain.EntityInvoice, "overdue", "paid"},
	}
	for _, tt := range tests {
		assert.True(t, domain.CanTransition(tt.entityType, tt.from, tt.to),
			"%s: %s -> %s should be legal", tt.entityType, tt.from, tt.to)
	}
}

func TestCanTransition_IllegalEdges(t *testing.T) {
	tests := []struct {
		entityType domain.EntityType
		from, to   string
	}{
		{domain.EntityJob, "draft", "completed"},
		{domain.EntityJob, "invoiced", "draft"},
		{domain.EntityJob, "cancelled", "scheduled"},
		{domain.EntityVisit, "scheduled", "completed"},
		{domain.EntityVisit, "completed", "scheduled"},
		{domain.EntityEstimate, "approved", "draft"},
		{domain.EntityEstimate, "draft", "approved"},
		{domain.EntityInvoice, "paid", "sent"},
		{domain.EntityInvoice, "void", "sent"},
		{domain.EntityInvoice, "draft", "partial"},
	}
	for _, tt := range tests {
		assert.False(t, domain.CanTransition(tt.entityType, tt.from, tt.to),
			"%s: %s -> %s should be rejected", tt.entityType, tt.from, tt.to)
	}
}

// Every (from, to) pair not present in a type's table must be rejected, and
// CheckTransition must surface an InvalidTransitionError carrying the allowed set.
func TestCheckTransition_ExhaustiveNonEdges(t *testing.T) {
	for entityType, statuses := range allStatuses {
		for _, from := range statuses {
			allowed := domain.AllowedTransitions(entityType, from)
			allowedSet := make(map[string]bool, len(allowed))
			for _, s := range allowed {
				allowedSet[s] = true
			}
			for _, to := range statuses {
				if allowedSet[to] {
					continue
				}
				err := domain.CheckTransition(entityType, from, to)
				require.Error(t, err, "%s: %s -> %s", entityType, from, to)
				var ite *apperrors.InvalidTransitionError
				require.ErrorAs(t, err, &ite)
				assert.Equal(t, from, ite.From)
				assert.Equal(t, to, ite.To)
				assert.ElementsMatch(t, allowed, ite.Allowed)
			}
		}
	}
}

func TestAllowedTransitions_TerminalStatusesAreEmpty(t *testing.T) {
	terminals := []struct {
		entityType domain.EntityType
		status     string
	}{
		{domain.EntityJob, "invoiced"},
		{domain.EntityJob, "cancelled"},
		{domain.EntityVisit, "completed"},
		{domain.EntityVisit, "cancelled"},
		{domain.EntityEstimate, "approved"},
		{domain.EntityEstimate, "declined"},
		{domain.EntityEstimate, "expired"},
		{domain.EntityInvoice, "paid"},
		{domain.EntityInvoice, "void"},
	}
	for _, tt := range terminals {
		assert.Empty(t, domain.AllowedTransitions(tt.entityType, tt.status),
			"%s %s should have no outgoing edges", tt.entityType, tt.status)
	}
}

func TestVisitTransitionGuard(t *testing.T) {
	assignee := "tech-1"

	err := domain.VisitTransitionGuard(domain.Visit{Status: domain.VisitScheduled}, domain.VisitArrived)
	var pfe *apperrors.PreconditionFailedError
	require.ErrorAs(t, err, &pfe)

	err = domain.VisitTransitionGuard(domain.Visit{Status: domain.VisitScheduled, AssigneeID: &assignee}, domain.VisitArrived)
	assert.NoError(t, err)

	// Guard only applies to arrival
	err = domain.VisitTransitionGuard(domain.Visit{Status: domain.VisitScheduled}, domain.VisitCancelled)
	assert.NoError(t, err)
}

func TestInvoiceTransitionGuard(t *testing.T) {
	inv := domain.Invoice{TotalCents: 10000}

	assert.NoError(t, domain.InvoiceTransitionGuard(inv, domain.InvoiceVoid, 0))

	err := domain.InvoiceTransitionGuard(inv, domain.InvoiceVoid, 2)
	var pfe *apperrors.PreconditionFailedError
	require.ErrorAs(t, err, &pfe)

	err = domain.InvoiceTransitionGuard(domain.Invoice{TotalCents: 0}, domain.InvoiceSent, 0)
	require.ErrorAs(t, err, &pfe)
}
