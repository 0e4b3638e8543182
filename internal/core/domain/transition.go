package domain

import (
	"github.com/fieldsrv/field_service_app/internal/apperrors"
)

// transitionTables holds the legal status edges per entity type. The tables
// are static: they are the application-side authority, and the storage-layer
// trigger in migrations/000002_transition_guards.up.sql mirrors the same
// edge list as defense in depth. Terminal statuses have no entry, which is
// equivalent to an empty allowed set.
var transitionTables = map[EntityType]map[string][]string{
	EntityJob: {
		string(JobDraft):      {string(JobQuoted), string(JobScheduled), string(JobCancelled)},
		string(JobQuoted):     {string(JobScheduled), string(JobCancelled)},
		string(JobScheduled):  {string(JobInProgress), string(JobCancelled)},
		string(JobInProgress): {string(JobCompleted), string(JobCancelled)},
		string(JobCompleted):  {string(JobInvoiced)},
		string(JobInvoiced):   {},
		string(JobCancelled):  {},
	},
	EntityVisit: {
		string(VisitScheduled):  {string(VisitArrived), string(VisitCancelled)},
		string(VisitArrived):    {string(VisitInProgress), string(VisitCancelled)},
		string(VisitInProgress): {string(VisitCompleted), string(VisitCancelled)},
		string(VisitCompleted):  {},
		string(VisitCancelled):  {},
	},
	EntityEstimate: {
		string(EstimateDraft):    {string(EstimateSent)},
		string(EstimateSent):     {string(EstimateApproved), string(EstimateDeclined), string(EstimateExpired)},
		string(EstimateApproved): {},
		string(EstimateDeclined): {},
		string(EstimateExpired):  {},
	},
	EntityInvoice: {
		string(InvoiceDraft):   {string(InvoiceSent), string(InvoiceVoid)},
		string(InvoiceSent):    {string(InvoicePartial), string(InvoicePaid), string(InvoiceOverdue), string(InvoiceVoid)},
		string(InvoicePartial): {string(InvoicePaid), string(InvoiceOverdue), string(InvoiceVoid)},
		string(InvoiceOverdue): {string(InvoicePartial), string(InvoicePaid), string(InvoiceVoid)},
		string(InvoicePaid):    {},
		string(InvoiceVoid):    {},
	},
}

// AllowedTransitions returns the set of statuses reachable from the given
// status for the entity type. Unknown types or statuses yield an empty set.
func AllowedTransitions(entityType EntityType, from string) []string {
	table, ok := transitionTables[entityType]
	if !ok {
		return nil
	}
	allowed := table[from]
	if len(allowed) == 0 {
		return nil
	}
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether (from -> to) is a legal edge for the entity type.
func CanTransition(entityType EntityType, from, to string) bool {
	table, ok := transitionTables[entityType]
	if !ok {
		return false
	}
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidTransitionError when (from -> to) is not a
// legal edge. It must be called before any row is written.
func CheckTransition(entityType EntityType, from, to string) error {
	if !CanTransition(entityType, from, to) {
		return apperrors.NewInvalidTransitionError(string(entityType), from, to, AllowedTransitions(entityType, from))
	}
	return nil
}

// VisitTransitionGuard evaluates guard predicates that go beyond edge
// legality. A structurally legal visit transition can still be rejected here.
func VisitTransitionGuard(v Visit, to VisitStatus) error {
	if to == VisitArrived && (v.AssigneeID == nil || *v.AssigneeID == "") {
		return apperrors.NewPreconditionFailedError("visit requires an assigned technician before arrival")
	}
	return nil
}

// InvoiceTransitionGuard evaluates guard predicates for invoice transitions.
// paymentCount is the number of payments recorded against the invoice.
func InvoiceTransitionGuard(inv Invoice, to InvoiceStatus, paymentCount int) error {
	if to == InvoiceVoid && paymentCount > 0 {
		return apperrors.NewPreconditionFailedError("invoice with recorded payments cannot be voided")
	}
	if to == InvoiceSent && inv.TotalCents <= 0 {
		return apperrors.NewPreconditionFailedError("invoice total must be positive before sending")
	}
	return nil
}

// EstimateTransitionGuard evaluates guard predicates for estimate transitions.
func EstimateTransitionGuard(e Estimate, to EstimateStatus) error {
	if to == EstimateSent && len(e.LineItems) == 0 {
		return apperrors.NewPreconditionFailedError("estimate requires at least one line item before sending")
	}
	return nil
}
