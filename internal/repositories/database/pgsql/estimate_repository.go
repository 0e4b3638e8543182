package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/fieldsrv/field_service_app/internal/apperrors"
	"github.com/fieldsrv/field_service_app/internal/core/domain"
	portsrepo "github.com/fieldsrv/field_service_app/internal/core/ports/repositories"
	"github.com/fieldsrv/field_service_app/internal/models"
	"github.com/fieldsrv/field_service_app/internal/utils/mapping"
	"github.com/fieldsrv/field_service_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const estimateColumns = `estimate_id, tenant_id, client_id, job_id, status, notes, tax_rate_bps, subtotal_cents, tax_cents, total_cents, converted_invoice_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxEstimateRepository struct {
	db Querier
}

func newPgxEstimateRepository(db Querier) portsrepo.EstimateRepository {
	return &PgxEstimateRepository{db: db}
}

var _ portsrepo.EstimateRepository = (*PgxEstimateRepository)(nil)

func scanEstimateRow(row pgx.Row) (*models.Estimate, error) {
	var m models.Estimate
	err := row.Scan(
		&m.EstimateID, &m.TenantID, &m.ClientID, &m.JobID, &m.Status, &m.Notes,
		&m.TaxRateBPS, &m.SubtotalCents, &m.TaxCents, &m.TotalCents, &m.ConvertedInvoiceID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("estimate not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan estimate", err)
	}
	return &m, nil
}

func (r *PgxEstimateRepository) SaveEstimate(ctx context.Context, estimate domain.Estimate) error {
	m := mapping.ToModelEstimate(estimate)
	query := `
		INSERT INTO estimates (` + estimateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.EstimateID, m.TenantID, m.ClientID, m.JobID, m.Status, m.Notes,
		m.TaxRateBPS, m.SubtotalCents, m.TaxCents, m.TotalCents, m.ConvertedInvoiceID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert estimate "+m.EstimateID, err)
	}
	return r.insertLineItems(ctx, estimate)
}

func (r *PgxEstimateRepository) insertLineItems(ctx context.Context, estimate domain.Estimate) error {
	query := `
		INSERT INTO estimate_line_items (line_item_id, estimate_id, tenant_id, description, quantity, unit_price_cents, total_cents, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, item := range estimate.LineItems {
		m := mapping.ToModelEstimateLineItem(estimate.TenantID, item)
		_, err := r.db.Exec(ctx, query,
			m.LineItemID, m.EstimateID, m.TenantID, m.Description,
			m.Quantity, m.UnitPriceCents, m.TotalCents, m.Position,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert estimate line item", err)
		}
	}
	return nil
}

func (r *PgxEstimateRepository) loadLineItems(ctx context.Context, tenantID, estimateID string) ([]domain.EstimateLineItem, error) {
	query := `
		SELECT line_item_id, estimate_id, tenant_id, description, quantity, unit_price_cents, total_cents, position
		FROM estimate_line_items
		WHERE tenant_id = $1 AND estimate_id = $2
		ORDER BY position ASC;
	`
	rows, err := r.db.Query(ctx, query, tenantID, estimateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load estimate line items", err)
	}
	defer rows.Close()

	var items []domain.EstimateLineItem
	for rows.Next() {
		var m models.EstimateLineItem
		if err := rows.Scan(
			&m.LineItemID, &m.EstimateID, &m.TenantID, &m.Description,
			&m.Quantity, &m.UnitPriceCents, &m.TotalCents, &m.Position,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan estimate line item", err)
		}
		items = append(items, mapping.ToDomainEstimateLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating estimate line items", err)
	}
	return items, nil
}

func (r *PgxEstimateRepository) findEstimate(ctx context.Context, tenantID, estimateID string, forUpdate bool) (*domain.Estimate, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE tenant_id = $1 AND estimate_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanEstimateRow(r.db.QueryRow(ctx, query+`;`, tenantID, estimateID))
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainEstimate(*m)
	d.LineItems, err = r.loadLineItems(ctx, tenantID, estimateID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxEstimateRepository) FindEstimateByID(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error) {
	return r.findEstimate(ctx, tenantID, estimateID, false)
}

func (r *PgxEstimateRepository) FindEstimateByIDForUpdate(ctx context.Context, tenantID, estimateID string) (*domain.Estimate, error) {
	return r.findEstimate(ctx, tenantID, estimateID, true)
}

func (r *PgxEstimateRepository) ReplaceLineItems(ctx context.Context, estimate domain.Estimate) error {
	_, err := r.db.Exec(ctx, `DELETE FROM estimate_line_items WHERE tenant_id = $1 AND estimate_id = $2;`, estimate.TenantID, estimate.EstimateID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to clear estimate line items", err)
	}
	if err := r.insertLineItems(ctx, estimate); err != nil {
		return err
	}

	m := mapping.ToModelEstimate(estimate)
	query := `
		UPDATE estimates
		SET tax_rate_bps = $3, subtotal_cents = $4, tax_cents = $5, total_cents = $6, last_updated_at = $7, last_updated_by = $8
		WHERE tenant_id = $1 AND estimate_id = $2;
	`
	tag, err := r.db.Exec(ctx, query,
		m.TenantID, m.EstimateID, m.TaxRateBPS, m.SubtotalCents, m.TaxCents, m.TotalCents,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update estimate totals", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("estimate not found")
	}
	return nil
}

func (r *PgxEstimateRepository) UpdateEstimateNotes(ctx context.Context, tenantID, estimateID, notes, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE estimates
		SET notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND estimate_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, estimateID, notes, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update estimate notes", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("estimate not found")
	}
	return nil
}

func (r *PgxEstimateRepository) UpdateEstimateStatus(ctx context.Context, tenantID, estimateID string, status domain.EstimateStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE estimates
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND estimate_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, estimateID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update estimate status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("estimate not found")
	}
	return nil
}

func (r *PgxEstimateRepository) SetConvertedInvoice(ctx context.Context, tenantID, estimateID, invoiceID, updatedBy string, updatedAt time.Time) error {
	// Guarded on NULL so a second conversion attempt affects zero rows.
	query := `
		UPDATE estimates
		SET converted_invoice_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND estimate_id = $2 AND converted_invoice_id IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, estimateID, invoiceID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set converted invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError("estimate already converted to an invoice")
	}
	return nil
}

func (r *PgxEstimateRepository) ListEstimatesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Estimate, *string, error) {
	query := `SELECT ` + estimateColumns + ` FROM estimates WHERE tenant_id = $1`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` AND (created_at, estimate_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, estimate_id DESC LIMIT $` + placeholderNum(len(args)+1) + `;`
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list estimates", err)
	}
	defer rows.Close()

	var estimates []domain.Estimate
	for rows.Next() {
		var m models.Estimate
		if err := rows.Scan(
			&m.EstimateID, &m.TenantID, &m.ClientID, &m.JobID, &m.Status, &m.Notes,
			&m.TaxRateBPS, &m.SubtotalCents, &m.TaxCents, &m.TotalCents, &m.ConvertedInvoiceID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan estimate", err)
		}
		estimates = append(estimates, mapping.ToDomainEstimate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating estimates", err)
	}

	var token *string
	if len(estimates) > limit {
		estimates = estimates[:limit]
		last := estimates[len(estimates)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EstimateID)
		token = &t
	}
	return estimates, token, nil
}
