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

const invoiceColumns = `invoice_id, tenant_id, client_id, job_id, estimate_id, status, total_cents, paid_cents, due_date, paid_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	db Querier
}

func newPgxInvoiceRepository(db Querier) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{db: db}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoiceRow(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.TenantID, &m.ClientID, &m.JobID, &m.EstimateID, &m.Status,
		&m.TotalCents, &m.PaidCents, &m.DueDate, &m.PaidAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
	}
	return &m, nil
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db.Exec(ctx, query,
		m.InvoiceID, m.TenantID, m.ClientID, m.JobID, m.EstimateID, m.Status,
		m.TotalCents, m.PaidCents, m.DueDate, m.PaidAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	itemQuery := `
		INSERT INTO invoice_line_items (line_item_id, invoice_id, tenant_id, source_line_item_id, description, quantity, unit_price_cents, total_cents, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, item := range invoice.LineItems {
		im := mapping.ToModelInvoiceLineItem(invoice.TenantID, item)
		_, err := r.db.Exec(ctx, itemQuery,
			im.LineItemID, im.InvoiceID, im.TenantID, im.SourceLineItemID,
			im.Description, im.Quantity, im.UnitPriceCents, im.TotalCents, im.Position,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert invoice line item", err)
		}
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2;`
	m, err := scanInvoiceRow(r.db.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainInvoice(*m)

	itemQuery := `
		SELECT line_item_id, invoice_id, tenant_id, source_line_item_id, description, quantity, unit_price_cents, total_cents, position
		FROM invoice_line_items
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY position ASC;
	`
	rows, err := r.db.Query(ctx, itemQuery, tenantID, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load invoice line items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var im models.InvoiceLineItem
		if err := rows.Scan(
			&im.LineItemID, &im.InvoiceID, &im.TenantID, &im.SourceLineItemID,
			&im.Description, &im.Quantity, &im.UnitPriceCents, &im.TotalCents, &im.Position,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line item", err)
		}
		d.LineItems = append(d.LineItems, mapping.ToDomainInvoiceLineItem(im))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating invoice line items", err)
	}
	return &d, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2 FOR UPDATE;`
	m, err := scanInvoiceRow(r.db.QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		return nil, err
	}
	d := mapping.ToDomainInvoice(*m)
	return &d, nil
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, invoiceID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice not found")
	}
	return nil
}

func (r *PgxInvoiceRepository) ApplyPaymentTotals(ctx context.Context, tenantID, invoiceID string, paidCents int64, status domain.InvoiceStatus, paidAt *time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE invoices
		SET paid_cents = $3, status = $4, paid_at = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	tag, err := r.db.Exec(ctx, query, tenantID, invoiceID, paidCents, string(status), paidAt, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to apply payment totals", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice not found")
	}
	return nil
}

func (r *PgxInvoiceRepository) ListInvoicesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token")
		}
		query += ` AND (created_at, invoice_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, invoice_id DESC LIMIT $` + placeholderNum(len(args)+1) + `;`
	args = append(args, limit+1)

	invoices, err := r.queryInvoices(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.InvoiceID)
		token = &t
	}
	return invoices, token, nil
}

func (r *PgxInvoiceRepository) ListPayableInvoicesPastDue(ctx context.Context, tenantID string, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE tenant_id = $1 AND status = ANY($2) AND due_date < $3
		ORDER BY due_date ASC;
	`
	statuses := make([]string, len(domain.PayableInvoiceStatuses))
	for i, s := range domain.PayableInvoiceStatuses {
		statuses[i] = string(s)
	}
	return r.queryInvoices(ctx, query, tenantID, statuses, asOf)
}

func (r *PgxInvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var m models.Invoice
		if err := rows.Scan(
			&m.InvoiceID, &m.TenantID, &m.ClientID, &m.JobID, &m.EstimateID, &m.Status,
			&m.TotalCents, &m.PaidCents, &m.DueDate, &m.PaidAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating invoices", err)
	}
	return invoices, nil
}
