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
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `payment_id, tenant_id, invoice_id, amount_cents, method, received_at, idempotency_key, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	db Querier
}

func newPgxPaymentRepository(db Querier) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{db: db}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.TenantID, &m.InvoiceID, &m.AmountCents, &m.Method, &m.ReceivedAt, &m.IdempotencyKey,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan payment", err)
	}
	d := mapping.ToDomainPayment(m)
	return &d, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.PaymentID, m.TenantID, m.InvoiceID, m.AmountCents, m.Method, m.ReceivedAt, m.IdempotencyKey,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "payment with this idempotency key already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert payment", err)
	}
	return nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND payment_id = $2;`
	return scanPayment(r.db.QueryRow(ctx, query, tenantID, paymentID))
}

func (r *PgxPaymentRepository) FindPaymentByIdempotencyKey(ctx context.Context, tenantID, invoiceID, key string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND invoice_id = $2 AND idempotency_key = $3;`
	return scanPayment(r.db.QueryRow(ctx, query, tenantID, invoiceID, key))
}

func (r *PgxPaymentRepository) ExistsRecentDuplicate(ctx context.Context, tenantID, invoiceID string, amountCents int64, method domain.PaymentMethod, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE tenant_id = $1 AND invoice_id = $2 AND amount_cents = $3 AND method = $4 AND created_at >= $5
		);
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tenantID, invoiceID, amountCents, string(method), since).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check for duplicate payment", err)
	}
	return exists, nil
}

func (r *PgxPaymentRepository) SumPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE tenant_id = $1 AND invoice_id = $2;`
	var sum int64
	if err := r.db.QueryRow(ctx, query, tenantID, invoiceID).Scan(&sum); err != nil {
		return 0, apperrors.NewAppError(500, "failed to sum payments", err)
	}
	return sum, nil
}

func (r *PgxPaymentRepository) CountPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) (int, error) {
	query := `SELECT COUNT(*) FROM payments WHERE tenant_id = $1 AND invoice_id = $2;`
	var count int
	if err := r.db.QueryRow(ctx, query, tenantID, invoiceID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count payments", err)
	}
	return count, nil
}

func (r *PgxPaymentRepository) ListPaymentsByInvoiceID(ctx context.Context, tenantID, invoiceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND invoice_id = $2 ORDER BY received_at ASC, payment_id ASC;`
	rows, err := r.db.Query(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(
			&m.PaymentID, &m.TenantID, &m.InvoiceID, &m.AmountCents, &m.Method, &m.ReceivedAt, &m.IdempotencyKey,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment", err)
		}
		payments = append(payments, mapping.ToDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating payments", err)
	}
	return payments, nil
}

func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, tenantID, paymentID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payments WHERE tenant_id = $1 AND payment_id = $2;`, tenantID, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete payment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment not found")
	}
	return nil
}
