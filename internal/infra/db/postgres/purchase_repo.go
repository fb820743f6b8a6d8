package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-platform/internal/domain"
	"lms-platform/internal/domain/model"
	"lms-platform/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

type purchaseRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRepo(pool *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{pool: pool}
}

const purchaseColumns = `id, course_id, user_id, amount, currency, status, payment_method, payment_id, refund_id, refund_amount, refund_reason, metadata, created_at, updated_at`

func (r *purchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO purchases (
  id, course_id, user_id, amount, currency, status, payment_method, payment_id, refund_id, refund_amount, refund_reason, metadata, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  status=$6, payment_method=$7, payment_id=$8, refund_id=$9, refund_amount=$10, refund_reason=$11, metadata=$12, created_at=$13, updated_at=$14;`

	_, err = execSQL(ctx, r.pool, tx, q,
		p.ID, p.CourseID, p.UserID, p.Amount, p.Currency, string(p.Status),
		p.PaymentMethod, p.PaymentID, p.RefundID, p.RefundAmount, p.RefundReason,
		meta, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *purchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPurchase(row)
}

func (r *purchaseRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Purchase, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchases WHERE payment_id=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, paymentID)
	if err != nil {
		return nil, err
	}
	return scanPurchase(row)
}

func (r *purchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	const q = `SELECT ` + purchaseColumns + ` FROM purchases WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func (r *purchaseRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Purchase, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + purchaseColumns + ` FROM purchases WHERE status='pending' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

// UpdateStatusIf swaps the status only when the stored row still carries the
// expected one. The WHERE guard makes the transition atomic without advisory
// locks; a zero row count means another writer got there first.
func (r *purchaseRepo) UpdateStatusIf(ctx context.Context, tx repository.Tx, id string, expected, next model.PurchaseStatus, patch repository.PurchasePatch) (bool, error) {
	const q = `
UPDATE purchases
   SET status = $3,
       refund_id = COALESCE($4, refund_id),
       refund_amount = COALESCE($5, refund_amount),
       refund_reason = COALESCE($6, refund_reason),
       updated_at = NOW()
 WHERE id = $1
   AND status = $2;`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, string(expected), string(next), patch.RefundID, patch.RefundAmount, patch.RefundReason)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() >= 1, nil
}

func scanPurchase(row pgx.Row) (*model.Purchase, error) {
	p := &model.Purchase{}
	var status string
	var meta []byte
	err := row.Scan(&p.ID, &p.CourseID, &p.UserID, &p.Amount, &p.Currency, &status,
		&p.PaymentMethod, &p.PaymentID, &p.RefundID, &p.RefundAmount, &p.RefundReason,
		&meta, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = model.PurchaseStatus(status)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &p.Metadata); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func scanPurchases(rows pgx.Rows) ([]*model.Purchase, error) {
	var out []*model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
