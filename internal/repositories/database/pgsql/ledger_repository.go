package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	"github.com/utilityguy/utility-backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// ApplyTransition commits a balance transition as one database transaction:
// the user row is locked, the balance precondition is checked on the locked
// value, the wallet and optional meter reading are updated relatively, and
// the transaction records are inserted in a batch. Any failure rolls the
// whole thing back.
func (r *PgxLedgerRepository) ApplyTransition(ctx context.Context, t domain.BalanceTransition) (*domain.TransitionResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the user row. The precondition check must read the balance under
	// the lock, not whatever the caller saw earlier.
	var lockedBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT wallet_balance FROM users
		WHERE user_id = $1 AND deleted_at IS NULL
		FOR UPDATE;
	`, t.UserID).Scan(&lockedBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock user %s: %w", t.UserID, err)
	}

	newBalance := lockedBalance.Add(t.WalletDelta)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("wallet %s cannot cover %s: %w",
			lockedBalance, t.WalletDelta.Neg(), apperrors.ErrInsufficientBalance)
	}

	var walletBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET wallet_balance = wallet_balance + $1, last_updated_at = $2
		WHERE user_id = $3
		RETURNING wallet_balance;
	`, t.WalletDelta, t.Timestamp, t.UserID).Scan(&walletBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	var meterBalance *decimal.Decimal
	if t.MeterType != "" {
		var readingID string
		err = tx.QueryRow(ctx, `
			SELECT reading_id FROM meter_readings
			WHERE user_id = $1 AND meter_type = $2
			FOR UPDATE;
		`, t.UserID, string(t.MeterType)).Scan(&readingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrMeterNotFound
			}
			return nil, fmt.Errorf("failed to lock %s reading: %w", t.MeterType, err)
		}

		var balance decimal.Decimal
		err = tx.QueryRow(ctx, `
			UPDATE meter_readings
			SET balance = balance + $1, reading_timestamp = $2
			WHERE reading_id = $3
			RETURNING balance;
		`, t.UnitsDelta, t.Timestamp, readingID).Scan(&balance)
		if err != nil {
			return nil, fmt.Errorf("failed to update meter balance: %w", err)
		}
		meterBalance = &balance
	}

	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (transaction_id, user_id, type, amount, gross_amount, net_amount,
			service_fee, units, balance_after, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	stamped := stampTransitionRecords(t.Transactions, newBalance, t.Timestamp)
	for _, txn := range stamped {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(txnQuery,
			m.TransactionID,
			m.UserID,
			m.Type,
			m.Amount,
			m.GrossAmount,
			m.NetAmount,
			m.ServiceFee,
			m.Units,
			m.BalanceAfter,
			m.Description,
			m.Status,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert transaction records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCommitFailed, err)
	}

	return &domain.TransitionResult{
		WalletBalance: walletBalance,
		MeterBalance:  meterBalance,
		Transactions:  stamped,
	}, nil
}

// stampTransitionRecords stamps every record of a transition with the wallet
// balance after the whole transition and with the transition timestamp. All
// records of one operation carry the same balanceAfter: the records commit
// together, so no intermediate balance is ever observable.
func stampTransitionRecords(txns []domain.Transaction, balanceAfter decimal.Decimal, timestamp time.Time) []domain.Transaction {
	stamped := make([]domain.Transaction, len(txns))
	for i, txn := range txns {
		txn.BalanceAfter = balanceAfter
		txn.CreatedAt = timestamp
		stamped[i] = txn
	}
	return stamped
}
