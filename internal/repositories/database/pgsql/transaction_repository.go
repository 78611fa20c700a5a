package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	"github.com/utilityguy/utility-backend/internal/models"
	"github.com/utilityguy/utility-backend/internal/utils/mapping"
	"github.com/utilityguy/utility-backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	db *pgxpool.Pool
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{db: db}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// ListTransactionsByUser returns a page of a user's transaction history, newest
// first, using token-based pagination.
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, txType *domain.TransactionType, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, user_id, type, amount, gross_amount, net_amount,
		       service_fee, units, balance_after, description, status, created_at
		FROM transactions
		WHERE user_id = $1
	`
	// Stable ordering: created_at DESC with transaction_id as tie-breaker,
	// since all records of one operation share a timestamp.
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	args := []interface{}{userID}
	argPos := 2

	if txType != nil {
		baseQuery += fmt.Sprintf(" AND type = $%d", argPos)
		args = append(args, string(*txType))
		argPos++
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pagination token: %w", err)
		}
		baseQuery += fmt.Sprintf(" AND (created_at, transaction_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, lastCreatedAt, lastID)
		argPos += 2
	}

	query := fmt.Sprintf("%s %s LIMIT $%d;", baseQuery, orderByClause, argPos)
	args = append(args, fetchLimit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.UserID,
			&m.Type,
			&m.Amount,
			&m.GrossAmount,
			&m.NetAmount,
			&m.ServiceFee,
			&m.Units,
			&m.BalanceAfter,
			&m.Description,
			&m.Status,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var token *string
	if len(modelTxns) > limit {
		modelTxns = modelTxns[:limit]
		last := modelTxns[len(modelTxns)-1]
		encoded := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		token = &encoded
	}

	return mapping.ToDomainTransactionSlice(modelTxns), token, nil
}

// SumTransactionAmounts returns the signed sum of all of a user's transaction
// amounts, used to verify the ledger consistency invariant.
func (r *PgxTransactionRepository) SumTransactionAmounts(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1;
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}
	return sum, nil
}
