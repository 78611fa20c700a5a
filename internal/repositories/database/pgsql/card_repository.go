package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	"github.com/utilityguy/utility-backend/internal/models"
	"github.com/utilityguy/utility-backend/internal/utils/mapping"
)

type PgxCardRepository struct {
	BaseRepository
}

func newPgxCardRepository(pool *pgxpool.Pool) portsrepo.CardRepository {
	return &PgxCardRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CardRepository = (*PgxCardRepository)(nil)

const cardColumns = `card_id, user_id, brand, last4, exp_month, exp_year, cardholder_name,
		is_default, processor_token, created_at, created_by, last_updated_at, last_updated_by`

func scanCard(row pgx.Row) (*models.PaymentCard, error) {
	var m models.PaymentCard
	err := row.Scan(
		&m.CardID,
		&m.UserID,
		&m.Brand,
		&m.Last4,
		&m.ExpMonth,
		&m.ExpYear,
		&m.CardholderName,
		&m.IsDefault,
		&m.ProcessorToken,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.PaymentCard) error {
	m := mapping.ToModelPaymentCard(card)
	query := `
		INSERT INTO payment_cards (card_id, user_id, brand, last4, exp_month, exp_year, cardholder_name,
			is_default, processor_token, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CardID,
		m.UserID,
		m.Brand,
		m.Last4,
		m.ExpMonth,
		m.ExpYear,
		m.CardholderName,
		m.IsDefault,
		m.ProcessorToken,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}

func (r *PgxCardRepository) FindCardsByUser(ctx context.Context, userID string) ([]domain.PaymentCard, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM payment_cards
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards for user %s: %w", userID, err)
	}
	defer rows.Close()

	modelCards := []models.PaymentCard{}
	for rows.Next() {
		m, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		modelCards = append(modelCards, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", rows.Err())
	}

	return mapping.ToDomainPaymentCardSlice(modelCards), nil
}

func (r *PgxCardRepository) FindCardByID(ctx context.Context, cardID string) (*domain.PaymentCard, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM payment_cards
		WHERE card_id = $1;
	`
	m, err := scanCard(r.Pool.QueryRow(ctx, query, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardID, err)
	}

	card := mapping.ToDomainPaymentCard(*m)
	return &card, nil
}

func (r *PgxCardRepository) DeleteCard(ctx context.Context, cardID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM payment_cards WHERE card_id = $1;`, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetDefaultCard flips the default flag to one card and clears it on the
// user's others inside a single transaction.
func (r *PgxCardRepository) SetDefaultCard(ctx context.Context, userID string, cardID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		UPDATE payment_cards
		SET is_default = FALSE, last_updated_at = $1
		WHERE user_id = $2 AND is_default = TRUE AND card_id <> $3;
	`, updatedAt, userID, cardID)
	if err != nil {
		return fmt.Errorf("failed to clear default cards: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE payment_cards
		SET is_default = TRUE, last_updated_at = $1
		WHERE card_id = $2 AND user_id = $3;
	`, updatedAt, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to set default card: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
