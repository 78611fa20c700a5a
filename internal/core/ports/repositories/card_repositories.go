package repositories

import (
	"context"
	"time"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// CardRepository defines persistence operations for stored payment methods.
type CardRepository interface {
	SaveCard(ctx context.Context, card domain.PaymentCard) error
	FindCardsByUser(ctx context.Context, userID string) ([]domain.PaymentCard, error)
	FindCardByID(ctx context.Context, cardID string) (*domain.PaymentCard, error)
	DeleteCard(ctx context.Context, cardID string) error

	// SetDefaultCard marks one card default and clears the flag on the
	// user's other cards in the same transaction.
	SetDefaultCard(ctx context.Context, userID string, cardID string, updatedAt time.Time) error
}
