package services

import (
	"context"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// CardSvcFacade defines stored payment-method operations.
type CardSvcFacade interface {
	AddCard(ctx context.Context, userID string, req dto.AddCardRequest) (*domain.PaymentCard, error)
	ListCards(ctx context.Context, userID string) ([]domain.PaymentCard, error)
	DeleteCard(ctx context.Context, userID string, cardID string) error
	SetDefaultCard(ctx context.Context, userID string, cardID string) error
}
