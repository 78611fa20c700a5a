package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

type cardService struct {
	cardRepo portsrepo.CardRepository
}

// NewCardService creates a new CardService.
func NewCardService(cardRepo portsrepo.CardRepository) portssvc.CardSvcFacade {
	return &cardService{cardRepo: cardRepo}
}

var _ portssvc.CardSvcFacade = (*cardService)(nil)

// AddCard stores a tokenised payment method for the user.
func (s *cardService) AddCard(ctx context.Context, userID string, req dto.AddCardRequest) (*domain.PaymentCard, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	if req.ExpYear < now.Year() || (req.ExpYear == now.Year() && req.ExpMonth < int(now.Month())) {
		return nil, fmt.Errorf("%w: card is expired", apperrors.ErrValidation)
	}

	card := domain.PaymentCard{
		CardID:         uuid.NewString(),
		UserID:         userID,
		Brand:          req.Brand,
		Last4:          req.Last4,
		ExpMonth:       req.ExpMonth,
		ExpYear:        req.ExpYear,
		CardholderName: req.CardholderName,
		IsDefault:      req.IsDefault,
		ProcessorToken: req.ProcessorToken,
	}
	card.CreatedAt = now
	card.CreatedBy = userID
	card.LastUpdatedAt = now
	card.LastUpdatedBy = userID

	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		logger.Error("Failed to save card", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	if card.IsDefault {
		if err := s.cardRepo.SetDefaultCard(ctx, userID, card.CardID, now); err != nil {
			logger.Error("Failed to mark card default", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to set default card: %w", err)
		}
	}

	logger.Info("Card added", slog.String("user_id", userID), slog.String("card_id", card.CardID))
	return &card, nil
}

// ListCards returns the user's stored payment methods.
func (s *cardService) ListCards(ctx context.Context, userID string) ([]domain.PaymentCard, error) {
	return s.cardRepo.FindCardsByUser(ctx, userID)
}

// DeleteCard removes a stored card after verifying ownership.
func (s *cardService) DeleteCard(ctx context.Context, userID string, cardID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return fmt.Errorf("%w: card does not belong to user", apperrors.ErrForbidden)
	}

	if err := s.cardRepo.DeleteCard(ctx, cardID); err != nil {
		logger.Error("Failed to delete card", slog.String("card_id", cardID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete card: %w", err)
	}

	logger.Info("Card deleted", slog.String("user_id", userID), slog.String("card_id", cardID))
	return nil
}

// SetDefaultCard marks one of the user's cards as the default payment method.
func (s *cardService) SetDefaultCard(ctx context.Context, userID string, cardID string) error {
	card, err := s.cardRepo.FindCardByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return fmt.Errorf("%w: card does not belong to user", apperrors.ErrForbidden)
	}
	return s.cardRepo.SetDefaultCard(ctx, userID, cardID, time.Now().UTC())
}
