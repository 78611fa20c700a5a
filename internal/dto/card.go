package dto

import "github.com/utilityguy/utility-backend/internal/core/domain"

// AddCardRequest stores a tokenised payment method. The PAN never reaches
// this service; the client exchanges it for a processor token first.
type AddCardRequest struct {
	Brand          string `json:"brand" binding:"required"`
	Last4          string `json:"last4" binding:"required,len=4,numeric"`
	ExpMonth       int    `json:"expMonth" binding:"required,min=1,max=12"`
	ExpYear        int    `json:"expYear" binding:"required"`
	CardholderName string `json:"cardholderName" binding:"required"`
	ProcessorToken string `json:"processorToken" binding:"required"`
	IsDefault      bool   `json:"isDefault"`
}

// CardResponse defines the data returned for a stored payment method.
type CardResponse struct {
	CardID         string `json:"cardID"`
	Brand          string `json:"brand"`
	Last4          string `json:"last4"`
	ExpMonth       int    `json:"expMonth"`
	ExpYear        int    `json:"expYear"`
	CardholderName string `json:"cardholderName"`
	IsDefault      bool   `json:"isDefault"`
}

// ToCardResponse converts a domain.PaymentCard to its DTO.
func ToCardResponse(c *domain.PaymentCard) CardResponse {
	return CardResponse{
		CardID:         c.CardID,
		Brand:          c.Brand,
		Last4:          c.Last4,
		ExpMonth:       c.ExpMonth,
		ExpYear:        c.ExpYear,
		CardholderName: c.CardholderName,
		IsDefault:      c.IsDefault,
	}
}

// ToCardResponses converts a slice of cards to DTOs.
func ToCardResponses(cards []domain.PaymentCard) []CardResponse {
	responses := make([]CardResponse, len(cards))
	for i := range cards {
		responses[i] = ToCardResponse(&cards[i])
	}
	return responses
}
