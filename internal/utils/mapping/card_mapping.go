package mapping

import (
	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/models"
)

// ToModelPaymentCard converts a domain PaymentCard to a model PaymentCard
func ToModelPaymentCard(d domain.PaymentCard) models.PaymentCard {
	return models.PaymentCard{
		CardID:         d.CardID,
		UserID:         d.UserID,
		Brand:          d.Brand,
		Last4:          d.Last4,
		ExpMonth:       d.ExpMonth,
		ExpYear:        d.ExpYear,
		CardholderName: d.CardholderName,
		IsDefault:      d.IsDefault,
		ProcessorToken: d.ProcessorToken,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentCard converts a model PaymentCard to a domain PaymentCard
func ToDomainPaymentCard(m models.PaymentCard) domain.PaymentCard {
	return domain.PaymentCard{
		CardID:         m.CardID,
		UserID:         m.UserID,
		Brand:          m.Brand,
		Last4:          m.Last4,
		ExpMonth:       m.ExpMonth,
		ExpYear:        m.ExpYear,
		CardholderName: m.CardholderName,
		IsDefault:      m.IsDefault,
		ProcessorToken: m.ProcessorToken,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentCardSlice converts model PaymentCards to domain PaymentCards
func ToDomainPaymentCardSlice(ms []models.PaymentCard) []domain.PaymentCard {
	ds := make([]domain.PaymentCard, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentCard(m)
	}
	return ds
}
