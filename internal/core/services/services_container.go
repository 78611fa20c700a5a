package services

import (
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(repos.UserRepo, TokenConfig{
		JWTSecret:          cfg.JWTSecret,
		JWTIssuer:          cfg.JWTIssuer,
		AccessTokenExpiry:  cfg.JWTExpiryDuration,
		RefreshTokenExpiry: cfg.RefreshTokenExpiryDuration,
	})
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.TransactionRepo, repos.UserRepo, LedgerRates{
		CommissionRate:         cfg.CommissionRate,
		ElectricityPricePerKwh: cfg.ElectricityPricePerKwh,
		WaterPricePerLiter:     cfg.WaterPricePerLiter,
	})
	container.Meter = NewMeterService(repos.MeterRepo, repos.LedgerRepo)
	container.Card = NewCardService(repos.CardRepo)
	container.Chatbot = NewChatbotService(cfg.ChatbotBaseURL)

	return container
}
