package services

import (
	"context"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// ChatbotSvcFacade proxies support queries to the external chatbot endpoint.
type ChatbotSvcFacade interface {
	Search(ctx context.Context, query string, numResults int) ([]domain.SearchResult, error)
}
