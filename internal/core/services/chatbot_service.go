package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/middleware"
)

const (
	defaultNumResults = 5
	maxNumResults     = 20
)

type chatbotService struct {
	baseURL string
	client  *http.Client
}

// NewChatbotService creates a proxy to the external chatbot search endpoint.
func NewChatbotService(baseURL string) portssvc.ChatbotSvcFacade {
	return &chatbotService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

var _ portssvc.ChatbotSvcFacade = (*chatbotService)(nil)

// Search forwards the query to the chatbot endpoint and returns its results.
func (s *chatbotService) Search(ctx context.Context, query string, numResults int) ([]domain.SearchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", apperrors.ErrValidation)
	}
	if numResults <= 0 {
		numResults = defaultNumResults
	}
	if numResults > maxNumResults {
		numResults = maxNumResults
	}

	payload, err := json.Marshal(map[string]any{
		"query":       query,
		"num_results": numResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("Chatbot request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: chatbot endpoint unreachable", apperrors.ErrInternal)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("Chatbot returned non-OK status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: chatbot returned status %d", apperrors.ErrInternal, resp.StatusCode)
	}

	var out struct {
		Results []domain.SearchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode chatbot response: %w", err)
	}

	return out.Results, nil
}
