package dto

import "github.com/utilityguy/utility-backend/internal/core/domain"

// SearchRequest is the payload proxied to the external chatbot endpoint.
type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	NumResults int    `json:"num_results"`
}

// SearchResponse is the chatbot endpoint's answer set.
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}
