package dto

import (
	"time"

	"carbon-insights/internal/models"
	"carbon-insights/internal/service"
)

type CreateRecommendationRequest struct {
	Title              string  `json:"title" example:"Install rooftop solar"`
	Detail             string  `json:"detail"`
	EstimatedReduction float64 `json:"estimated_reduction" example:"12.5"`
}

type RecommendationResponse struct {
	ID                 int64   `json:"id"`
	OrganizationID     int64   `json:"organization_id"`
	Title              string  `json:"title"`
	Detail             string  `json:"detail"`
	EstimatedReduction float64 `json:"estimated_reduction"`
	Applied            bool    `json:"applied"`
	CreatedAt          string  `json:"created_at"`
}

// SuggestionResponse is a heuristic recommendation that is not stored.
type SuggestionResponse struct {
	Title              string  `json:"title"`
	Detail             string  `json:"detail"`
	EstimatedReduction float64 `json:"estimated_reduction"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type RecommendationsResponse struct {
	Suggestions []SuggestionResponse     `json:"suggestions"`
	Saved       []RecommendationResponse `json:"saved"`
}

func NewRecommendationResponse(rec *models.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:                 rec.ID,
		OrganizationID:     rec.OrganizationID,
		Title:              rec.Title,
		Detail:             rec.Detail,
		EstimatedReduction: rec.EstimatedReduction,
		Applied:            rec.Applied,
		CreatedAt:          rec.CreatedAt.Format(time.RFC3339),
	}
}

func NewRecommendationsResponse(suggestions []service.Suggestion, saved []*models.Recommendation) RecommendationsResponse {
	resp := RecommendationsResponse{
		Suggestions: NewSuggestionsResponse(suggestions).Suggestions,
		Saved:       make([]RecommendationResponse, len(saved)),
	}
	for i, rec := range saved {
		resp.Saved[i] = NewRecommendationResponse(rec)
	}
	return resp
}

func NewSuggestionsResponse(suggestions []service.Suggestion) SuggestionsResponse {
	resp := SuggestionsResponse{Suggestions: make([]SuggestionResponse, len(suggestions))}
	for i, s := range suggestions {
		resp.Suggestions[i] = SuggestionResponse{Title: s.Title, Detail: s.Detail, EstimatedReduction: s.EstimatedReduction}
	}
	return resp
}
