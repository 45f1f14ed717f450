package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend/logger"
)

// FoodEstimator resolves a free-text food query to estimated macros. The
// engine accepts its output as input and validates only non-negativity.
type FoodEstimator interface {
	Estimate(ctx context.Context, query string) (FoodEstimate, error)
}

// OpenFoodFactsEstimator backs the estimator with the Open Food Facts
// search API. Values are per 100g; good enough for an advisory check.
type OpenFoodFactsEstimator struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsEstimator() *OpenFoodFactsEstimator {
	return &OpenFoodFactsEstimator{
		baseURL: "https://world.openfoodfacts.org",
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (e *OpenFoodFactsEstimator) Estimate(ctx context.Context, query string) (FoodEstimate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return FoodEstimate{}, fmt.Errorf("%w: empty food query", ErrInvalidInput)
	}

	url := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1",
		e.baseURL, strings.ReplaceAll(query, " ", "+"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FoodEstimate{}, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return FoodEstimate{}, fmt.Errorf("food lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FoodEstimate{}, fmt.Errorf("food lookup returned status %d", resp.StatusCode)
	}

	var result struct {
		Products []struct {
			ProductName string `json:"product_name"`
			Nutriments  struct {
				EnergyKcal100g    json.Number `json:"energy-kcal_100g"`
				Proteins100g      json.Number `json:"proteins_100g"`
				Fat100g           json.Number `json:"fat_100g"`
				Carbohydrates100g json.Number `json:"carbohydrates_100g"`
			} `json:"nutriments"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return FoodEstimate{}, fmt.Errorf("failed to decode food lookup response: %w", err)
	}

	for _, p := range result.Products {
		kcal, _ := p.Nutriments.EnergyKcal100g.Float64()
		if kcal <= 0 {
			continue
		}
		protein, _ := p.Nutriments.Proteins100g.Float64()
		fat, _ := p.Nutriments.Fat100g.Float64()
		carbs, _ := p.Nutriments.Carbohydrates100g.Float64()

		name := p.ProductName
		if name == "" {
			name = query
		}
		logger.Info("Food macros resolved", "query", query, "match", name, "kcal", kcal)
		return FoodEstimate{Name: name, Calories: kcal, Protein: protein, Fat: fat, Carbs: carbs}, nil
	}

	return FoodEstimate{}, fmt.Errorf("no nutrition data found for %q", query)
}
