package predictions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjunkedar/mandisathi-backend/pkg/openai"
)

type completionClient interface {
	CompleteJSON(ctx context.Context, messages []openai.Message) (string, error)
}

// AIProvider asks the completion model for suggestions tuned to the city and
// weather.
type AIProvider struct {
	client completionClient
}

// NewAIProvider wraps a completion client as a suggestion provider.
func NewAIProvider(client completionClient) (*AIProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client required")
	}
	return &AIProvider{client: client}, nil
}

const suggestSystemPrompt = `You are an expert advisor for Indian street food vendors. Based on weather, location, and vendor type, predict the ingredient quantities needed for the day. Consider weather impact on customer preferences, regional tastes, and typical usage patterns. Respond with JSON in this format: {"predictions": [{"ingredient": "name", "suggestedQuantity": "quantity with unit", "confidence": 0.0, "reasoning": "brief explanation"}]}`

func (p *AIProvider) Suggest(ctx context.Context, input SuggestInput) ([]SuggestedItem, error) {
	userPrompt := fmt.Sprintf(
		"Generate ingredient predictions for:\n- City: %s\n- Vendor Type: %s\n- Current Weather: %s, %.0f°C\n- Weather Condition: %s\n\nPredict 5-8 key ingredients with realistic quantities for a day's operation.",
		input.City, input.VendorType, input.Weather.Description, input.Weather.TemperatureC, input.Weather.Condition,
	)

	content, err := p.client.CompleteJSON(ctx, []openai.Message{
		{Role: "system", Content: suggestSystemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Predictions []SuggestedItem `json:"predictions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("model returned no suggestions")
	}
	return parsed.Predictions, nil
}

// FallbackProvider produces deterministic staples adjusted for the weather.
// It never fails, which keeps the forecast endpoint usable without the AI
// dependency.
type FallbackProvider struct{}

func (FallbackProvider) Suggest(_ context.Context, input SuggestInput) ([]SuggestedItem, error) {
	items := []SuggestedItem{
		{Ingredient: "Onions", Quantity: "5 kg", Confidence: 0.8, Reasoning: "Essential for most dishes"},
		{Ingredient: "Tomatoes", Quantity: "3 kg", Confidence: 0.7, Reasoning: "High demand ingredient"},
		{Ingredient: "Potatoes", Quantity: "4 kg", Confidence: 0.9, Reasoning: "Popular base ingredient"},
		{Ingredient: "Oil", Quantity: "2 liters", Confidence: 0.85, Reasoning: "Cooking essential"},
		{Ingredient: "Spices Mix", Quantity: "500g", Confidence: 0.9, Reasoning: "Flavor enhancement"},
	}

	if input.Weather.TemperatureC > 30 {
		items = append(items, SuggestedItem{
			Ingredient: "Lemons",
			Quantity:   "2 kg",
			Confidence: 0.8,
			Reasoning:  "Hot weather increases demand for refreshing items",
		})
	}

	if strings.EqualFold(input.Weather.Condition, "rainy") {
		items = append(items, SuggestedItem{
			Ingredient: "Ginger",
			Quantity:   "300g",
			Confidence: 0.75,
			Reasoning:  "Rainy weather increases demand for hot, spicy food",
		})
	}

	return items, nil
}
