package predictions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arjunkedar/mandisathi-backend/pkg/db/models"
	"github.com/arjunkedar/mandisathi-backend/pkg/types"
)

// Weather is the snapshot forecasting runs against.
type Weather struct {
	TemperatureC float64
	Humidity     int
	Description  string
	Condition    string
}

// SuggestInput carries the conditions a provider bases suggestions on.
type SuggestInput struct {
	City       string
	VendorType string
	Weather    Weather
}

// SuggestedItem is one ranked suggestion from a provider.
type SuggestedItem struct {
	Ingredient string  `json:"ingredient"`
	Quantity   string  `json:"suggestedQuantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// GenerateInput captures a forecast request.
type GenerateInput struct {
	VendorID   uuid.UUID
	ActorRole  string
	City       string
	VendorType string
}

// View is the wire projection of a stored forecast.
type View struct {
	ID           uuid.UUID             `json:"id"`
	VendorID     uuid.UUID             `json:"vendorId"`
	City         string                `json:"city"`
	Weather      *string               `json:"weather,omitempty"`
	TemperatureC *decimal.Decimal      `json:"temperatureC,omitempty"`
	Items        types.PredictionItems `json:"items"`
	Confidence   *decimal.Decimal      `json:"confidence,omitempty"`
	Date         time.Time             `json:"date"`
}

// FromModel projects a forecast row into its wire shape.
func FromModel(p *models.Prediction) View {
	if p == nil {
		return View{}
	}
	items := p.Items
	if items == nil {
		items = types.PredictionItems{}
	}
	return View{
		ID:           p.ID,
		VendorID:     p.VendorID,
		City:         p.City,
		Weather:      p.Weather,
		TemperatureC: p.TemperatureC,
		Items:        items,
		Confidence:   p.Confidence,
		Date:         p.Date,
	}
}

// FromModels projects a forecast history page.
func FromModels(rows []models.Prediction) []View {
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, FromModel(&rows[i]))
	}
	return views
}

// GeneratedEvent is emitted for every stored forecast.
type GeneratedEvent struct {
	PredictionID uuid.UUID `json:"prediction_id"`
	VendorID     uuid.UUID `json:"vendor_id"`
	City         string    `json:"city"`
	ItemCount    int       `json:"item_count"`
}
