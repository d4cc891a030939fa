package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PredictionItem is one ranked ingredient suggestion in a forecast.
type PredictionItem struct {
	Ingredient string  `json:"ingredient"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// PredictionItems is the ranked suggestion list persisted as JSONB.
type PredictionItems []PredictionItem

// Value marshals the list into JSON for Postgres.
func (p PredictionItems) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the list.
func (p *PredictionItems) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("prediction items: unsupported scan type %T", value)
	}

	var result PredictionItems
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*p = result
	return nil
}
