package predictions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientNames(items []SuggestedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Ingredient)
	}
	return names
}

func TestFallbackProviderReturnsStaples(t *testing.T) {
	input := SuggestInput{City: "pune", Weather: WeatherFor("pune")}

	items, err := FallbackProvider{}.Suggest(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Onions", "Tomatoes", "Potatoes", "Oil", "Spices Mix"},
		ingredientNames(items))
}

func TestFallbackProviderAddsLemonsInHeat(t *testing.T) {
	input := SuggestInput{City: "mumbai", Weather: WeatherFor("mumbai")}

	items, err := FallbackProvider{}.Suggest(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, ingredientNames(items), "Lemons")
}

func TestFallbackProviderAddsGingerInRain(t *testing.T) {
	input := SuggestInput{
		City:    "mumbai",
		Weather: Weather{TemperatureC: 26, Condition: "Rainy"},
	}

	items, err := FallbackProvider{}.Suggest(context.Background(), input)
	require.NoError(t, err)

	names := ingredientNames(items)
	assert.Contains(t, names, "Ginger")
	assert.NotContains(t, names, "Lemons")
}

func TestFallbackProviderIsDeterministic(t *testing.T) {
	input := SuggestInput{City: "chennai", Weather: WeatherFor("chennai")}

	first, err := FallbackProvider{}.Suggest(context.Background(), input)
	require.NoError(t, err)
	second, err := FallbackProvider{}.Suggest(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWeatherForUnknownCityUsesModerateDefault(t *testing.T) {
	w := WeatherFor("indore")
	assert.EqualValues(t, 28, w.TemperatureC)
	assert.Equal(t, "sunny", w.Condition)
}

func TestWeatherForNormalizesCityName(t *testing.T) {
	assert.Equal(t, WeatherFor("mumbai"), WeatherFor("  Mumbai "))
}
