package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"action":"search"}`, `{"action":"search"}`, true},
		{"surrounded by prose", `Sure! {"action":"search","filters":{}} Hope that helps.`,
			`{"action":"search","filters":{}}`, true},
		{"nested braces", `x {"filters":{"ram":16}} y`, `{"filters":{"ram":16}}`, true},
		{"no object", "I need more details about your budget.", "", false},
		{"reversed braces", "} weird {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchPredicateBounds(t *testing.T) {
	pred := searchPredicate(map[string]any{
		"show_price": map[string]any{"lte": float64(180000), "gte": float64(90000)},
		"ram":        float64(16),
	})

	assert.Equal(t, 3, pred.Len())

	where, args := pred.Render(1)
	assert.Contains(t, where, "show_price <=")
	assert.Contains(t, where, "show_price >=")
	assert.Contains(t, where, "ram =")
	assert.Len(t, args, 3)
}

func TestSearchPredicateTextColumnsUseSubstringMatch(t *testing.T) {
	pred := searchPredicate(map[string]any{
		"brand_name": "acer",
		"graphic":    "rtx 3050",
	})

	where, args := pred.Render(1)
	assert.Contains(t, where, "brand_name ILIKE")
	assert.Contains(t, where, "graphic ILIKE")
	assert.Contains(t, args, "%acer%")
	assert.Contains(t, args, "%rtx 3050%")
}

func TestSearchPredicateDropsUnknownColumns(t *testing.T) {
	pred := searchPredicate(map[string]any{
		"id":                  float64(1),
		"cost_price":          float64(1),
		"1=1; DROP TABLE ok":  "x",
		"brand_name; ram = 1": "x",
	})

	assert.Equal(t, 0, pred.Len())
}

func TestSearchPredicateNumericStrings(t *testing.T) {
	pred := searchPredicate(map[string]any{
		"ram":        "16",
		"model_year": map[string]any{"gte": "2022"},
	})

	require.Equal(t, 2, pred.Len())

	_, args := pred.Render(1)
	assert.Contains(t, args, int64(16))
	assert.Contains(t, args, int64(2022))
}

func TestSearchPredicateTouchscreen(t *testing.T) {
	pred := searchPredicate(map[string]any{"touchscreen": true})

	where, args := pred.Render(1)
	assert.Equal(t, " AND touchscreen = $1", where)
	assert.Equal(t, []any{true}, args)
}

func TestSearchPredicateMismatchedTypesIgnored(t *testing.T) {
	pred := searchPredicate(map[string]any{
		"ram":         "sixteen",
		"brand_name":  float64(5),
		"touchscreen": "yes",
	})

	assert.Equal(t, 0, pred.Len())
}

func TestAsInt64(t *testing.T) {
	n, ok := asInt64(float64(42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	n, ok = asInt64("120000")
	assert.True(t, ok)
	assert.Equal(t, int64(120000), n)

	_, ok = asInt64("cheap")
	assert.False(t, ok)

	_, ok = asInt64(true)
	assert.False(t, ok)
}
