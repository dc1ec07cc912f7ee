package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadModel_Spread(t *testing.T) {
	model, err := NewSpreadModel(0.01, 0.0005, map[string]float64{"BTC-USD": 1.5})
	require.NoError(t, err)

	tests := []struct {
		name     string
		symbol   string
		quantity float64
		expected float64
	}{
		{"default base", "AAPL", 0, 0.01},
		{"impact grows with size", "AAPL", 100, 0.06},
		{"override base", "BTC-USD", 2, 1.501},
		{"negative quantity uses size", "AAPL", -100, 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, model.Spread(tt.symbol, tt.quantity), 1e-12)
		})
	}
}

func TestNewSpreadModel_RejectsNegative(t *testing.T) {
	_, err := NewSpreadModel(-1, 0, nil)
	assert.Error(t, err)

	_, err = NewSpreadModel(0, -0.1, nil)
	assert.Error(t, err)

	_, err = NewSpreadModel(0, 0, map[string]float64{"AAPL": -0.5})
	assert.Error(t, err)
}

func TestNewSpreadModel_RejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		_, err := NewSpreadModel(v, 0, nil)
		assert.Error(t, err)

		_, err = NewSpreadModel(0, v, nil)
		assert.Error(t, err)

		_, err = NewSpreadModel(0.01, 0, map[string]float64{"AAPL": v})
		assert.Error(t, err)
	}
}

func TestParseOverrides(t *testing.T) {
	overrides, err := ParseOverrides(" AAPL:0.02, BTC-USD:1.5 ,,")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"AAPL": 0.02, "BTC-USD": 1.5}, overrides)

	empty, err := ParseOverrides("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseOverrides("AAPL")
	assert.Error(t, err)

	_, err = ParseOverrides(":1")
	assert.Error(t, err)

	_, err = ParseOverrides("AAPL:abc")
	assert.Error(t, err)

	for _, raw := range []string{"AAPL:NaN", "AAPL:Inf", "AAPL:-1"} {
		_, err = ParseOverrides(raw)
		assert.Error(t, err, raw)
	}
}

func TestSpreadModel_Overrides(t *testing.T) {
	model, err := NewSpreadModel(0, 0, map[string]float64{"MSFT": 0.03, "AAPL": 0.02})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL:0.02", "MSFT:0.03"}, model.Overrides())
}
