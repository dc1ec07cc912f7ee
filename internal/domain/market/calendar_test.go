package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, newYork())
	require.NoError(t, err)
	return ts
}

func TestStocksCalendar_IsOpen(t *testing.T) {
	calendar := NewStocksCalendar("2024-12-25")

	tests := []struct {
		name     string
		at       string
		expected bool
	}{
		{"before open", "2024-10-01 09:29", false},
		{"at open", "2024-10-01 09:30", true},
		{"midday", "2024-10-01 12:00", true},
		{"last minute", "2024-10-01 15:59", true},
		{"at close", "2024-10-01 16:00", false},
		{"saturday", "2024-10-05 12:00", false},
		{"sunday", "2024-10-06 12:00", false},
		{"holiday", "2024-12-25 12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calendar.IsOpen("AAPL", nyTime(t, tt.at)))
		})
	}
}

func TestStocksCalendar_ConvertsTimezone(t *testing.T) {
	calendar := NewStocksCalendar()

	// 14:00 UTC on a weekday in October is 10:00 in New York (EDT)
	at := time.Date(2024, 10, 1, 14, 0, 0, 0, time.UTC)
	assert.True(t, calendar.IsOpen("AAPL", at))

	// 03:00 UTC is the previous evening in New York
	assert.False(t, calendar.IsOpen("AAPL", time.Date(2024, 10, 1, 3, 0, 0, 0, time.UTC)))
}

func TestForexCalendar_IsOpen(t *testing.T) {
	calendar := NewForexCalendar()

	assert.False(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-05 12:00")), "saturday")
	assert.False(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-06 16:59")), "sunday before open")
	assert.True(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-06 17:00")), "sunday open")
	assert.True(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-08 03:00")), "midweek")
	assert.True(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-04 16:59")), "friday before close")
	assert.False(t, calendar.IsOpen("EURUSD", nyTime(t, "2024-10-04 17:00")), "friday close")
}

func TestForMarket(t *testing.T) {
	calendar, err := ForMarket(Crypto)
	require.NoError(t, err)
	assert.True(t, calendar.IsOpen("BTC-USDT", nyTime(t, "2024-10-05 03:00")))

	_, err = ForMarket(Market("futures"))
	assert.Error(t, err)

	m, err := ParseMarket("stocks")
	require.NoError(t, err)
	assert.Equal(t, Stocks, m)

	_, err = ParseMarket("bonds")
	assert.Error(t, err)
}
