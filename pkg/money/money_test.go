package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(7998), ToMinor(decimal.RequireFromString("79.98")))
	assert.Equal(t, int64(17900), ToMinor(decimal.NewFromInt(179)))
	assert.Equal(t, int64(1001), ToMinor(decimal.RequireFromString("10.005")))
}

func TestFromMinor(t *testing.T) {
	assert.True(t, decimal.RequireFromString("49.99").Equal(FromMinor(4999)))
}

func TestPercent(t *testing.T) {
	assert.True(t, decimal.NewFromInt(20).Equal(Percent(decimal.NewFromInt(200), decimal.NewFromInt(10))))
}

func TestSum_NoFloatDrift(t *testing.T) {
	total := Sum(decimal.RequireFromString("49.99"), decimal.RequireFromString("29.99"))
	assert.Equal(t, "79.98", total.StringFixed(2))

	var drift decimal.Decimal
	for i := 0; i < 10; i++ {
		drift = drift.Add(decimal.RequireFromString("0.1"))
	}
	assert.True(t, decimal.NewFromInt(1).Equal(drift))
}
