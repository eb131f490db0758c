package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{4645, "$4,645.00"},
		{6659.4, "$6,659.40"},
		{1234567.891, "$1,234,567.89"},
		{0.005, "$0.01"},
		{-12, "-$12.00"},
		{math.NaN(), "$0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in), "Currency(%v)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "10%", Percent(10))
	assert.Equal(t, "12.5%", Percent(12.5))
	assert.Equal(t, "8.33%", Percent(8.3333))
	assert.Equal(t, "0%", Percent(math.Inf(1)))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 6659.4, RoundCents(6659.399999999))
	assert.Equal(t, 1.01, RoundCents(1.005))
}
