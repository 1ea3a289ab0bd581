package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{950, "$950"},
		{294000, "$294,000"},
		{1250000, "$1,250,000"},
		{-5000, "-$5,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.amount))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "36.7%", Percent(36.744, true))
	assert.Equal(t, "-4.0%", Percent(-4, true))
	assert.Equal(t, NotAvailable, Percent(12, false))
}
