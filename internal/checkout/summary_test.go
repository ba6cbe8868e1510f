package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{99, "0.99"},
		{100, "1.00"},
		{123456, "1,234.56"},
		{100000, "1,000.00"},
		{999999999, "9,999,999.99"},
		{123456789012, "1,234,567,890.12"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinorUnits(tt.amount), "amount %d", tt.amount)
	}
}

func TestFormatMinorUnitsNegative(t *testing.T) {
	assert.Equal(t, "-1,234.56", FormatMinorUnits(-123456))
}

func TestNewSummary(t *testing.T) {
	s := NewSummary(123456)

	assert.Equal(t, int64(123456), s.AmountMinor)
	assert.Equal(t, "1,234.56", s.Total)

	if assert.Len(t, s.Actions, 2) {
		assert.Equal(t, "/payments", s.Actions[0].Target)
		assert.Equal(t, int64(123456), s.Actions[0].AmountMinor)
		assert.Equal(t, "/shipping", s.Actions[1].Target)
	}
}

func TestNewSummaryZero(t *testing.T) {
	s := NewSummary(0)
	assert.Equal(t, "0.00", s.Total)
}
