package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := New(125000, "eur")
	require.NoError(t, err)
	assert.Equal(t, int64(125000), m.Amount)
	assert.Equal(t, "EUR", m.Currency, "currency is normalized to upper case")

	_, err = New(100, "euros")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
	_, err = New(100, "")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestArithmetic(t *testing.T) {
	a := Must(60000, "EUR")
	b := Must(12000, "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(72000), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(48000), diff.Amount)

	_, err = a.Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMultiplyAndPercent(t *testing.T) {
	m := Must(60000, "EUR")
	assert.Equal(t, int64(720000), m.Multiply(12).Amount)
	assert.Equal(t, int64(6000), m.Percent(10).Amount)
	assert.Equal(t, int64(30000), m.Percent(50).Amount)

	// Truncation toward zero on odd amounts.
	odd := Must(1001, "EUR")
	assert.Equal(t, int64(500), odd.Percent(50).Amount)
}

func TestPredicates(t *testing.T) {
	assert.True(t, Must(1, "EUR").IsPositive())
	assert.False(t, Must(0, "EUR").IsPositive())
	assert.True(t, Must(0, "EUR").IsZero())
}
