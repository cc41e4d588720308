package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	require.True(t, dec("10.005").Equal(dec("10.005")))
	require.True(t, Round(dec("10.005")).Equal(dec("10.01")))
	require.True(t, Round(dec("10.004")).Equal(dec("10.00")))
	require.True(t, Round(dec("10.015")).Equal(dec("10.02")))
	require.True(t, Round(dec("2499.995")).Equal(dec("2500.00")))
	require.True(t, Round(dec("100")).Equal(dec("100")))
}

func TestPercent(t *testing.T) {
	t.Parallel()

	require.True(t, Percent(dec("250000"), dec("10")).Equal(dec("25000")))
	require.True(t, Percent(dec("55000"), dec("15")).Equal(dec("8250")))
	require.True(t, Percent(dec("100"), dec("0")).Equal(decimal.Zero))
}

func TestMin(t *testing.T) {
	t.Parallel()

	require.True(t, Min(dec("5"), dec("10")).Equal(dec("5")))
	require.True(t, Min(dec("10"), dec("5")).Equal(dec("5")))
	require.True(t, Min(dec("7"), dec("7")).Equal(dec("7")))
}

func TestClampFloor(t *testing.T) {
	t.Parallel()

	require.True(t, ClampFloor(dec("-3"), decimal.Zero).Equal(decimal.Zero))
	require.True(t, ClampFloor(dec("3"), decimal.Zero).Equal(dec("3")))
	require.True(t, ClampFloor(decimal.Zero, decimal.Zero).Equal(decimal.Zero))
}
