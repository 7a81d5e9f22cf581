package units

import (
	"errors"
	"testing"

	"beersmith-bridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]Unit{
		"oz": Ounce, " LB ": Pound, "Kilograms": Kilogram, "fl oz": FluidOunce, "L": Liter, "pkg": Package,
	} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("cubit")
	assert.True(t, errors.Is(err, common.ErrUnsupportedUnit))
}

func TestConvertQuantity(t *testing.T) {
	v, err := ConvertQuantity(2, Pound, Ounce)
	require.NoError(t, err)
	assert.InDelta(t, 32.0, v, 1e-9)

	v, err = ConvertQuantity(1, Kilogram, Ounce)
	require.NoError(t, err)
	assert.InDelta(t, 35.274, v, 1e-3)

	v, err = ConvertQuantity(5, Gallon, FluidOunce)
	require.NoError(t, err)
	assert.InDelta(t, 640.0, v, 1e-9)

	_, err = ConvertQuantity(1, Kilogram, Liter)
	assert.True(t, errors.Is(err, common.ErrUnsupportedUnit))
}

func TestConvertPriceIsInverseOfQuantity(t *testing.T) {
	// 每公斤 3.75 等於每盎司約 0.1063，而不是乘上 35.274
	perOz, err := ConvertPrice(3.75, Kilogram, Ounce)
	require.NoError(t, err)
	assert.InDelta(t, 0.1063, perOz, 1e-4)

	perLb, err := ConvertPrice(perOz, Ounce, Pound)
	require.NoError(t, err)
	assert.InDelta(t, perOz*16, perLb, 1e-9)

	back, err := ConvertPrice(perOz, Ounce, Kilogram)
	require.NoError(t, err)
	assert.InDelta(t, 3.75, back, 1e-9)
}

func TestFluidOuncesToLiters(t *testing.T) {
	assert.InDelta(t, 0.0295735, FluidOuncesToLiters(1), 1e-7)
	assert.InDelta(t, 18.927, FluidOuncesToLiters(640), 1e-3)
}
