package calculation

import (
	"testing"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixEntry(t *testing.T) {
	mix := MixEntry([]domain.EntrySlice{
		{Method: "pix", Amount: dec("1000"), FeePct: dec("0")},
		{Method: "card", Amount: dec("500"), FeePct: dec("2.5")},
	})

	assert.True(t, dec("1500").Equal(mix.Gross), "gross %s", mix.Gross)
	assert.True(t, dec("1487.5").Equal(mix.Net), "net %s", mix.Net)
}

func TestMixEntry_Empty(t *testing.T) {
	mix := MixEntry(nil)
	assert.True(t, mix.Gross.IsZero())
	assert.True(t, mix.Net.IsZero())
}

func TestGrossUpEntry(t *testing.T) {
	t.Run("proportional to slice amounts", func(t *testing.T) {
		slices := []domain.EntrySlice{
			{Method: "pix", Amount: dec("1000"), FeePct: dec("0")},
			{Method: "card", Amount: dec("500"), FeePct: dec("2.5")},
		}
		out, mix := GrossUpEntry(dec("1487.5"), slices)

		require.Len(t, out, 2)
		assert.InDelta(t, 991.6667, out[0].Amount.InexactFloat64(), 1e-3)
		assert.InDelta(t, 508.5470, out[1].Amount.InexactFloat64(), 1e-3)
		assert.True(t, dec("1487.5").Equal(mix.Net))
		assert.InDelta(t, 1487.5, MixEntry(out).Net.InexactFloat64(), 1e-9)
	})

	t.Run("even split when amounts are zero", func(t *testing.T) {
		slices := []domain.EntrySlice{
			{Method: "pix", FeePct: dec("0")},
			{Method: "boleto", FeePct: dec("50")},
		}
		out, mix := GrossUpEntry(dec("1000"), slices)

		assert.True(t, dec("500").Equal(out[0].Amount))
		assert.True(t, dec("1000").Equal(out[1].Amount))
		assert.True(t, dec("1500").Equal(mix.Gross))
		assert.True(t, dec("1000").Equal(mix.Net))
	})

	t.Run("no slices means no fees", func(t *testing.T) {
		out, mix := GrossUpEntry(dec("800"), nil)
		assert.Nil(t, out)
		assert.True(t, dec("800").Equal(mix.Gross))
		assert.True(t, dec("800").Equal(mix.Net))
	})

	t.Run("input is not modified", func(t *testing.T) {
		slices := []domain.EntrySlice{{Method: "card", Amount: dec("100"), FeePct: dec("10")}}
		GrossUpEntry(dec("900"), slices)
		assert.True(t, dec("100").Equal(slices[0].Amount))
	})
}

func TestBlendedFeeRate(t *testing.T) {
	slices := []domain.EntrySlice{
		{Amount: dec("1000"), FeePct: dec("0")},
		{Amount: dec("500"), FeePct: dec("2.5")},
	}
	assert.InDelta(t, 0.8333, BlendedFeeRate(slices).InexactFloat64(), 1e-4)
	assert.InDelta(t, 1487.5, NetAfterFees(dec("1500"), slices).InexactFloat64(), 1e-9)
	assert.True(t, BlendedFeeRate(nil).IsZero())
}
