package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finacct/posting_engine/internal/core/domain"
	"github.com/finacct/posting_engine/internal/utils/accounting"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestConvert(t *testing.T) {
	t.Run("multiplies and rounds to minor units", func(t *testing.T) {
		got, err := accounting.Convert(dec("100"), dec("4.50"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("450")), "got %s", got)

		got, err = accounting.Convert(dec("33.33"), dec("0.333"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("11.10")), "got %s", got)
	})

	t.Run("identity rate returns the amount unchanged", func(t *testing.T) {
		got, err := accounting.Convert(dec("123.45"), decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("123.45")))
	})

	t.Run("rejects non-positive rates", func(t *testing.T) {
		_, err := accounting.Convert(dec("100"), decimal.Zero)
		assert.Error(t, err)

		_, err = accounting.Convert(dec("100"), dec("-4.5"))
		assert.Error(t, err)
	})

	t.Run("round trip stays within rounding tolerance", func(t *testing.T) {
		rates := []string{"4.50", "0.2279", "143.07", "1.085"}
		amounts := []string{"100", "0.01", "9999.99", "250.40"}
		for _, r := range rates {
			for _, a := range amounts {
				rate := dec(r)
				amount := dec(a)
				converted, err := accounting.Convert(amount, rate)
				require.NoError(t, err)
				back := converted.Div(rate).Round(accounting.MinorUnits)
				diff := back.Sub(amount).Abs()
				// Converting rounds to 0.005 at worst; dividing back scales
				// that by 1/rate and rounds once more.
				bound := dec("0.005").Div(rate).Add(dec("0.005"))
				assert.True(t, diff.LessThanOrEqual(bound),
					"round trip of %s at %s drifted by %s (bound %s)", a, r, diff, bound)
			}
		}
	})
}

func TestIsBalanced(t *testing.T) {
	lines := []domain.JournalLine{
		domain.DebitLine("acc-1", dec("100"), ""),
		domain.CreditLine("acc-2", dec("99.995"), ""),
	}
	assert.True(t, accounting.IsBalanced(lines, accounting.DefaultTolerance))

	lines[1].Credit = dec("99.98")
	assert.False(t, accounting.IsBalanced(lines, accounting.DefaultTolerance))

	assert.True(t, accounting.IsBalanced(nil, accounting.DefaultTolerance), "empty set of lines is trivially balanced")
}

func TestValidateLineShape(t *testing.T) {
	assert.NoError(t, accounting.ValidateLineShape(domain.DebitLine("a", dec("10"), "")))
	assert.NoError(t, accounting.ValidateLineShape(domain.CreditLine("a", dec("10"), "")))

	both := domain.JournalLine{AccountID: "a", Debit: dec("10"), Credit: dec("10")}
	assert.Error(t, accounting.ValidateLineShape(both))

	neither := domain.JournalLine{AccountID: "a"}
	assert.Error(t, accounting.ValidateLineShape(neither))

	negative := domain.JournalLine{AccountID: "a", Debit: dec("-10")}
	assert.Error(t, accounting.ValidateLineShape(negative))
}
