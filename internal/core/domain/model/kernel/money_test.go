package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create money with valid amount and currency", func(t *testing.T) {
		money, err := kernel.NewMoney(2500, "EUR")

		require.NoError(t, err)
		assert.Equal(t, int64(2500), money.Amount())
		assert.Equal(t, "EUR", money.Currency())
		assert.NoError(t, money.Validate())
	})

	t.Run("should create zero money", func(t *testing.T) {
		money, err := kernel.NewZeroMoney("USD")

		require.NoError(t, err)
		assert.Equal(t, int64(0), money.Amount())
	})

	t.Run("should reject negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1, "EUR")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject malformed currency", func(t *testing.T) {
		for _, currency := range []string{"", "EU", "EURO"} {
			_, err := kernel.NewMoney(100, currency)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})
}

func TestMoney_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var money kernel.Money

		err := money.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrMoneyIsNotConstructed, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds amounts of the same currency", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "EUR")
		b, _ := kernel.NewMoney(250, "EUR")

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, int64(1250), sum.Amount())
		assert.Equal(t, "EUR", sum.Currency())
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "EUR")
		b, _ := kernel.NewMoney(250, "USD")

		_, err := a.Add(b)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects zero value operands", func(t *testing.T) {
		a, _ := kernel.NewMoney(1000, "EUR")
		var b kernel.Money

		_, err := a.Add(b)

		require.Error(t, err)
	})
}

func TestMoney_Mul(t *testing.T) {
	t.Run("multiplies by positive factor", func(t *testing.T) {
		price, _ := kernel.NewMoney(700, "EUR")

		total, err := price.Mul(3)

		require.NoError(t, err)
		assert.Equal(t, int64(2100), total.Amount())
	})

	t.Run("multiplies by zero", func(t *testing.T) {
		price, _ := kernel.NewMoney(700, "EUR")

		total, err := price.Mul(0)

		require.NoError(t, err)
		assert.Equal(t, int64(0), total.Amount())
	})

	t.Run("rejects negative factor", func(t *testing.T) {
		price, _ := kernel.NewMoney(700, "EUR")

		_, err := price.Mul(-2)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_String(t *testing.T) {
	money, _ := kernel.NewMoney(2500, "EUR")
	assert.Equal(t, "2500 EUR", money.String())
}
