package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edulink/tuition-engine/ledger"
)

func TestPercentOf_RoundsHalfUpToTwoPlaces(t *testing.T) {
	cases := []struct {
		amount, pct, want string
	}{
		{"2000000", "10", "200000"},
		{"333333", "12.5", "41666.63"},  // 41666.625 rounds up
		{"100", "33.333", "33.33"},      // 33.333 rounds down
		{"1", "0.5", "0.01"},            // 0.005 rounds up
		{"0", "40", "0"},
	}
	for _, c := range cases {
		got := ledger.PercentOf(ledger.Money(c.amount), ledger.Money(c.pct))
		assert.Equal(t, c.want, got.String(), "%s%% of %s", c.pct, c.amount)
	}
}

func TestClampNonNegative(t *testing.T) {
	assert.Equal(t, "0", ledger.ClampNonNegative(ledger.Money("-500")).String())
	assert.Equal(t, "0", ledger.ClampNonNegative(ledger.Money("0")).String())
	assert.Equal(t, "500", ledger.ClampNonNegative(ledger.Money("500")).String())
}

func TestMoney_UnparsableIsZero(t *testing.T) {
	assert.True(t, ledger.Money("").IsZero())
	assert.True(t, ledger.Money("not-a-number").IsZero())
	assert.Equal(t, "12.5", ledger.Money("12.50").String())
}
