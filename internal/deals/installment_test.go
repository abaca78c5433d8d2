package deals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInstallment(t *testing.T) {
	// 1000 под 20% на 5 месяцев с взносом 200
	plan, err := ComputeInstallment(dec("1000"), dec("20"), 5, dec("200"))
	require.NoError(t, err)
	assert.True(t, plan.MarkupAmount.Equal(dec("200")))
	assert.True(t, plan.Total.Equal(dec("1200")))
	assert.True(t, plan.Remaining.Equal(dec("1000")))
	assert.True(t, plan.MonthlyPayment.Equal(dec("200")))
}

func TestComputeInstallmentRoundsMonthly(t *testing.T) {
	// 1150 / 3 = 383.33 -> 383
	plan, err := ComputeInstallment(dec("1000"), dec("15"), 3, dec("0"))
	require.NoError(t, err)
	assert.True(t, plan.Total.Equal(dec("1150")))
	assert.True(t, plan.MonthlyPayment.Equal(dec("383")), "получили %s", plan.MonthlyPayment)

	// Половина округляется вверх: 1001 / 2 = 500.5 -> 501
	plan, err = ComputeInstallment(dec("910"), dec("10"), 2, dec("0"))
	require.NoError(t, err)
	assert.True(t, plan.Total.Equal(dec("1001")))
	assert.True(t, plan.MonthlyPayment.Equal(dec("501")), "получили %s", plan.MonthlyPayment)
}

func TestComputeInstallmentValidation(t *testing.T) {
	cases := []struct {
		name    string
		price   string
		percent string
		term    int
		down    string
	}{
		{"нулевая цена", "0", "20", 5, "0"},
		{"отрицательная цена", "-100", "20", 5, "0"},
		{"процент меньше 1", "1000", "0.5", 5, "0"},
		{"процент больше 100", "1000", "101", 5, "0"},
		{"нулевой срок", "1000", "20", 0, "0"},
		{"срок больше 120", "1000", "20", 121, "0"},
		{"отрицательный взнос", "1000", "20", 5, "-1"},
		{"взнос больше итога", "1000", "20", 5, "1201"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ComputeInstallment(dec(c.price), dec(c.percent), c.term, dec(c.down))
			assert.Error(t, err)
		})
	}
}

func TestComputeInstallmentDownPaymentEqualsTotal(t *testing.T) {
	// Взнос на всю сумму допустим, ежемесячный платёж получается нулевым
	plan, err := ComputeInstallment(dec("1000"), dec("20"), 5, dec("1200"))
	require.NoError(t, err)
	assert.True(t, plan.Remaining.IsZero())
	assert.True(t, plan.MonthlyPayment.IsZero())
}
