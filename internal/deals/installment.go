package deals

import (
	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/money"

	"github.com/shopspring/decimal"
)

// InstallmentPlan - расчёт рассрочки, сохраняется в полях Deal.
type InstallmentPlan struct {
	ProductPrice  decimal.Decimal
	MarkupPercent decimal.Decimal
	MarkupAmount  decimal.Decimal
	TermMonths    int
	DownPayment   decimal.Decimal
	Total         decimal.Decimal
	Remaining     decimal.Decimal
	// Ежемесячный платёж округлён до целых единиц, половина - вверх.
	MonthlyPayment decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeInstallment считает наценку, итог и ежемесячный платёж:
// markup = price * percent / 100, total = price + markup,
// monthly = round((total - down) / term).
func ComputeInstallment(price, percent decimal.Decimal, termMonths int, downPayment decimal.Decimal) (*InstallmentPlan, error) {
	if !price.IsPositive() {
		return nil, domain.Validation("Цена товара должна быть больше 0.")
	}
	if percent.LessThan(decimal.NewFromInt(1)) || percent.GreaterThan(hundred) {
		return nil, domain.Validation("Процент наценки должен быть от 1 до 100.")
	}
	if termMonths < 1 || termMonths > 120 {
		return nil, domain.Validation("Срок рассрочки должен быть от 1 до 120 месяцев.")
	}
	if downPayment.IsNegative() {
		return nil, domain.Validation("Первоначальный взнос не может быть отрицательным.")
	}

	markup := price.Mul(percent).Div(hundred)
	total := price.Add(markup)
	if downPayment.GreaterThan(total) {
		return nil, domain.Validation("Первоначальный взнос не может превышать сумму рассрочки.")
	}

	remaining := total.Sub(downPayment)
	monthly := money.RoundWhole(remaining.Div(decimal.NewFromInt(int64(termMonths))))

	return &InstallmentPlan{
		ProductPrice:   price,
		MarkupPercent:  percent,
		MarkupAmount:   markup,
		TermMonths:     termMonths,
		DownPayment:    downPayment,
		Total:          total,
		Remaining:      remaining,
		MonthlyPayment: monthly,
	}, nil
}
