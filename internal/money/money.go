package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse разбирает введённую пользователем сумму. Допускаются ведущий
// знак и запятая в роли десятичного разделителя.
func Parse(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("сумма должна быть числом")
	}
	return d, nil
}

// RoundWhole округляет до целых единиц валюты, половина - вверх.
func RoundWhole(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Format выводит сумму без дробной части, разряды разделены пробелами:
// 12500 -> "12 500".
func Format(d decimal.Decimal) string {
	s := RoundWhole(d).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
