package reports

import (
	"fmt"
	"strings"

	"crmbot-backend/internal/models"
	"crmbot-backend/internal/money"
)

var typeTitles = map[models.DealType]string{
	models.DealOperation:   "Обычные операции",
	models.DealInstallment: "Рассрочки",
}

// RenderText собирает текст отчёта для ответа в чате.
func RenderText(r *DealsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Отчёт %s — %s\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	writeTotals(&b, &r.Overall, "")

	for _, dt := range []models.DealType{models.DealOperation, models.DealInstallment} {
		t := r.ByType[dt]
		if t == nil || t.TotalCount == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", typeTitles[dt])
		writeTotals(&b, t, "  ")
	}

	if len(r.Workers) > 0 {
		b.WriteString("\nПо сотрудникам:\n")
		for _, w := range r.Workers {
			name := w.Name
			if name == "" {
				name = w.Phone
			}
			fmt.Fprintf(&b, "  %s: %d оп., итог %s\n",
				name, w.TotalCount, money.Format(w.NetSum))
		}
	}

	if len(r.Mismatches) > 0 {
		b.WriteString("\n⚠️ Расхождения при закрытии смен:\n")
		for _, m := range r.Mismatches {
			name := m.WorkerName
			if name == "" {
				name = m.WorkerPhone
			}
			fmt.Fprintf(&b, "  %s (%s): нал %s, безнал %s\n",
				name, m.ClosedAt.Format("2006-01-02"),
				money.Format(m.CashDiff), money.Format(m.BankDiff))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeTotals(b *strings.Builder, t *Totals, indent string) {
	fmt.Fprintf(b, "%sОпераций: %d\n", indent, t.TotalCount)
	fmt.Fprintf(b, "%sИтог: %s\n", indent, money.Format(t.NetSum))
	fmt.Fprintf(b, "%sВыдано: %s (%d)\n", indent, money.Format(t.IssuedSum), t.IssuedCount)
	fmt.Fprintf(b, "%sВозвраты: %s (%d)\n", indent, money.Format(t.ReturnSum), t.ReturnCount)
	fmt.Fprintf(b, "%sНаличные: %s (%d)\n", indent, money.Format(t.CashSum), t.CashCount)
	fmt.Fprintf(b, "%sБезнал: %s (%d)\n", indent, money.Format(t.BankSum), t.BankCount)
}
