package reports

import (
	"fmt"
	"io"

	"crmbot-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX выгружает отчёт в Excel: лист со сводом и лист с
// расхождениями по сменам.
func WriteXLSX(r *DealsReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Сводка"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("подготовка листа: %w", err)
	}

	rows := [][]any{
		{"Период", r.Start.Format("2006-01-02") + " — " + r.End.Format("2006-01-02")},
		{},
		{"", "Операций", "Итог", "Выдано", "Возвраты", "Наличные", "Безнал"},
		totalsRow("Всего", &r.Overall),
	}
	for _, dt := range []models.DealType{models.DealOperation, models.DealInstallment} {
		if t := r.ByType[dt]; t != nil && t.TotalCount > 0 {
			rows = append(rows, totalsRow(typeTitles[dt], t))
		}
	}
	rows = append(rows, []any{})
	rows = append(rows, []any{"Сотрудник", "Операций", "Итог", "Выдано", "Возвраты", "Наличные", "Безнал"})
	for _, wt := range r.Workers {
		name := wt.Name
		if name == "" {
			name = wt.Phone
		}
		rows = append(rows, totalsRow(name, &wt.Totals))
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return fmt.Errorf("запись строки: %w", err)
		}
	}

	if len(r.Mismatches) > 0 {
		const sheet = "Расхождения"
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("создание листа: %w", err)
		}
		header := []any{"Смена", "Сотрудник", "Телефон", "Закрыта", "Нал diff", "Безнал diff"}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("запись строки: %w", err)
		}
		for i, m := range r.Mismatches {
			row := []any{
				m.ShiftID, m.WorkerName, m.WorkerPhone,
				m.ClosedAt.Format("2006-01-02 15:04"),
				m.CashDiff.InexactFloat64(), m.BankDiff.InexactFloat64(),
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("запись строки: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("выгрузка файла: %w", err)
	}
	return nil
}

func totalsRow(title string, t *Totals) []any {
	return []any{
		title, t.TotalCount,
		t.NetSum.InexactFloat64(),
		t.IssuedSum.InexactFloat64(),
		t.ReturnSum.InexactFloat64(),
		t.CashSum.InexactFloat64(),
		t.BankSum.InexactFloat64(),
	}
}
