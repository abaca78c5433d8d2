package reports

import (
	"bytes"
	"fmt"
	"time"

	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/timeutil"

	"github.com/gofiber/fiber/v2"
)

type TotalsResponse struct {
	TotalCount  int     `json:"total_count"`
	NetSum      float64 `json:"net_sum"`
	IssuedSum   float64 `json:"issued_sum"`
	IssuedCount int     `json:"issued_count"`
	ReturnSum   float64 `json:"return_sum"`
	ReturnCount int     `json:"return_count"`
	CashSum     float64 `json:"cash_sum"`
	CashCount   int     `json:"cash_count"`
	BankSum     float64 `json:"bank_sum"`
	BankCount   int     `json:"bank_count"`
}

type WorkerTotalsResponse struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	TotalsResponse
}

type MismatchResponse struct {
	ShiftID     uint    `json:"shift_id"`
	WorkerPhone string  `json:"worker_phone"`
	WorkerName  string  `json:"worker_name"`
	ClosedAt    string  `json:"closed_at"`
	CashDiff    float64 `json:"cash_diff"`
	BankDiff    float64 `json:"bank_diff"`
}

type DealsReportResponse struct {
	Start      string                              `json:"start"`
	End        string                              `json:"end"`
	Overall    TotalsResponse                      `json:"overall"`
	ByType     map[models.DealType]*TotalsResponse `json:"by_type"`
	Workers    []WorkerTotalsResponse              `json:"workers"`
	Mismatches []MismatchResponse                  `json:"mismatches"`
}

func totalsResponse(t *Totals) TotalsResponse {
	return TotalsResponse{
		TotalCount:  t.TotalCount,
		NetSum:      t.NetSum.InexactFloat64(),
		IssuedSum:   t.IssuedSum.InexactFloat64(),
		IssuedCount: t.IssuedCount,
		ReturnSum:   t.ReturnSum.InexactFloat64(),
		ReturnCount: t.ReturnCount,
		CashSum:     t.CashSum.InexactFloat64(),
		CashCount:   t.CashCount,
		BankSum:     t.BankSum.InexactFloat64(),
		BankCount:   t.BankCount,
	}
}

func toResponse(r *DealsReport) DealsReportResponse {
	resp := DealsReportResponse{
		Start:   r.Start.Format("2006-01-02"),
		End:     r.End.Format("2006-01-02"),
		Overall: totalsResponse(&r.Overall),
		ByType:  make(map[models.DealType]*TotalsResponse, len(r.ByType)),
	}
	for dt, t := range r.ByType {
		tr := totalsResponse(t)
		resp.ByType[dt] = &tr
	}
	for _, w := range r.Workers {
		resp.Workers = append(resp.Workers, WorkerTotalsResponse{
			Phone:          w.Phone,
			Name:           w.Name,
			TotalsResponse: totalsResponse(&w.Totals),
		})
	}
	for _, m := range r.Mismatches {
		resp.Mismatches = append(resp.Mismatches, MismatchResponse{
			ShiftID:     m.ShiftID,
			WorkerPhone: m.WorkerPhone,
			WorkerName:  m.WorkerName,
			ClosedAt:    m.ClosedAt.Format(time.RFC3339),
			CashDiff:    m.CashDiff.InexactFloat64(),
			BankDiff:    m.BankDiff.InexactFloat64(),
		})
	}
	return resp
}

func asFiberError(err error) error {
	if domain.IsDomain(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Не удалось построить отчёт")
}

func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Параметры from и to обязательны (YYYY-MM-DD)")
	}
	from, err := timeutil.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Дата from некорректна")
	}
	to, err := timeutil.ParseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Дата to некорректна")
	}
	return from, to, nil
}

// -------------------------------------------------
// GET /api/reports/deals?from=2025-01-01&to=2025-01-31&worker=79991234567
// -------------------------------------------------
func DealsReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parsePeriod(c)
		if err != nil {
			return err
		}

		report, err := svc.BuildDealsReport(from, to, c.Query("worker"))
		if err != nil {
			return asFiberError(err)
		}
		return c.JSON(toResponse(report))
	}
}

// -------------------------------------------------
// GET /api/reports/deals/export - тот же отчёт файлом .xlsx
// -------------------------------------------------
func ExportDealsReportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parsePeriod(c)
		if err != nil {
			return err
		}

		report, err := svc.BuildDealsReport(from, to, c.Query("worker"))
		if err != nil {
			return asFiberError(err)
		}

		var buf bytes.Buffer
		if err := WriteXLSX(report, &buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось сформировать файл")
		}

		filename := fmt.Sprintf("deals-report-%s-%s.xlsx",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}

// -------------------------------------------------
// GET /api/reports/mismatches?from=...&to=...
// -------------------------------------------------
func MismatchesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parsePeriod(c)
		if err != nil {
			return err
		}

		list, err := svc.Mismatches(from, to)
		if err != nil {
			return asFiberError(err)
		}

		resp := make([]MismatchResponse, 0, len(list))
		for _, m := range list {
			resp = append(resp, MismatchResponse{
				ShiftID:     m.ShiftID,
				WorkerPhone: m.WorkerPhone,
				WorkerName:  m.WorkerName,
				ClosedAt:    m.ClosedAt.Format(time.RFC3339),
				CashDiff:    m.CashDiff.InexactFloat64(),
				BankDiff:    m.BankDiff.InexactFloat64(),
			})
		}
		return c.JSON(resp)
	}
}
