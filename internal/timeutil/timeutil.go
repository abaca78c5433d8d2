package timeutil

import (
	"log"
	"time"
)

// Все "сегодня" и границы отчётных периодов считаются в бизнес-часовом
// поясе и только потом переводятся в UTC для сравнения с created_at.
var BusinessZone *time.Location

func init() {
	var err error
	BusinessZone, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.Printf("Не удалось загрузить Europe/Moscow, используется фиксированный сдвиг: %v", err)
		BusinessZone = time.FixedZone("MSK", 3*60*60)
	}
}

// Now возвращает текущее время в бизнес-поясе.
func Now() time.Time {
	return time.Now().In(BusinessZone)
}

// DayBounds возвращает границы суток (в UTC) для даты в бизнес-поясе.
func DayBounds(day time.Time) (start, end time.Time) {
	y, m, d := day.In(BusinessZone).Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, BusinessZone).UTC()
	end = time.Date(y, m, d, 23, 59, 59, 999999999, BusinessZone).UTC()
	return start, end
}

// PeriodBounds возвращает границы включительного диапазона дат (в UTC).
func PeriodBounds(from, to time.Time) (start, end time.Time) {
	start, _ = DayBounds(from)
	_, end = DayBounds(to)
	return start, end
}

// ParseDate разбирает дату формата YYYY-MM-DD в бизнес-поясе.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", raw, BusinessZone)
}
