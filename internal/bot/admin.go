package bot

import (
	"fmt"
	"strconv"
	"strings"

	"crmbot-backend/internal/models"
	"crmbot-backend/internal/money"
	"crmbot-backend/internal/reports"
	"crmbot-backend/internal/timeutil"
)

func (b *Bot) adminButton(chat, txt string) {
	switch txt {
	case "Добавить сотрудника":
		b.store.set(chat, &adminAddingManager{})
		b.answer(chat, "Введите номер сотрудника 7XXXXXXXXXX (и через пробел имя, если нужно).")
	case "Отключить сотрудника":
		b.store.set(chat, &adminDisablingManager{})
		b.answer(chat, "Введите номер сотрудника для отключения.")
	case "Корректировка баланса":
		b.store.set(chat, &adminAdjusting{})
		b.answer(chat, "Введите номер сотрудника для корректировки.")
	case "Удалить операцию":
		b.startDeleteDeal(chat)
	case "Отчёт":
		b.store.set(chat, &adminReporting{})
		b.answer(chat, "Укажите период отчёта в формате YYYY-MM-DD YYYY-MM-DD и (опционально) номер сотрудника.\nПример: 2025-01-01 2025-01-31 79991234567")
	case "Сводка за сегодня":
		b.sendTodaySummary(chat)
	default:
		b.answer(chat, "Команда пока не поддерживается.")
	}
}

// requireAdminUser возвращает учётку админа из справочника. Номер из
// конфигурации уже проверен, но операции пишутся от имени записи в БД.
func (b *Bot) requireAdminUser(chat string) (*models.User, bool) {
	user, err := b.users.GetActiveByPhone(chat)
	if err != nil {
		b.fail(chat, err)
		return nil, false
	}
	if user == nil || user.Role != models.RoleAdmin {
		b.store.clear(chat)
		b.answer(chat, "Админ не найден. Выполните сидирование админов.")
		return nil, false
	}
	return user, true
}

func (b *Bot) addManagerStep(chat, text string) {
	b.store.clear(chat)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		b.answer(chat, "Номер не должен быть пустым.")
		return
	}
	phone := fields[0]
	name := strings.Join(fields[1:], " ")

	user, err := b.admin.AddManager(phone, name)
	if err != nil {
		b.fail(chat, err)
		return
	}

	msg := fmt.Sprintf("Менеджер %s активирован.", user.Phone)
	if user.Name != "" {
		msg += fmt.Sprintf(" Имя: %s.", user.Name)
	}
	b.answer(chat, msg)
}

func (b *Bot) disableManagerStep(chat, text string) {
	b.store.clear(chat)

	user, err := b.admin.DisableManager(strings.TrimSpace(text))
	if err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, fmt.Sprintf("Доступ для %s отключён.", user.Phone))
}

func (b *Bot) adjustStep(chat string, st *adminAdjusting, text string) {
	switch st.step {
	case adjustAwaitPhone:
		st.workerPhone = strings.TrimSpace(text)
		st.step = adjustAwaitKind
		b.store.set(chat, st)
		b.sendMenu(chat, "", "Какой баланс корректируем?", []string{"Наличные", "Безнал"})

	case adjustAwaitKind:
		method, ok := parseMethod(text)
		if !ok {
			b.answer(chat, "Выберите: Наличные или Безнал.")
			return
		}
		st.method = method
		st.step = adjustAwaitDelta
		b.store.set(chat, st)
		b.answer(chat, "Введите дельту (+/-) в рублях.")

	case adjustAwaitDelta:
		delta, err := money.Parse(text)
		if err != nil {
			b.store.clear(chat)
			b.answer(chat, err.Error())
			return
		}

		adminUser, ok := b.requireAdminUser(chat)
		if !ok {
			return
		}
		b.store.clear(chat)

		shift, err := b.admin.AdjustWorkerBalance(adminUser, st.workerPhone, delta, st.method)
		if err != nil {
			b.fail(chat, err)
			return
		}
		b.answer(chat, fmt.Sprintf("Баланс скорректирован. Текущий остаток: нал %s, безнал %s.",
			money.Format(shift.CurrentBalanceCash), money.Format(shift.CurrentBalanceBank)))
	}
}

func (b *Bot) startDeleteDeal(chat string) {
	// Показываем операции за сегодня, чтобы было из чего выбирать.
	list, err := b.deals.ListTodayDeals(5)
	if err != nil {
		b.fail(chat, err)
		return
	}

	prompt := "Введите ID операции для удаления."
	if len(list) > 0 {
		var lines []string
		for _, d := range list {
			who := d.WorkerName
			if who == "" {
				who = d.WorkerPhone
			}
			lines = append(lines, fmt.Sprintf("#%d %s — %s", d.ID, money.Format(d.TotalAmount), who))
		}
		prompt = "Операции за сегодня:\n" + strings.Join(lines, "\n") + "\n\n" + prompt
	}

	b.store.set(chat, &adminDeletingDeal{})
	b.answer(chat, prompt)
}

func (b *Bot) deleteDealStep(chat, text string) {
	b.store.clear(chat)

	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(text), "#"), 10, 64)
	if err != nil {
		b.answer(chat, "ID операции должно быть числом.")
		return
	}

	adminUser, ok := b.requireAdminUser(chat)
	if !ok {
		return
	}
	if _, err := b.admin.SoftDeleteDeal(adminUser, uint(id)); err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, fmt.Sprintf("Операция #%d помечена как удалённая.", id))
}

func (b *Bot) reportStep(chat, text string) {
	b.store.clear(chat)

	parts := strings.Fields(text)
	if len(parts) == 0 {
		b.answer(chat, "Укажите даты.")
		return
	}

	start, err := timeutil.ParseDate(parts[0])
	if err != nil {
		b.answer(chat, "Дата должна быть в формате YYYY-MM-DD.")
		return
	}
	end := start
	if len(parts) >= 2 {
		end, err = timeutil.ParseDate(parts[1])
		if err != nil {
			b.answer(chat, "Дата должна быть в формате YYYY-MM-DD.")
			return
		}
	}
	workerPhone := ""
	if len(parts) >= 3 {
		workerPhone = parts[2]
	}

	report, err := b.report.BuildDealsReport(start, end, workerPhone)
	if err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, reports.RenderText(report))
}

func (b *Bot) sendTodaySummary(chat string) {
	report, err := b.report.BuildTodaySummary()
	if err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, reports.RenderText(report))
}
