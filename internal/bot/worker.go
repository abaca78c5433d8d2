package bot

import (
	"fmt"
	"strconv"
	"strings"

	"crmbot-backend/internal/deals"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/money"
)

func (b *Bot) requireWorker(chat string) (*models.User, bool) {
	worker, err := b.users.GetActiveByPhone(chat)
	if err != nil {
		b.fail(chat, err)
		return nil, false
	}
	if worker == nil {
		b.store.clear(chat)
		b.answer(chat, workerForbiddenText)
		return nil, false
	}
	return worker, true
}

func (b *Bot) workerButton(chat, txt string) {
	switch txt {
	case "Открыть смену":
		b.startOpenShift(chat)
	case "Закрыть смену":
		b.store.set(chat, &closingShift{})
		b.answer(chat, "Введите фактический остаток наличных.")
	case "Новая операция":
		b.store.set(chat, &recordingDeal{})
		b.answer(chat, "💰 Введите сумму операции (можно с + или -).")
	case "Рассрочка":
		b.store.set(chat, &recordingInstallment{})
		b.answer(chat, "Введите цену товара.")
	case "Мой баланс":
		b.sendBalance(chat)
	case "Мои операции":
		b.sendDeals(chat)
	default:
		b.answer(chat, "📌 Команда пока не поддерживается.")
	}
}

func (b *Bot) startOpenShift(chat string) {
	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}

	prompt := "Введите стартовую сумму наличных."
	// Подсказываем вчерашние остатки - чисто справочно.
	if last, err := b.shifts.GetLastClosed(worker.ID); err == nil && last != nil {
		prompt += fmt.Sprintf("\nПрошлая смена закрыта с остатками: нал %s, безнал %s.",
			money.Format(last.CurrentBalanceCash), money.Format(last.CurrentBalanceBank))
	}

	b.store.set(chat, &openingShift{})
	b.answer(chat, prompt)
}

func (b *Bot) openShiftStep(chat string, st *openingShift, text string) {
	amount, err := money.Parse(text)
	if err != nil {
		b.store.clear(chat)
		b.answer(chat, err.Error())
		return
	}

	if !st.awaitingBank {
		st.cash = amount
		st.awaitingBank = true
		b.store.set(chat, st)
		b.answer(chat, "Теперь введите стартовую сумму безнала (0, если нет).")
		return
	}

	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}
	b.store.clear(chat)

	shift, err := b.shifts.Open(worker, st.cash, amount)
	if err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, fmt.Sprintf("✅ Смена открыта. Наличные: %s, безнал: %s. Можно создавать операции.",
		money.Format(shift.CurrentBalanceCash), money.Format(shift.CurrentBalanceBank)))
}

func (b *Bot) closeShiftStep(chat string, st *closingShift, text string) {
	amount, err := money.Parse(text)
	if err != nil {
		b.store.clear(chat)
		b.answer(chat, err.Error())
		return
	}

	if !st.awaitingBank {
		st.reportedCash = amount
		st.awaitingBank = true
		b.store.set(chat, st)
		b.answer(chat, "Теперь введите фактический остаток безнала.")
		return
	}

	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}
	b.store.clear(chat)

	shift, err := b.shifts.Close(worker, st.reportedCash, amount)
	if err != nil {
		b.fail(chat, err)
		return
	}

	msg := fmt.Sprintf("✅ Смена закрыта.\nОжидалось: нал %s, безнал %s.\nЗаявлено: нал %s, безнал %s.",
		money.Format(shift.CurrentBalanceCash), money.Format(shift.CurrentBalanceBank),
		money.Format(*shift.ReportedCash), money.Format(*shift.ReportedBank))
	if shift.CashDiff.IsZero() && shift.BankDiff.IsZero() {
		msg += "\nРасхождений нет."
	} else {
		msg += fmt.Sprintf("\n⚠️ Расхождение: нал %s, безнал %s.",
			money.Format(*shift.CashDiff), money.Format(*shift.BankDiff))
	}
	b.answer(chat, msg)
}

func parseMethod(text string) (models.PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "наличные", "нал", "cash":
		return models.MethodCash, true
	case "безнал", "банк", "bank":
		return models.MethodBank, true
	}
	return "", false
}

func (b *Bot) dealStep(chat string, st *recordingDeal, text string) {
	switch st.step {
	case dealAwaitAmount:
		amount, err := money.Parse(text)
		if err != nil {
			b.store.clear(chat)
			b.answer(chat, err.Error())
			return
		}
		st.amount = amount
		st.step = dealAwaitMethod
		b.store.set(chat, st)
		b.sendMenu(chat, "", "Выберите способ оплаты", []string{"Наличные", "Безнал"})

	case dealAwaitMethod:
		method, ok := parseMethod(text)
		if !ok {
			b.answer(chat, "Выберите способ оплаты: Наличные или Безнал.")
			return
		}
		st.method = method
		st.step = dealAwaitComment
		b.store.set(chat, st)
		b.answer(chat, "Комментарий к операции (или «-», чтобы пропустить).")

	case dealAwaitComment:
		worker, ok := b.requireWorker(chat)
		if !ok {
			return
		}
		b.store.clear(chat)

		comment := strings.TrimSpace(text)
		if comment == "-" {
			comment = ""
		}
		deal, err := b.deals.Create(worker, deals.CreateParams{
			Amount:  st.amount,
			Method:  st.method,
			Comment: comment,
		})
		if err != nil {
			b.fail(chat, err)
			return
		}

		msg := fmt.Sprintf("✅ Операция #%d сохранена. Сумма: %s.", deal.ID, money.Format(deal.TotalAmount))
		if breakdown, err := b.deals.BalanceBreakdown(worker); err == nil {
			msg += fmt.Sprintf("\n💼 Баланс: нал %s, безнал %s.",
				money.Format(breakdown.Cash), money.Format(breakdown.Bank))
		}
		b.answer(chat, msg)
	}
}

func (b *Bot) installmentStep(chat string, st *recordingInstallment, text string) {
	fail := func(msg string) {
		b.store.clear(chat)
		b.answer(chat, msg)
	}

	switch st.step {
	case instAwaitPrice:
		price, err := money.Parse(text)
		if err != nil {
			fail(err.Error())
			return
		}
		if !price.IsPositive() {
			fail("Цена товара должна быть больше 0.")
			return
		}
		st.price = price
		st.step = instAwaitPercent
		b.store.set(chat, st)
		b.answer(chat, "Введите процент наценки (1-100).")

	case instAwaitPercent:
		percent, err := money.Parse(text)
		if err != nil {
			fail(err.Error())
			return
		}
		st.percent = percent
		st.step = instAwaitTerm
		b.store.set(chat, st)
		b.answer(chat, "Введите срок рассрочки в месяцах (1-120).")

	case instAwaitTerm:
		term, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			fail("Срок должен быть целым числом месяцев.")
			return
		}
		st.termMonths = term
		st.step = instAwaitDownPayment
		b.store.set(chat, st)
		b.answer(chat, "Введите первоначальный взнос (0, если нет).")

	case instAwaitDownPayment:
		down, err := money.Parse(text)
		if err != nil {
			fail(err.Error())
			return
		}
		st.downPayment = down
		st.step = instAwaitMethod
		b.store.set(chat, st)
		b.sendMenu(chat, "", "Способ оплаты первого взноса", []string{"Наличные", "Безнал"})

	case instAwaitMethod:
		method, ok := parseMethod(text)
		if !ok {
			b.answer(chat, "Выберите способ оплаты: Наличные или Безнал.")
			return
		}

		worker, ok := b.requireWorker(chat)
		if !ok {
			return
		}
		b.store.clear(chat)

		plan, err := deals.ComputeInstallment(st.price, st.percent, st.termMonths, st.downPayment)
		if err != nil {
			b.fail(chat, err)
			return
		}
		deal, err := b.deals.CreateInstallment(worker, plan, method, "")
		if err != nil {
			b.fail(chat, err)
			return
		}

		b.answer(chat, fmt.Sprintf(
			"✅ Рассрочка #%d оформлена.\nЦена: %s\nНаценка: %s (%s%%)\nИтого: %s\nВзнос: %s\nЕжемесячно: %s × %d мес.",
			deal.ID,
			money.Format(plan.ProductPrice),
			money.Format(plan.MarkupAmount), plan.MarkupPercent.String(),
			money.Format(plan.Total),
			money.Format(plan.DownPayment),
			money.Format(plan.MonthlyPayment), plan.TermMonths,
		))
	}
}

func (b *Bot) sendBalance(chat string) {
	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}
	breakdown, err := b.deals.BalanceBreakdown(worker)
	if err != nil {
		b.fail(chat, err)
		return
	}
	b.answer(chat, fmt.Sprintf("💼 Наличные: %s\nБезнал: %s\nИтого: %s",
		money.Format(breakdown.Cash), money.Format(breakdown.Bank), money.Format(breakdown.Total)))
}

func (b *Bot) sendDeals(chat string) {
	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}
	list, err := b.deals.ListWorkerDeals(worker, 5)
	if err != nil {
		b.fail(chat, err)
		return
	}
	if len(list) == 0 {
		b.answer(chat, "Операций пока нет.")
		return
	}

	var lines []string
	for _, d := range list {
		line := fmt.Sprintf("#%d %s (%s) — %s",
			d.ID, money.Format(d.TotalAmount), methodTitle(d.PaymentMethod),
			d.CreatedAt.Format("2006-01-02"))
		if d.Comment != "" {
			line += " " + d.Comment
		}
		lines = append(lines, line)
	}

	b.store.set(chat, &viewingDealDetails{})
	b.answer(chat, "🧾 Последние операции:\n"+strings.Join(lines, "\n")+
		"\n\nОтправьте ID операции, чтобы увидеть детали.")
}

func (b *Bot) dealDetailsStep(chat, text string) {
	b.store.clear(chat)

	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(text), "#"), 10, 64)
	if err != nil {
		b.answer(chat, "ID операции должен быть числом.")
		return
	}

	worker, ok := b.requireWorker(chat)
	if !ok {
		return
	}
	deal, err := b.deals.GetWorkerDeal(worker, uint(id))
	if err != nil {
		b.fail(chat, err)
		return
	}
	if deal == nil {
		b.answer(chat, "Операция не найдена.")
		return
	}

	msg := fmt.Sprintf("Операция #%d\nСумма: %s\nСпособ: %s\nДата: %s",
		deal.ID, money.Format(deal.TotalAmount), methodTitle(deal.PaymentMethod),
		deal.CreatedAt.Format("2006-01-02 15:04"))
	if deal.Comment != "" {
		msg += "\nКомментарий: " + deal.Comment
	}
	if deal.DealType == models.DealInstallment && deal.ProductPrice != nil {
		msg += fmt.Sprintf("\nРассрочка: цена %s, наценка %s, итого %s, взнос %s, %s × %d мес.",
			money.Format(*deal.ProductPrice),
			money.Format(*deal.MarkupAmount),
			money.Format(*deal.InstallmentTotal),
			money.Format(*deal.DownPaymentAmount),
			money.Format(*deal.MonthlyPayment),
			*deal.InstallmentTermMonths)
	}
	b.answer(chat, msg)
}

func methodTitle(m models.PaymentMethod) string {
	if m == models.MethodBank {
		return "безнал"
	}
	return "наличные"
}
