package deals

import (
	"testing"
	"time"

	"crmbot-backend/internal/database"
	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"
	"crmbot-backend/internal/shifts"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// рабочее место: сотрудник с открытой сменой 100 нал / 50 безнал
func newWorkplace(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	worker := &models.User{Phone: "79000000001@c.us", Name: "Тест", Role: models.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(worker).Error)
	_, err := shifts.NewService(db).Open(worker, dec("100"), dec("50"))
	require.NoError(t, err)
	return worker
}

func currentShift(t *testing.T, db *gorm.DB, workerID uint) *models.Shift {
	t.Helper()
	var shift models.Shift
	require.NoError(t, db.Where("worker_id = ?", workerID).Order("id desc").First(&shift).Error)
	return &shift
}

func TestCreateCredit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)

	deal, err := svc.Create(worker, CreateParams{Amount: dec("50"), Method: models.MethodCash, Comment: "приход"})
	require.NoError(t, err)
	assert.True(t, deal.TotalAmount.Equal(dec("50")))
	assert.Equal(t, models.DealOperation, deal.DealType)

	shift := currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("150")))
	assert.True(t, shift.CurrentBalanceBank.Equal(dec("50")))
	assert.True(t, shift.CurrentBalance.Equal(dec("200")))

	// Каждая операция оставляет строку DEAL_ISSUED с той же дельтой
	var entry models.CashTransaction
	require.NoError(t, db.Where("deal_id = ?", deal.ID).First(&entry).Error)
	assert.Equal(t, models.TxDealIssued, entry.Type)
	assert.True(t, entry.AmountDelta.Equal(dec("50")))
}

func TestCreateDebitChecksMethodBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)

	// Безнала всего 50: списание 60 по безналу отбивается, хотя итоговый
	// баланс смены позволяет
	_, err := svc.Create(worker, CreateParams{Amount: dec("-60"), Method: models.MethodBank})
	require.Error(t, err)
	assert.Equal(t, "Недостаточно лимита для списания.", err.Error())

	// Неудачная попытка ничего не меняет
	shift := currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceBank.Equal(dec("50")))
	var count int64
	require.NoError(t, db.Model(&models.Deal{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// Списание ровно в остаток проходит
	_, err = svc.Create(worker, CreateParams{Amount: dec("-50"), Method: models.MethodBank})
	require.NoError(t, err)
	shift = currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceBank.IsZero())
}

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	worker := &models.User{Phone: "79000000001@c.us", Role: models.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(worker).Error)

	_, err := svc.Create(worker, CreateParams{Amount: dec("0")})
	require.Error(t, err)
	assert.True(t, domain.IsDomain(err))

	_, err = svc.Create(worker, CreateParams{Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrNoActiveShift)
}

func TestCreateInstallment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)

	plan, err := ComputeInstallment(dec("80"), dec("20"), 4, dec("16"))
	require.NoError(t, err)

	deal, err := svc.CreateInstallment(worker, plan, models.MethodCash, "телефон")
	require.NoError(t, err)

	// В леджер уходит цена товара со знаком минус, не итог рассрочки
	assert.True(t, deal.TotalAmount.Equal(dec("-80")))
	assert.Equal(t, models.DealInstallment, deal.DealType)
	require.NotNil(t, deal.InstallmentTotal)
	assert.True(t, deal.InstallmentTotal.Equal(dec("96")))
	require.NotNil(t, deal.MonthlyPayment)
	assert.True(t, deal.MonthlyPayment.Equal(dec("20")))
	require.NotNil(t, deal.InstallmentTermMonths)
	assert.Equal(t, 4, *deal.InstallmentTermMonths)

	shift := currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("20")))
}

func TestSoftDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)
	admin := &models.User{Phone: "79990000001@c.us", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(admin).Error)

	deal, err := svc.Create(worker, CreateParams{Amount: dec("-30"), Method: models.MethodCash})
	require.NoError(t, err)

	_, err = svc.SoftDelete(worker, deal.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.SoftDelete(admin, 9999)
	require.Error(t, err)
	assert.Equal(t, "Операция не найдена.", err.Error())

	deleted, err := svc.SoftDelete(admin, deal.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	// Баланс не откатывается: удаление скрывает запись, но не отменяет движение
	shift := currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("70")))

	list, err := svc.ListWorkerDeals(worker, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetWorkerDeal(worker, deal.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBalanceBreakdown(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	worker := &models.User{Phone: "79000000001@c.us", Role: models.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(worker).Error)

	_, err := svc.BalanceBreakdown(worker)
	assert.ErrorIs(t, err, domain.ErrNoActiveShift)

	_, err = shifts.NewService(db).Open(worker, dec("100"), dec("50"))
	require.NoError(t, err)

	b, err := svc.BalanceBreakdown(worker)
	require.NoError(t, err)
	assert.True(t, b.Cash.Equal(dec("100")))
	assert.True(t, b.Bank.Equal(dec("50")))
	assert.True(t, b.Total.Equal(dec("150")))
}

func TestListTodayDeals(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)

	_, err := svc.Create(worker, CreateParams{Amount: dec("10"), Comment: "первая"})
	require.NoError(t, err)
	second, err := svc.Create(worker, CreateParams{Amount: dec("-20"), Method: models.MethodBank, Comment: "вторая"})
	require.NoError(t, err)

	rows, err := svc.ListTodayDeals(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, worker.Phone, rows[0].WorkerPhone)
}

func TestAddPayment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorkplace(t, db)

	plan, err := ComputeInstallment(dec("80"), dec("20"), 4, dec("0"))
	require.NoError(t, err)
	deal, err := svc.CreateInstallment(worker, plan, models.MethodCash, "")
	require.NoError(t, err)

	_, err = svc.AddPayment(deal.ID, dec("0"), time.Now())
	assert.Error(t, err)

	payment, err := svc.AddPayment(deal.ID, dec("24"), time.Now())
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(dec("24")))

	// Платёж по рассрочке не трогает баланс смены
	shift := currentShift(t, db, worker.ID)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("20")))
}
