package shifts

import (
	"testing"

	"crmbot-backend/internal/database"
	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"

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

func newWorker(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()
	u := &models.User{Phone: phone, Name: "Тест", Role: models.RoleWorker, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpenShift(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorker(t, db, "79000000001@c.us")

	shift, err := svc.Open(worker, dec("100"), dec("50"))
	require.NoError(t, err)
	assert.Equal(t, models.ShiftOpen, shift.Status)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("100")))
	assert.True(t, shift.CurrentBalanceBank.Equal(dec("50")))
	assert.True(t, shift.CurrentBalance.Equal(dec("150")))

	// Открытие пишет строку OPENING на сумму остатков
	var entries []models.CashTransaction
	require.NoError(t, db.Where("shift_id = ?", shift.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TxOpening, entries[0].Type)
	assert.True(t, entries[0].AmountDelta.Equal(dec("150")))
}

func TestOpenShiftValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorker(t, db, "79000000001@c.us")

	_, err := svc.Open(worker, dec("-1"), dec("0"))
	require.Error(t, err)
	assert.True(t, domain.IsDomain(err))

	_, err = svc.Open(worker, dec("0"), dec("0"))
	require.Error(t, err)
	assert.Equal(t, "Стартовая сумма должна быть больше 0.", err.Error())
}

func TestOpenShiftTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorker(t, db, "79000000001@c.us")

	_, err := svc.Open(worker, dec("100"), dec("0"))
	require.NoError(t, err)

	_, err = svc.Open(worker, dec("200"), dec("0"))
	require.Error(t, err)
	assert.Equal(t, "У вас уже есть открытая смена.", err.Error())

	// Неудачная попытка не оставила вторую смену и лишних строк леджера
	var count int64
	require.NoError(t, db.Model(&models.Shift{}).Where("worker_id = ?", worker.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdjust(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorker(t, db, "79000000001@c.us")
	admin := &models.User{Phone: "79990000001@c.us", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(admin).Error)

	_, err := svc.Adjust(worker, dec("10"), models.MethodCash, admin)
	assert.ErrorIs(t, err, domain.ErrNoActiveShift)

	_, err = svc.Open(worker, dec("100"), dec("50"))
	require.NoError(t, err)

	shift, err := svc.Adjust(worker, dec("-20"), models.MethodBank, admin)
	require.NoError(t, err)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("100")))
	assert.True(t, shift.CurrentBalanceBank.Equal(dec("30")))
	assert.True(t, shift.CurrentBalance.Equal(dec("130")))

	// Корректировка может увести баланс в минус
	shift, err = svc.Adjust(worker, dec("-200"), models.MethodCash, admin)
	require.NoError(t, err)
	assert.True(t, shift.CurrentBalanceCash.Equal(dec("-100")))

	var entry models.CashTransaction
	require.NoError(t, db.Where("shift_id = ? AND type = ?", shift.ID, models.TxAdjustment).
		Order("id desc").First(&entry).Error)
	assert.True(t, entry.AmountDelta.Equal(dec("-200")))
	require.NotNil(t, entry.CreatedBy)
	assert.Equal(t, admin.ID, *entry.CreatedBy)
}

func TestCloseShiftReconciliation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	worker := newWorker(t, db, "79000000001@c.us")

	_, err := svc.Open(worker, dec("120"), dec("80"))
	require.NoError(t, err)

	// Заявлено меньше ожидаемого: положительный diff - недостача
	shift, err := svc.Close(worker, dec("115"), dec("90"))
	require.NoError(t, err)
	assert.Equal(t, models.ShiftClosed, shift.Status)
	require.NotNil(t, shift.CashDiff)
	require.NotNil(t, shift.BankDiff)
	assert.True(t, shift.CashDiff.Equal(dec("5")))
	assert.True(t, shift.BankDiff.Equal(dec("-10")))
	assert.NotNil(t, shift.ClosedAt)
	assert.NotNil(t, shift.ReportedAt)

	// Закрытая смена терминальна
	_, err = svc.Close(worker, dec("0"), dec("0"))
	assert.ErrorIs(t, err, domain.ErrNoActiveShift)

	last, err := svc.GetLastClosed(worker.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, shift.ID, last.ID)
}

func TestCloseAllOpen(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	w1 := newWorker(t, db, "79000000001@c.us")
	w2 := newWorker(t, db, "79000000002@c.us")
	_, err := svc.Open(w1, dec("100"), dec("0"))
	require.NoError(t, err)
	_, err = svc.Open(w2, dec("0"), dec("200"))
	require.NoError(t, err)

	closed, err := svc.CloseAllOpen()
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	// Поля сверки остаются пустыми - остатки никто не заявлял
	var shift models.Shift
	require.NoError(t, db.Where("worker_id = ?", w1.ID).First(&shift).Error)
	assert.Equal(t, models.ShiftClosed, shift.Status)
	assert.NotNil(t, shift.ClosedAt)
	assert.Nil(t, shift.ReportedCash)
	assert.Nil(t, shift.CashDiff)

	// Повторный запуск ничего не трогает
	closed, err = svc.CloseAllOpen()
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}
