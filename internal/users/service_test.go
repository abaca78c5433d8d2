package users

import (
	"testing"

	"crmbot-backend/internal/database"
	"crmbot-backend/internal/models"

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

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"79001234567", "79001234567@c.us"},
		{"79001234567@c.us", "79001234567@c.us"},
		{"89001234567", "79001234567@c.us"},
		{"+7 900 123-45-67", "79001234567@c.us"},
		{"  79001234567  ", "79001234567@c.us"},
	}
	for _, c := range cases {
		got, err := NormalizePhone(c.in)
		require.NoError(t, err, "вход %q", c.in)
		assert.Equal(t, c.want, got, "вход %q", c.in)
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "12345", "7900123456", "790012345678", "abc"} {
		_, err := NormalizePhone(in)
		assert.Error(t, err, "вход %q", in)
	}
}

func TestAddManagerCreatesAndReactivates(t *testing.T) {
	svc := NewService(newTestDB(t))

	created, err := svc.AddManager("89001234567", "Иван")
	require.NoError(t, err)
	assert.Equal(t, "79001234567@c.us", created.Phone)
	assert.Equal(t, models.RoleWorker, created.Role)
	assert.True(t, created.IsActive)

	_, err = svc.DisableManager("79001234567")
	require.NoError(t, err)

	active, err := svc.GetActiveByPhone("79001234567@c.us")
	require.NoError(t, err)
	assert.Nil(t, active)

	// Повторное добавление реактивирует, а не создаёт дубль
	again, err := svc.AddManager("79001234567", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.True(t, again.IsActive)
	assert.Equal(t, "Иван", again.Name)

	list, err := svc.ListManagers()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDisableManagerNotFound(t *testing.T) {
	svc := NewService(newTestDB(t))

	_, err := svc.DisableManager("79001234567")
	require.Error(t, err)
	assert.Equal(t, "Сотрудник не найден.", err.Error())
}

func TestSeedAdminsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	phones := []string{"79990000001", "мусор", "89990000002"}
	require.NoError(t, svc.SeedAdmins(phones, "admin-secret"))
	require.NoError(t, svc.SeedAdmins(phones, "admin-secret"))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	assert.Len(t, admins, 2)
	for _, a := range admins {
		assert.True(t, a.IsActive)
		assert.NotEmpty(t, a.PasswordHash)
	}

	// Вручную заданный пароль не перетирается повторным сидированием
	first := admins[0]
	original := first.PasswordHash
	require.NoError(t, svc.SeedAdmins([]string{first.Phone}, "другой-пароль"))
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, original, reloaded.PasswordHash)
}
