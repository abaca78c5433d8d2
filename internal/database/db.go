package database

import (
	"log"

	"crmbot-backend/internal/config"
	"crmbot-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Ошибка миграции: %v", err)
	}

	log.Println("Подключение к базе установлено, миграция выполнена.")
}

// Migrate накатывает схему. Вынесена отдельно, чтобы тесты могли
// готовить sqlite-базу тем же кодом.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Shift{},
		&models.Deal{},
		&models.CashTransaction{},
		&models.Payment{},
	)
	if err != nil {
		return err
	}

	// Не больше одной открытой смены на сотрудника. Проверка в сервисе
	// выполняется внутри транзакции, индекс страхует от гонки двух
	// одновременных open_shift.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_shift_per_worker
		 ON shifts (worker_id) WHERE status = 'open'`,
	).Error
}
