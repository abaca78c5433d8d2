package users

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"crmbot-backend/internal/domain"
	"crmbot-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var phonePattern = regexp.MustCompile(`^7\d{10}$`)
var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone приводит номер к каноническому виду 7XXXXXXXXXX@c.us.
// Принимает голые цифры, номер через 8 и номер с суффиксом @c.us.
func NormalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", domain.Validation("Номер должен быть в формате 7XXXXXXXXXX.")
	}

	if strings.HasSuffix(strings.ToLower(phone), "@c.us") {
		phone = phone[:len(phone)-5]
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "8") && len(digits) == 11 {
		digits = "7" + digits[1:]
	}

	if !phonePattern.MatchString(digits) {
		return "", domain.Validation("Номер должен быть в формате 7XXXXXXXXXX.")
	}

	return digits + "@c.us", nil
}

// Service - справочник пользователей.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetActiveByPhone возвращает активного пользователя или nil.
func (s *Service) GetActiveByPhone(phone string) (*models.User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.Where("phone = ? AND is_active = ?", normalized, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}
	return &user, nil
}

// AddManager создаёт сотрудника или активирует существующего.
func (s *Service) AddManager(phone, name string) (*models.User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.Where("phone = ?", normalized).First(&user).Error
	switch {
	case err == nil:
		user.Role = models.RoleWorker
		user.IsActive = true
		if name != "" {
			user.Name = name
		}
		if err := s.db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("обновление сотрудника: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Phone:    normalized,
			Name:     name,
			Role:     models.RoleWorker,
			IsActive: true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("создание сотрудника: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("поиск сотрудника: %w", err)
	}
}

// DisableManager логически отключает сотрудника.
func (s *Service) DisableManager(phone string) (*models.User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.Where("phone = ? AND role = ?", normalized, models.RoleWorker).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Validation("Сотрудник не найден.")
	}
	if err != nil {
		return nil, fmt.Errorf("поиск сотрудника: %w", err)
	}

	user.IsActive = false
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("отключение сотрудника: %w", err)
	}
	return &user, nil
}

// ListManagers возвращает всех сотрудников (включая отключённых).
func (s *Service) ListManagers() ([]models.User, error) {
	var list []models.User
	err := s.db.Where("role = ?", models.RoleWorker).Order("created_at asc").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("список сотрудников: %w", err)
	}
	return list, nil
}

// SeedAdmins выдаёт роль admin всем номерам из конфигурации.
// Идемпотентна: повторный запуск только переутверждает роль и флаг.
// Если задан apiPassword, он выставляется админам без пароля - это
// стартовый доступ к HTTP-API.
func (s *Service) SeedAdmins(phones []string, apiPassword string) error {
	var passwordHash string
	if apiPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(apiPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("хэширование пароля: %w", err)
		}
		passwordHash = string(hash)
	}

	for _, raw := range phones {
		normalized, err := NormalizePhone(raw)
		if err != nil {
			log.Printf("[WARN] Номер админа %q пропущен: %v", raw, err)
			continue
		}

		var user models.User
		err = s.db.Where("phone = ?", normalized).First(&user).Error
		switch {
		case err == nil:
			user.Role = models.RoleAdmin
			user.IsActive = true
			if user.PasswordHash == "" {
				user.PasswordHash = passwordHash
			}
			if err := s.db.Save(&user).Error; err != nil {
				return fmt.Errorf("обновление админа %s: %w", normalized, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Phone:        normalized,
				Name:         "Admin",
				PasswordHash: passwordHash,
				Role:         models.RoleAdmin,
				IsActive:     true,
			}
			if err := s.db.Create(&user).Error; err != nil {
				return fmt.Errorf("создание админа %s: %w", normalized, err)
			}
		default:
			return fmt.Errorf("поиск админа %s: %w", normalized, err)
		}
	}
	return nil
}
