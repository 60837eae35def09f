package main

import (
	"flag"
	"fmt"
	"strings"

	"socialdesk/pkg/config"
	"socialdesk/pkg/database"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	name     string
	role     models.UserRole
	userType string
}

type seedTier struct {
	name      string
	price     string
	postQuota int
}

type seedService struct {
	name        string
	description string
	tiers       []seedTier
}

var (
	seedUsers = []seedUser{
		{"admin@socialdesk.io", "Admin", models.RoleAdmin, ""},
		{"casey@example.com", "Casey Client", models.RoleClient, "business"},
		{"ana@example.com", "Ana Designer", models.RoleReseller, "freelancer"},
		{"ben@example.com", "Ben Writer", models.RoleReseller, "freelancer"},
	}

	seedServices = []seedService{
		{"Instagram", "Instagram content and account management", []seedTier{
			{"Starter", "29.99", 8},
			{"Growth", "49.99", 12},
			{"Pro", "99.99", 30},
		}},
		{"Facebook", "Facebook page management", []seedTier{
			{"Starter", "19.99", 6},
			{"Growth", "39.99", 12},
		}},
		{"LinkedIn", "LinkedIn company page posts", []seedTier{
			{"Growth", "59.99", 10},
		}},
	}

	seedRoles = []string{"designer", "copywriter", "video_editor"}
)

func main() {
	var password string
	var hashCost int
	flag.StringVar(&password, "password", "password123", "password for every seeded user")
	flag.IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithEnv(cfg.AppEnv).With("cmd", "seed")
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, password, hashCost, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase is idempotent; rows are matched on their natural keys.
func seedDatabase(db *gorm.DB, password string, hashCost int, log *logger.Logger) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range seedUsers {
			user, err := seedUserRow(tx, u, string(hashed), log)
			if err != nil {
				return err
			}
			if user.Role == models.RoleReseller {
				if err := seedResellerRow(tx, user, log); err != nil {
					return err
				}
			}
		}

		for _, s := range seedServices {
			if err := seedServiceRow(tx, s, log); err != nil {
				return err
			}
		}

		for _, name := range seedRoles {
			role := models.Role{Name: name}
			if err := tx.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", name, err)
			}
		}
		log.Info("Seeded %d task roles", len(seedRoles))

		return seedWithdrawalSettings(tx, log)
	})
}

func seedUserRow(tx *gorm.DB, u seedUser, hashed string, log *logger.Logger) (*models.User, error) {
	var existing models.User
	if err := tx.Where("email = ?", u.email).First(&existing).Error; err == nil {
		log.Info("User %s already exists, skipping", u.email)
		return &existing, nil
	}

	user := &models.User{
		Email:    u.email,
		Name:     u.name,
		Password: hashed,
		Role:     u.role,
		UserType: u.userType,
		IsActive: true,
	}
	if err := tx.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", u.email, err)
	}
	log.Info("Created user: %s (%s)", u.email, u.role)
	return user, nil
}

func seedResellerRow(tx *gorm.DB, user *models.User, log *logger.Logger) error {
	var count int64
	if err := tx.Model(&models.Reseller{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	userID := user.ID
	reseller := &models.Reseller{
		UserID:        &userID,
		Name:          user.Name,
		Email:         user.Email,
		Status:        models.ResellerStatusActive,
		TotalEarnings: decimal.Zero,
	}
	if err := tx.Create(reseller).Error; err != nil {
		return fmt.Errorf("failed to create reseller for %s: %w", user.Email, err)
	}
	log.Info("Created reseller %s for %s", reseller.ID, user.Email)
	return nil
}

func seedServiceRow(tx *gorm.DB, s seedService, log *logger.Logger) error {
	service := models.Service{Name: s.name, Description: s.description, IsActive: true}
	if err := tx.Where(models.Service{Name: s.name}).FirstOrCreate(&service).Error; err != nil {
		return fmt.Errorf("failed to seed service %s: %w", s.name, err)
	}

	for _, t := range s.tiers {
		tier := models.ServiceTier{
			ServiceID: service.ID,
			Name:      t.name,
			Price:     decimal.RequireFromString(t.price),
			PostQuota: t.postQuota,
		}
		if err := tx.Where(models.ServiceTier{ServiceID: service.ID, Name: t.name}).FirstOrCreate(&tier).Error; err != nil {
			return fmt.Errorf("failed to seed tier %s/%s: %w", s.name, t.name, err)
		}
	}
	log.Info("Seeded service %s with %d tiers", s.name, len(s.tiers))
	return nil
}

func seedWithdrawalSettings(tx *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := tx.Model(&models.WithdrawalSettings{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := &models.WithdrawalSettings{
		ID:                      1,
		MinimumWithdrawalAmount: decimal.NewFromInt(50),
		PercentageCommission:    decimal.NewFromInt(10),
		ProcessingFee:           decimal.NewFromInt(1),
		PaymentMethods:          strings.Join([]string{"bank", "card"}, ","),
	}
	if err := tx.Create(settings).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal settings: %w", err)
	}
	log.Info("Created default withdrawal settings")
	return nil
}
