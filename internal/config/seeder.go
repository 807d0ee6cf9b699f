package config

import (
	"context"
	"log"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/identity"

	"gorm.io/gorm"
)

// SeedMasterData seeds the role catalog, the AC catalog and a bootstrap
// admin account. Safe to run on every start: existing rows are left alone.
func SeedMasterData(db *gorm.DB) error {
	log.Println("🌱 Running database seeders...")

	if err := seedRoles(db); err != nil {
		return err
	}
	if err := seedACCatalog(db); err != nil {
		return err
	}
	if err := seedAdminAccount(db); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles seeds the authoritative set of assignable role names
func seedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleTechnician, models.RoleCustomer} {
		var count int64
		db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			return err
		}
		log.Printf("🌱 Seeded role: %s", name)
	}
	return nil
}

// seedACCatalog seeds the AC brand/type/capacity lookup sets
func seedACCatalog(db *gorm.DB) error {
	brands := []string{"Daikin", "Panasonic", "Sharp", "LG", "Gree", "Midea"}
	for _, name := range brands {
		var count int64
		db.Model(&models.ACBrand{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			if err := db.Create(&models.ACBrand{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	types := []string{"Split Wall", "Cassette", "Standing Floor", "Window", "Ducted"}
	for _, name := range types {
		var count int64
		db.Model(&models.ACType{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			if err := db.Create(&models.ACType{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	pks := []string{"1/2 PK", "3/4 PK", "1 PK", "1.5 PK", "2 PK", "2.5 PK"}
	for _, label := range pks {
		var count int64
		db.Model(&models.ACPk{}).Where("label = ?", label).Count(&count)
		if count == 0 {
			if err := db.Create(&models.ACPk{Label: label}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedAdminAccount creates the bootstrap admin identity + profile when no
// admin profile exists yet. Development convenience only — in production
// the first admin should be provisioned through a secure process.
func seedAdminAccount(db *gorm.DB) error {
	var count int64
	db.Model(&models.Profile{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	store := identity.NewGormStore(db)
	id, err := store.CreateUser(context.Background(), identity.CreateParams{
		Email:     getEnv("SEED_ADMIN_EMAIL", "admin@coolcare.id"),
		Password:  getEnv("SEED_ADMIN_PASSWORD", "admin123456"),
		Role:      models.RoleAdmin,
		FirstName: "System",
		LastName:  "Admin",
	})
	if err != nil {
		return err
	}

	admin := &models.Profile{
		ID:        id.ID,
		Name:      "System Admin",
		FirstName: "System",
		LastName:  "Admin",
		Email:     id.Email,
		Role:      models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin account created: %s", admin.Email)
	return nil
}
