package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pathguider/internal/config"
	"pathguider/internal/db"
	"pathguider/internal/model"
	"pathguider/internal/repository"
	"pathguider/internal/service"
)

// demoStudents seeds a small placement table so the dashboards have rows to
// show on a fresh install.
var demoStudents = []service.ManualEntryInput{
	{FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", Stem: 91, SocialSciences: 74, Arts: 62},
	{FirstName: "Brian", LastName: "Otieno", Email: "brian@example.com", Stem: 55, SocialSciences: 88, Arts: 71},
	{FirstName: "Chen", LastName: "Wei", Email: "chen@example.com", Stem: 69, SocialSciences: 64, Arts: 93},
	{FirstName: "Diana", LastName: "Mwangi", Email: "diana@example.com", Stem: 82, SocialSciences: 80, Arts: 78},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.TotpFactor{},
		&model.VerificationToken{},
		&model.Placement{},
		&model.Appeal{},
		&model.AppealDecision{},
		&model.UploadedFile{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	profiles := repository.NewProfileRepository(gormDB)
	placements := repository.NewPlacementRepository(gormDB)
	uploads := repository.NewUploadedFileRepository(gormDB)

	if err := seedAdmin(ctx, profiles, cfg); err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}

	placementService := service.NewPlacementService(placements, uploads)
	seeded := 0
	for _, student := range demoStudents {
		if _, err := placementService.ManualEntry(ctx, student); err != nil {
			log.Printf("Warning: could not seed placement for %s: %v", student.Email, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeded %d demo placements", seeded)
	log.Println("Seed completed")
}

// seedAdmin creates the bootstrap administrator account, pre-verified so it
// can sign in immediately. An existing account with the same email is left
// untouched.
func seedAdmin(ctx context.Context, profiles repository.ProfileRepository, cfg *config.Config) error {
	if _, err := profiles.FindByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		log.Printf("Administrator %s already exists, skipping", cfg.SeedAdminEmail)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.Profile{
		FirstName:     "Portal",
		LastName:      "Administrator",
		Email:         cfg.SeedAdminEmail,
		PasswordHash:  string(hash),
		EmailVerified: true,
		Role:          model.RoleAdministrator,
	}
	if err := profiles.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Created administrator %s", cfg.SeedAdminEmail)
	return nil
}
