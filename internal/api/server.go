package api

import (
	"log"

	"github.com/bootcampcrew/admissions_service/config"
	"github.com/bootcampcrew/admissions_service/infra/queue"
	"github.com/bootcampcrew/admissions_service/internal/api/rest/handlers"
	"github.com/bootcampcrew/admissions_service/internal/clients/grader"
	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/helper"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/bootcampcrew/admissions_service/internal/services"
	"github.com/bootcampcrew/admissions_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()
	log.Printf("KafkaBroker=%q KafkaTopic=%q", cfg.KafkaBroker, cfg.KafkaTopic)

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	// one fixed id shared by every replica running the migration
	const migrateLockID int64 = 20260829

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.Candidate{},
		&domain.Profile{},
		&domain.Application{},
		&domain.Submission{},
		&domain.Selection{},
		&domain.SelectionLog{},
		&domain.SelectionDocument{},
		&domain.Flag{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)
	graderClient := grader.New(cfg.GraderBaseURL, cfg.GraderApiKey)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	candRepo := repository.NewCandidateRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	selRepo := repository.NewSelectionRepository(db)
	flagRepo := repository.NewFlagRepository(db)

	// ---------- Services ----------
	calendar := services.NewFlagCalendar(flagRepo)
	notifier := services.NewKafkaNotifier(kafkaProducer)
	appSvc := services.NewApplicationService(
		appRepo, subRepo, selRepo, candRepo,
		calendar, notifier, up, graderClient, nil,
	)
	selSvc := services.NewSelectionService(selRepo, profileRepo, up, nil)
	drawSvc := services.NewDrawService(selRepo, profileRepo)
	pipeSvc := services.NewPipelineService(selRepo, profileRepo, candRepo, calendar, notifier, nil)

	// ---------- Handlers ----------
	candidateHandler := handlers.NewCandidateHandler(appSvc, selSvc, candRepo, profileRepo)
	candidateHandler.SetupRoutes(app)

	staffHandler := handlers.NewStaffHandler(
		appSvc, selSvc, drawSvc, pipeSvc, calendar,
		authHelper, cfg.StaffEmail, cfg.StaffPasswordHash,
	)
	staffHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
