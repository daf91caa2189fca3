package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/bootcampcrew/admissions_service/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func setupCandidateApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// a second pooled connection would get its own empty :memory: db
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.Candidate{},
		&domain.Profile{},
		&domain.Application{},
		&domain.Submission{},
		&domain.Selection{},
		&domain.SelectionLog{},
		&domain.SelectionDocument{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	candRepo := repository.NewCandidateRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	selRepo := repository.NewSelectionRepository(db)

	appSvc := services.NewApplicationService(appRepo, subRepo, selRepo, candRepo, nil, nil, nil, nil, nil)
	selSvc := services.NewSelectionService(selRepo, profileRepo, nil, nil)

	app := fiber.New()
	NewCandidateHandler(appSvc, selSvc, candRepo, profileRepo).SetupRoutes(app)
	return app
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	app := setupCandidateApp(t)

	post := func() (int, error) {
		body, err := json.Marshal(dto.RegisterCandidate{
			Email:      "dup@example.com",
			Name:       "Dup Licate",
			Gender:     domain.GenderFemale,
			TicketType: domain.TicketRegular,
		})
		if err != nil {
			return 0, err
		}
		req := httptest.NewRequest(fiber.MethodPost, "/api/candidates", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			return 0, err
		}
		return resp.StatusCode, nil
	}

	status, err := post()
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if status != fiber.StatusCreated {
		t.Fatalf("first register status = %d, want %d", status, fiber.StatusCreated)
	}

	status, err = post()
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if status != fiber.StatusConflict {
		t.Fatalf("second register status = %d, want %d", status, fiber.StatusConflict)
	}
}
