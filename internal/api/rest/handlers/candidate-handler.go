package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/bootcampcrew/admissions_service/internal/domain"
	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/helper"
	helperutils "github.com/bootcampcrew/admissions_service/internal/helper/utils"
	"github.com/bootcampcrew/admissions_service/internal/repository"
	"github.com/bootcampcrew/admissions_service/internal/services"
	"github.com/bootcampcrew/admissions_service/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// maxUploadSize caps candidate uploads, submissions and documents alike.
const maxUploadSize = 10 * 1024 * 1024

type CandidateHandler struct {
	appSvc      services.ApplicationService
	selSvc      services.SelectionService
	candRepo    repository.CandidateRepository
	profileRepo repository.ProfileRepository
	validate    *validator.Validate
}

func NewCandidateHandler(
	appSvc services.ApplicationService,
	selSvc services.SelectionService,
	candRepo repository.CandidateRepository,
	profileRepo repository.ProfileRepository,
) *CandidateHandler {
	return &CandidateHandler{
		appSvc:      appSvc,
		selSvc:      selSvc,
		candRepo:    candRepo,
		profileRepo: profileRepo,
		validate:    validator.New(),
	}
}

func (h *CandidateHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	candidate := api.Group("/candidates")

	candidate.Post("/", h.Register)

	// application
	candidate.Post("/:candidateID/coding-test/start", h.StartCodingTest)
	candidate.Post("/:candidateID/submissions/:assignment", h.Submit)
	candidate.Get("/:candidateID/submissions/:assignment", h.Submissions)
	candidate.Get("/:candidateID/application", h.ApplicationStatus)

	// payment
	candidate.Get("/:candidateID/selection", h.PaymentView)
	candidate.Post("/:candidateID/documents/:docType", h.UploadDocument)
	candidate.Post("/:candidateID/documents", h.SubmitDocumentsForReview)
}

func candidateIDParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("candidateID"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid candidate id")
	}
	return uint(id), nil
}

func (h *CandidateHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterCandidate

	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.candRepo.FindCandidateByEmail(requestBody.Email); err == nil {
		return helperutils.ResponseError(ctx, fiber.StatusConflict, "email already registered")
	}

	candidate, err := h.candRepo.CreateCandidate(&domain.Candidate{
		Email: requestBody.Email,
		Name:  requestBody.Name,
	})
	if err != nil {
		// two concurrent registrations can both pass the lookup; the
		// unique index decides
		if helper.IsDuplicateEmail(err) {
			return helperutils.ResponseError(ctx, fiber.StatusConflict, "email already registered")
		}
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	err = h.profileRepo.SaveProfile(&domain.Profile{
		CandidateID: candidate.ID,
		Gender:      requestBody.Gender,
		TicketType:  requestBody.TicketType,
	})
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	log.Printf("candidate %d registered", candidate.ID)
	return helperutils.ResponseSuccess(ctx, fiber.StatusCreated, candidate)
}

func (h *CandidateHandler) StartCodingTest(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	window, err := h.appSvc.StartCodingTest(candidateID)
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, window)
}

func (h *CandidateHandler) Submit(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}
	assignment := ctx.Params("assignment")

	file, err := ctx.FormFile("file")
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	f, err := file.Open()
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := utils.ReadAllLimit(f, maxUploadSize)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.appSvc.Submit(ctx.Context(), candidateID, assignment, file.Filename, data)
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusCreated, result)
}

func (h *CandidateHandler) Submissions(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	subs, err := h.appSvc.Submissions(candidateID, ctx.Params("assignment"))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, subs)
}

func (h *CandidateHandler) ApplicationStatus(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.appSvc.DetailedStatus(candidateID)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusNotFound, "application not found")
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, status)
}

func (h *CandidateHandler) PaymentView(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	selection, err := h.selSvc.GetByCandidate(candidateID)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusNotFound, "selection not found")
	}

	docs, err := h.selSvc.Documents(candidateID, domain.DocPaymentProof)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}

	filenames := make([]string, 0, len(docs))
	for _, d := range docs {
		filenames = append(filenames, d.Filename())
	}

	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, dto.PaymentViewResponse{
		Selection: dto.SelectionResponse{
			SelectionID:    selection.ID,
			CandidateID:    selection.CandidateID,
			Status:         selection.Status,
			DrawRank:       selection.DrawRank,
			PaymentValue:   selection.PaymentValue,
			TicketType:     selection.TicketType,
			PaymentDueDate: selection.PaymentDueDate,
		},
		Documents: filenames,
	})
}

func (h *CandidateHandler) UploadDocument(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	docType := ctx.Params("docType")
	if docType != domain.DocPaymentProof && docType != domain.DocStudentID {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "unknown document type")
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}

	f, err := file.Open()
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := utils.ReadAllLimit(f, maxUploadSize)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	doc, err := h.selSvc.AddDocument(ctx.Context(), candidateID, docType, file.Filename, data)
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusCreated, doc)
}

func (h *CandidateHandler) SubmitDocumentsForReview(ctx *fiber.Ctx) error {
	candidateID, err := candidateIDParam(ctx)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	err = h.selSvc.SubmitDocumentsForReview(candidateID, "candidate "+ctx.Params("candidateID"))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "documents submitted for review")
}
