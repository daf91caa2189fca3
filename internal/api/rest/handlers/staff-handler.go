package handlers

import (
	"strconv"

	"github.com/bootcampcrew/admissions_service/internal/api/rest/middleware"
	"github.com/bootcampcrew/admissions_service/internal/dto"
	"github.com/bootcampcrew/admissions_service/internal/helper"
	helperutils "github.com/bootcampcrew/admissions_service/internal/helper/utils"
	"github.com/bootcampcrew/admissions_service/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	appSvc  services.ApplicationService
	selSvc  services.SelectionService
	drawSvc services.DrawService
	pipeSvc services.PipelineService
	cal     services.Calendar

	auth              helper.Auth
	staffEmail        string
	staffPasswordHash string

	validate *validator.Validate
}

func NewStaffHandler(
	appSvc services.ApplicationService,
	selSvc services.SelectionService,
	drawSvc services.DrawService,
	pipeSvc services.PipelineService,
	cal services.Calendar,
	auth helper.Auth,
	staffEmail, staffPasswordHash string,
) *StaffHandler {
	return &StaffHandler{
		appSvc:            appSvc,
		selSvc:            selSvc,
		drawSvc:           drawSvc,
		pipeSvc:           pipeSvc,
		cal:               cal,
		auth:              auth,
		staffEmail:        staffEmail,
		staffPasswordHash: staffPasswordHash,
		validate:          validator.New(),
	}
}

func (h *StaffHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	staff := api.Group("/staff")
	staff.Post("/login", h.Login)

	staff.Use(middleware.StaffOnly(h.auth))

	staff.Get("/selections/overview", h.Overview)
	staff.Post("/selections/draw", h.Draw)
	staff.Post("/selections/advance", h.AdvanceDrawn)
	staff.Post("/selections/:selectionID/reject-draw", h.RejectDraw)
	staff.Post("/selections/:selectionID/interview", h.InterviewDecision)
	staff.Post("/selections/:selectionID/payment", h.PaymentDecision)
	staff.Patch("/selections/:selectionID/status", h.ManualStatusUpdate)
	staff.Post("/selections/:selectionID/notes", h.AddNote)
	staff.Get("/selections/:selectionID/logs", h.Logs)

	staff.Post("/triggers/applications-over", h.TriggerApplicationsAreOver)
	staff.Post("/triggers/admissions-over", h.TriggerAdmissionsAreOver)

	staff.Post("/flags", h.SetFlag)
}

func selectionIDParam(ctx *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Params("selectionID"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// actor returns the staff identity the middleware stored, for the audit
// trail on every staff-driven transition.
func (h *StaffHandler) actor(ctx *fiber.Ctx) string {
	staff, err := h.auth.GetCurrentStaff(ctx)
	if err != nil {
		return ""
	}
	return staff.Email
}

func (h *StaffHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.StaffLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if requestBody.Email != h.staffEmail {
		return helperutils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := h.auth.VerifyPassword(requestBody.Password, h.staffPasswordHash); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.auth.GenerateToken(requestBody.Email)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"token": token,
	})
}

func (h *StaffHandler) Overview(ctx *fiber.Ctx) error {
	overview, err := h.selSvc.Overview()
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	total, finalized, err := h.appSvc.Counts()
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"applications": fiber.Map{
			"total":     total,
			"finalized": finalized,
		},
		"selections": overview,
	})
}

// drawParams merges the request over the defaults. nil keeps the default;
// an explicit zero survives the merge.
func drawParams(req dto.DrawRequest) services.DrawParams {
	params := services.DefaultDrawParams
	if req.NumberOfSeats != nil {
		params.NumberOfSeats = *req.NumberOfSeats
	}
	if req.MinFemaleQuota != nil {
		params.MinFemaleQuota = *req.MinFemaleQuota
	}
	if req.MaxCompanyQuota != nil {
		params.MaxCompanyQuota = *req.MaxCompanyQuota
	}
	return params
}

func (h *StaffHandler) Draw(ctx *fiber.Ctx) error {
	var requestBody dto.DrawRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.drawSvc.Draw(drawParams(requestBody), requestBody.Scholarship); err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "draw completed")
}

func (h *StaffHandler) AdvanceDrawn(ctx *fiber.Ctx) error {
	advanced, err := h.pipeSvc.AdvanceDrawn(h.actor(ctx))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"advanced": advanced,
	})
}

func (h *StaffHandler) RejectDraw(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	if err := h.selSvc.RejectDraw(selectionID); err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "draw rejected")
}

func (h *StaffHandler) InterviewDecision(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	var requestBody dto.InterviewDecisionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	err := h.pipeSvc.InterviewDecision(selectionID, requestBody.Action, requestBody.Message, h.actor(ctx))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "interview decision recorded")
}

func (h *StaffHandler) PaymentDecision(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	var requestBody dto.PaymentDecisionRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	err := h.pipeSvc.PaymentDecision(selectionID, requestBody.Action, requestBody.Message, h.actor(ctx))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "payment decision recorded")
}

func (h *StaffHandler) ManualStatusUpdate(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	var requestBody dto.ManualStatusUpdateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	err := h.selSvc.ManualUpdateStatus(selectionID, requestBody.Status, h.actor(ctx), requestBody.Message)
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "status updated")
}

func (h *StaffHandler) AddNote(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	var requestBody struct {
		Note string `json:"note"`
	}
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Note == "" {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "note is required")
	}

	if err := h.selSvc.AddNote(selectionID, requestBody.Note, h.actor(ctx)); err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "note added")
}

func (h *StaffHandler) Logs(ctx *fiber.Ctx) error {
	selectionID, ok := selectionIDParam(ctx)
	if !ok {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "invalid selection id")
	}

	logs, err := h.selSvc.Logs(selectionID)
	if err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}

func (h *StaffHandler) TriggerApplicationsAreOver(ctx *fiber.Ctx) error {
	finalized, err := h.appSvc.TriggerApplicationsAreOver()
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"finalized": finalized,
	})
}

func (h *StaffHandler) TriggerAdmissionsAreOver(ctx *fiber.Ctx) error {
	closed, err := h.pipeSvc.TriggerAdmissionsAreOver(h.actor(ctx))
	if err != nil {
		return helperutils.ResponseServiceError(ctx, err)
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"closed": closed,
	})
}

func (h *StaffHandler) SetFlag(ctx *fiber.Ctx) error {
	var requestBody dto.SetFlagRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	if err := h.validate.Struct(requestBody); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	if err := h.cal.SetFlag(requestBody.Key, requestBody.Value, h.actor(ctx)); err != nil {
		return helperutils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return helperutils.ResponseSuccess(ctx, fiber.StatusOK, "flag set")
}
