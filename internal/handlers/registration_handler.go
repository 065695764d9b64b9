package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/lifecycle"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/response"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
	"github.com/ecofest/accreditation-api/internal/validation"
)

type RegistrationHandler struct {
	controller    *lifecycle.Controller
	registrations postgres.RegistrationRepository
	badges        postgres.BadgeRepository
	store         blob.Store
	maxFileSize   int64
	validate      validation.RegistrationValidation
}

func NewRegistrationHandler(
	controller *lifecycle.Controller,
	registrations postgres.RegistrationRepository,
	badges postgres.BadgeRepository,
	store blob.Store,
	maxFileSize int64,
) *RegistrationHandler {
	return &RegistrationHandler{
		controller:    controller,
		registrations: registrations,
		badges:        badges,
		store:         store,
		maxFileSize:   maxFileSize,
	}
}

type SubmitRegistrationRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Nationality  string `json:"nationality"`
	Origin       string `json:"origin"`
	Address      string `json:"address"`
	BirthDate    string `json:"birth_date"`
	Profile      string `json:"profile" binding:"required"`
	Organization string `json:"organization"`
	EventID      string `json:"event_id"`
}

// Submit handles POST /api/registrations
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	profile, ok := registration.ProfileFromString(req.Profile)
	if !ok {
		response.BadRequestError(c, "Unknown profile: "+req.Profile)
		return
	}

	if err := h.validate.ValidateName(req.FirstName, req.LastName); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := h.validate.ValidateContact(req.Email, req.Phone); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	submit := lifecycle.SubmitRequest{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Nationality:  req.Nationality,
		Origin:       req.Origin,
		Address:      req.Address,
		Organization: req.Organization,
		Profile:      profile,
	}

	if req.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			response.BadRequestError(c, "Invalid birth_date format, expected YYYY-MM-DD")
			return
		}
		submit.BirthDate = &birthDate
	}

	if req.EventID != "" {
		eventID, err := uuid.Parse(req.EventID)
		if err != nil {
			response.BadRequestError(c, "event_id must be a valid UUID")
			return
		}
		submit.EventID = &eventID
	}

	reg, err := h.controller.Submit(c.Request.Context(), submit)
	if err != nil {
		if errors.Is(err, registration.ErrNameRequired) ||
			errors.Is(err, registration.ErrEmailInvalid) ||
			errors.Is(err, registration.ErrProfileInvalid) {
			response.BadRequestError(c, err.Error())
			return
		}
		logger.Handler("registration").Error("Fallo al crear la inscripción", "error", err)
		response.InternalServerError(c, "Failed to create registration")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Registration received", reg)
}

// List handles GET /api/registrations, with an optional ?status= filter
func (h *RegistrationHandler) List(c *gin.Context) {
	statusParam := c.Query("status")

	var regs []*registration.Registration
	var err error

	if statusParam != "" {
		status, ok := registration.StatusFromString(statusParam)
		if !ok {
			response.BadRequestError(c, "Unknown status: "+statusParam)
			return
		}
		regs, err = h.registrations.GetByStatus(status)
	} else {
		regs, err = h.registrations.GetAll()
	}
	if err != nil {
		response.InternalServerError(c, "Failed to list registrations")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"registrations": regs,
		"count":         len(regs),
	})
}

// Get handles GET /api/registrations/:id
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	reg, err := h.registrations.GetByID(id)
	if err != nil {
		if postgres.IsNotFound(err) {
			response.NotFoundError(c, "Registration not found")
			return
		}
		response.InternalServerError(c, "Failed to load registration")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", reg)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark"`
}

// UpdateStatus handles POST /api/registrations/:id/status. An unknown
// status string is rejected before any state is touched.
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	status, valid := registration.StatusFromString(req.Status)
	if !valid {
		response.BadRequestError(c, "Unknown status: "+req.Status)
		return
	}
	if status == registration.StatusPending {
		response.BadRequestError(c, "Status must be approved or rejected")
		return
	}
	if err := h.validate.ValidateRemark(req.Remark); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	switch status {
	case registration.StatusApproved:
		reg, effects, err := h.controller.Approve(c.Request.Context(), id, req.Remark)
		if err != nil {
			h.decisionError(c, err)
			return
		}
		response.SuccessWithWarnings(c, http.StatusOK, "Registration approved", gin.H{
			"registration": reg,
			"side_effects": effects,
		}, effects.Warnings())

	case registration.StatusRejected:
		reg, err := h.controller.Reject(c.Request.Context(), id, req.Remark)
		if err != nil {
			h.decisionError(c, err)
			return
		}
		response.SuccessResponse(c, http.StatusOK, "Registration rejected", reg)
	}
}

func (h *RegistrationHandler) decisionError(c *gin.Context, err error) {
	if postgres.IsNotFound(err) {
		response.NotFoundError(c, "Registration not found")
		return
	}
	logger.Handler("registration").Error("Fallo al actualizar el estado", "error", err)
	response.InternalServerError(c, "Failed to update registration status")
}

// ResendConfirmation handles POST /api/registrations/:id/resend-confirmation
func (h *RegistrationHandler) ResendConfirmation(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.controller.ResendConfirmation(c.Request.Context(), id); err != nil {
		if postgres.IsNotFound(err) {
			response.NotFoundError(c, "Registration not found")
			return
		}
		response.ErrorResponseWithMessage(c, http.StatusBadGateway, err.Error())
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Confirmation email dispatched", nil)
}

// GetBadge handles GET /api/registrations/:id/badge
func (h *RegistrationHandler) GetBadge(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	issued, err := h.badges.GetByRegistrationID(id)
	if err != nil {
		if postgres.IsNotFound(err) {
			response.NotFoundError(c, "No badge issued for this registration")
			return
		}
		response.InternalServerError(c, "Failed to load badge")
		return
	}

	url, err := h.store.URLFor(c.Request.Context(), issued.PNGPath)
	if err != nil {
		url = ""
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"badge":   issued,
		"png_url": url,
	})
}

// allowed identity-document content types
var allowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// UploadDocument handles POST /api/registrations/:id/documents
func (h *RegistrationHandler) UploadDocument(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	reg, err := h.registrations.GetByID(id)
	if err != nil {
		if postgres.IsNotFound(err) {
			response.NotFoundError(c, "Registration not found")
			return
		}
		response.InternalServerError(c, "Failed to load registration")
		return
	}

	slot := registration.DocumentSlot(c.PostForm("slot"))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No file provided",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		response.BadRequestError(c, fmt.Sprintf("File size exceeds %d byte limit", h.maxFileSize))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedDocumentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "File type not allowed",
			"allowed_types": []string{"JPEG", "PNG", "PDF"},
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}

	path := blob.DocumentPath(id, string(slot), filepath.Ext(header.Filename))
	if !reg.SetDocument(slot, path) {
		response.BadRequestError(c, "Unknown document slot, expected passport, id_card or press_card")
		return
	}

	if err := h.store.Write(c.Request.Context(), path, data, contentType); err != nil {
		logger.Handler("registration").Error("Fallo al guardar el documento", "registration_id", id, "error", err)
		response.InternalServerError(c, "Failed to store document")
		return
	}

	if err := h.registrations.Update(reg); err != nil {
		response.InternalServerError(c, "Failed to update registration")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Document uploaded", gin.H{
		"slot": slot,
		"path": path,
	})
}

func (h *RegistrationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequestError(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
