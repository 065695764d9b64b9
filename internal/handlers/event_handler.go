package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ecofest/accreditation-api/internal/domain/event"
	"github.com/ecofest/accreditation-api/internal/response"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
	"github.com/ecofest/accreditation-api/internal/validation"
)

type EventHandler struct {
	events   postgres.EventRepository
	validate validation.EventValidation
}

func NewEventHandler(events postgres.EventRepository) *EventHandler {
	return &EventHandler{events: events}
}

type CreateEventRequest struct {
	Name      string `json:"name" binding:"required"`
	Location  string `json:"location"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	if err := h.validate.ValidateEventName(req.Name); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	var startDate, endDate *time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.BadRequestError(c, "Invalid start_date format, expected YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.BadRequestError(c, "Invalid end_date format, expected YYYY-MM-DD")
			return
		}
		endDate = &parsed
	}

	newEvent := event.NewEvent(req.Name, req.Location, startDate, endDate)
	if err := newEvent.Validate(); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.events.Create(newEvent); err != nil {
		response.InternalServerError(c, "Failed to create event")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Event created", newEvent)
}

// GetAllEvents handles GET /api/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.events.GetAll()
	if err != nil {
		response.InternalServerError(c, "Failed to list events")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"events": events,
		"count":  len(events),
	})
}

// GetEvent handles GET /api/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequestError(c, "id must be a valid UUID")
		return
	}

	ev, err := h.events.GetByID(id)
	if err != nil {
		if postgres.IsNotFound(err) {
			response.NotFoundError(c, "Event not found")
			return
		}
		response.InternalServerError(c, "Failed to load event")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", ev)
}
