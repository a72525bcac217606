package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/aggregation"
	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/dates"
	"github.com/moodline/backend/internal/middleware"
	"github.com/moodline/backend/internal/models"
	"github.com/moodline/backend/internal/repositories"
)

// EventHandler handles HTTP requests related to journaled events and their
// mood aggregations
type EventHandler struct {
	eventRepository     repositories.EventRepository
	referenceRepository repositories.ReferenceRepository
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventRepo repositories.EventRepository, referenceRepo repositories.ReferenceRepository) *EventHandler {
	return &EventHandler{
		eventRepository:     eventRepo,
		referenceRepository: referenceRepo,
	}
}

// RegisterEventRoutes registers event-related routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.ListEvents)
	g.DELETE("/events", h.DeleteEvents)
	g.DELETE("/events/today", h.DeleteToday)
	g.GET("/events/day", h.ListDay)
	g.GET("/events/week", h.ListWeekDates)
	g.GET("/events/summary/today", h.SummarizeToday)
	g.GET("/events/:id", h.GetEvent)
	g.GET("/event-types", h.ListEventTypes)
	g.GET("/mood-types", h.ListMoodTypes)
	g.GET("/moods", h.ListMoodSynonyms)
}

// CreateEvent records a new event. Every referenced mood synonym must exist:
// the ids are checked with one batch count query and the event is only
// persisted when all of them resolve.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	eventTypeID, err := validationIDFromHex(req.EventTypeID)
	if err != nil {
		return httpError(err)
	}
	synonymIDs := make([]primitive.ObjectID, 0, len(req.MoodSynonymIDs))
	for _, hex := range req.MoodSynonymIDs {
		id, err := validationIDFromHex(hex)
		if err != nil {
			return httpError(err)
		}
		synonymIDs = append(synonymIDs, id)
	}

	ctx := c.Request().Context()
	count, err := h.referenceRepository.CountMoodSynonymsByIDs(ctx, synonymIDs)
	if err != nil {
		return httpError(err)
	}
	if count != int64(len(synonymIDs)) {
		return httpError(fmt.Errorf("%w: some mood ids do not exist", apperrors.ErrValidation))
	}

	event := &models.Event{
		OwnerID:        user.ID,
		EventTypeID:    eventTypeID,
		Name:           req.Name,
		Description:    req.Description,
		MoodSynonymIDs: synonymIDs,
	}
	if err := h.eventRepository.CreateEvent(ctx, event); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// ListEvents returns the fully joined detail view of all events
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.eventRepository.ListEventsDetailed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent returns the detail view of a single event
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := primitiveIDFromHex(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	event, err := h.eventRepository.GetEventDetailByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvents deletes the events named in the body and reports how many
// were removed; zero is a valid result
func (h *EventHandler) DeleteEvents(c echo.Context) error {
	var req models.DeleteEventsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, hex := range req.IDs {
		id, err := validationIDFromHex(hex)
		if err != nil {
			return httpError(err)
		}
		ids = append(ids, id)
	}

	deleted, err := h.eventRepository.DeleteEventsByIDs(c.Request().Context(), ids)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Events deleted successfully",
		"deletedCount": deleted,
	})
}

// DeleteToday deletes all of the caller's events recorded today
func (h *EventHandler) DeleteToday(c echo.Context) error {
	user := middleware.CurrentUser(c)
	from, to := dates.DayBounds(time.Now())

	deleted, err := h.eventRepository.DeleteEventsForDay(c.Request().Context(), &user.ID, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Events deleted successfully",
		"deletedCount": deleted,
	})
}

// ListDay returns the caller's events for the given date, newest first
func (h *EventHandler) ListDay(c echo.Context) error {
	user := middleware.CurrentUser(c)

	day, err := dates.ParseDay(c.QueryParam("date"))
	if err != nil {
		return httpError(err)
	}
	from, _ := dates.DayBounds(day)

	events, err := h.eventRepository.ListEventsByDay(c.Request().Context(), user.ID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// ListWeekDates returns the distinct DD.MM.YYYY dates with events within
// the ISO week containing the given date
func (h *EventHandler) ListWeekDates(c echo.Context) error {
	user := middleware.CurrentUser(c)

	day, err := dates.ParseDay(c.QueryParam("date"))
	if err != nil {
		return httpError(err)
	}
	from, to := dates.WeekBounds(day)

	stamps, err := h.eventRepository.ListCreatedBetween(c.Request().Context(), user.ID, from, to)
	if err != nil {
		return httpError(err)
	}
	days := aggregation.DistinctDates(stamps)
	if days == nil {
		days = []string{}
	}
	return c.JSON(http.StatusOK, days)
}

// SummarizeToday returns the percentage mood breakdown of today's events
// for the caller or, when friendId is supplied, for a friend. The friendship
// check runs before any cross-user read.
func (h *EventHandler) SummarizeToday(c echo.Context) error {
	user := middleware.CurrentUser(c)

	target, err := resolveTarget(user, c.QueryParam("friendId"))
	if err != nil {
		return httpError(err)
	}

	from, to := dates.DayBounds(time.Now())
	rows, err := h.eventRepository.ListMoodOccurrences(c.Request().Context(), target, from, to)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, aggregation.Summarize(rows))
}

// ListEventTypes returns the event type catalog
func (h *EventHandler) ListEventTypes(c echo.Context) error {
	types, err := h.referenceRepository.ListEventTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

// ListMoodTypes returns the mood type catalog with display metadata
func (h *EventHandler) ListMoodTypes(c echo.Context) error {
	types, err := h.referenceRepository.ListMoodTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

// ListMoodSynonyms returns the mood synonym catalog
func (h *EventHandler) ListMoodSynonyms(c echo.Context) error {
	synonyms, err := h.referenceRepository.ListMoodSynonyms(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, synonyms)
}

// resolveTarget decides whose events a read may touch. Without a friend id
// the target is the requester; with one, the id must be in the requester's
// friend set or the read is forbidden.
func resolveTarget(requester *models.User, friendIDHex string) (primitive.ObjectID, error) {
	if friendIDHex == "" {
		return requester.ID, nil
	}
	friendID, err := validationIDFromHex(friendIDHex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	for _, id := range requester.Friends {
		if id == friendID {
			return friendID, nil
		}
	}
	return primitive.NilObjectID, fmt.Errorf("%w: user %s is not a friend", apperrors.ErrForbidden, friendIDHex)
}
