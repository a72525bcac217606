package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/middleware"
	"github.com/moodline/backend/internal/models"
	"github.com/moodline/backend/internal/repositories"
)

// WidgetHandler handles HTTP requests related to dashboard widgets
type WidgetHandler struct {
	widgetRepository repositories.WidgetRepository
	userRepository   repositories.UserRepository
}

// NewWidgetHandler creates a new WidgetHandler
func NewWidgetHandler(widgetRepo repositories.WidgetRepository, userRepo repositories.UserRepository) *WidgetHandler {
	return &WidgetHandler{
		widgetRepository: widgetRepo,
		userRepository:   userRepo,
	}
}

// RegisterWidgetRoutes registers widget-related routes
func (h *WidgetHandler) RegisterWidgetRoutes(g *echo.Group) {
	g.POST("/widgets", h.CreateWidget)
	g.GET("/widgets", h.ListWidgets)
	g.DELETE("/widgets/:id", h.DeleteWidget)
}

// CreateWidget adds a dashboard widget. A with_friend widget must name a
// friend from the caller's friend set; a without_friend widget must not
// name anyone and is limited to one per user.
func (h *WidgetHandler) CreateWidget(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.CreateWidgetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Kind == models.WidgetWithFriend && req.FriendID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, `friendId is required when type is "with_friend"`)
	}
	if req.Kind == models.WidgetWithoutFriend && req.FriendID != "" {
		return echo.NewHTTPError(http.StatusBadRequest, `friendId should not be provided when type is "without_friend"`)
	}

	ctx := c.Request().Context()
	widget := &models.Widget{OwnerID: user.ID, Kind: req.Kind}

	if req.Kind == models.WidgetWithFriend {
		friendID, err := validationIDFromHex(req.FriendID)
		if err != nil {
			return httpError(err)
		}
		isFriend := false
		for _, id := range user.Friends {
			if id == friendID {
				isFriend = true
				break
			}
		}
		if !isFriend {
			return echo.NewHTTPError(http.StatusBadRequest, "Friend ID is not in user's friends list")
		}
		widget.FriendID = &friendID
	} else {
		exists, err := h.widgetRepository.HasWithoutFriendWidget(ctx, user.ID)
		if err != nil {
			return httpError(err)
		}
		if exists {
			return echo.NewHTTPError(http.StatusBadRequest, `User already has a "without_friend" widget`)
		}
	}

	if err := h.widgetRepository.CreateWidget(ctx, widget); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, widget)
}

// ListWidgets returns the caller's widgets with friend names resolved
func (h *WidgetHandler) ListWidgets(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	widgets, err := h.widgetRepository.ListWidgetsByOwner(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}

	friendIDs := make([]primitive.ObjectID, 0, len(widgets))
	for _, widget := range widgets {
		if widget.FriendID != nil {
			friendIDs = append(friendIDs, *widget.FriendID)
		}
	}
	friends, err := h.userRepository.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return httpError(err)
	}
	namesByID := make(map[primitive.ObjectID]string, len(friends))
	for _, friend := range friends {
		namesByID[friend.ID] = friend.Name
	}

	views := make([]models.WidgetView, 0, len(widgets))
	for _, widget := range widgets {
		view := models.WidgetView{
			ID:       widget.ID,
			Kind:     widget.Kind,
			FriendID: widget.FriendID,
		}
		if widget.FriendID != nil {
			view.FriendName = namesByID[*widget.FriendID]
		}
		views = append(views, view)
	}
	return c.JSON(http.StatusOK, views)
}

// DeleteWidget deletes a widget by id
func (h *WidgetHandler) DeleteWidget(c echo.Context) error {
	id, err := primitiveIDFromHex(c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if err := h.widgetRepository.DeleteWidget(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Widget deleted successfully"})
}
