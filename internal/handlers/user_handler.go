package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moodline/backend/internal/middleware"
)

// UserHandler handles HTTP requests for the authenticated user's profile
type UserHandler struct{}

// NewUserHandler creates a new UserHandler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.GetProfile)
}

// GetProfile returns the caller's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{
		"id":         user.ID,
		"name":       user.Name,
		"friendCode": user.Code,
	})
}
