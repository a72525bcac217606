package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/middleware"
	"github.com/moodline/backend/internal/models"
	"github.com/moodline/backend/internal/repositories"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	widgetRepository     repositories.WidgetRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, widgetRepo repositories.WidgetRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		widgetRepository:     widgetRepo,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/users/friend-requests", h.SendFriendRequest)
	g.GET("/users/friend-requests", h.ListFriendRequests)
	g.PUT("/friend-requests/:id", h.HandleFriendRequest)
	g.GET("/users/friends", h.ListFriends)
	g.POST("/users/friends/remove", h.RemoveFriend)
}

// SendFriendRequest sends a friend request to the user owning the given
// shareable code. At most one pending request may exist per direction.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	sender := middleware.CurrentUser(c)

	var req models.SendFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	receiver, err := h.userRepository.GetUserByCode(ctx, req.FriendCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "No user with this friend code")
		}
		return httpError(err)
	}
	if receiver.ID == sender.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}

	if _, err := h.friendshipRepository.GetPendingRequest(ctx, sender.ID, receiver.ID); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A friend request has already been sent")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return httpError(err)
	}

	request := &models.FriendRequest{
		From:   sender.ID,
		To:     receiver.ID,
		Status: models.FriendRequestPending,
	}
	if err := h.friendshipRepository.CreateFriendRequest(ctx, request); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Friend request sent"})
}

// ListFriendRequests returns the caller's incoming pending requests with
// each sender's name and friend code resolved
func (h *FriendshipHandler) ListFriendRequests(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ctx := c.Request().Context()

	requests, err := h.friendshipRepository.ListPendingRequestsFor(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		senderIDs = append(senderIDs, req.From)
	}
	senders, err := h.userRepository.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return httpError(err)
	}
	sendersByID := make(map[primitive.ObjectID]models.User, len(senders))
	for _, sender := range senders {
		sendersByID[sender.ID] = sender
	}

	views := make([]models.FriendRequestView, 0, len(requests))
	for _, req := range requests {
		sender := sendersByID[req.From]
		views = append(views, models.FriendRequestView{
			ID: req.ID,
			From: models.FriendSenderView{
				ID:         sender.ID,
				Name:       sender.Name,
				FriendCode: sender.Code,
			},
			CreatedAt: req.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// HandleFriendRequest accepts or declines a pending request. Only pending
// requests can transition; accepted and declined are terminal. Accepting
// adds each user to the other's friend set before the status flips; the
// status is not updated when the friend-set update fails.
func (h *FriendshipHandler) HandleFriendRequest(c echo.Context) error {
	requestID, err := primitiveIDFromHex(c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	var req models.HandleFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	request, err := h.friendshipRepository.GetFriendRequestByID(ctx, requestID)
	if err != nil {
		return httpError(err)
	}
	if request.Status != models.FriendRequestPending {
		return httpError(fmt.Errorf("%w: request is already %s", apperrors.ErrInvalidAction, request.Status))
	}

	switch req.Action {
	case "accept":
		if err := h.userRepository.AddMutualFriends(ctx, request.From, request.To); err != nil {
			return httpError(err)
		}
		if err := h.friendshipRepository.UpdateFriendRequestStatus(ctx, request.ID, models.FriendRequestAccepted); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Friend request accepted"})
	case "decline":
		if err := h.friendshipRepository.UpdateFriendRequestStatus(ctx, request.ID, models.FriendRequestDeclined); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "Friend request declined"})
	default:
		return httpError(fmt.Errorf("%w: unknown action %q", apperrors.ErrInvalidAction, req.Action))
	}
}

// ListFriends returns the caller's friends as id/name pairs
func (h *FriendshipHandler) ListFriends(c echo.Context) error {
	user := middleware.CurrentUser(c)

	friends, err := h.userRepository.GetUsersByIDs(c.Request().Context(), user.Friends)
	if err != nil {
		return httpError(err)
	}

	views := make([]models.FriendView, 0, len(friends))
	for _, friend := range friends {
		views = append(views, models.FriendView{ID: friend.ID, Name: friend.Name})
	}
	return c.JSON(http.StatusOK, views)
}

// RemoveFriend removes the friendship on both sides, deletes the caller's
// widgets referencing the ex-friend, and re-seeds a pending request from
// the ex-friend back to the caller unless one already exists, so the
// friendship stays discoverable. Removing someone who is not currently a
// friend is a no-op filter, not an error.
func (h *FriendshipHandler) RemoveFriend(c echo.Context) error {
	user := middleware.CurrentUser(c)

	var req models.RemoveFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendID, err := primitiveIDFromHex(req.FriendID)
	if err != nil {
		return httpError(err)
	}

	ctx := c.Request().Context()
	friend, err := h.userRepository.GetUserByID(ctx, friendID)
	if err != nil {
		return httpError(err)
	}

	if err := h.userRepository.RemoveMutualFriends(ctx, user.ID, friend.ID); err != nil {
		return httpError(err)
	}
	if _, err := h.widgetRepository.DeleteWidgetsByOwnerAndFriend(ctx, user.ID, friend.ID); err != nil {
		return httpError(err)
	}

	if _, err := h.friendshipRepository.GetPendingRequest(ctx, friend.ID, user.ID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return httpError(err)
		}
		reverse := &models.FriendRequest{
			From:   friend.ID,
			To:     user.ID,
			Status: models.FriendRequestPending,
		}
		if err := h.friendshipRepository.CreateFriendRequest(ctx, reverse); err != nil {
			return httpError(err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Friend removed, a request back has been created"})
}
