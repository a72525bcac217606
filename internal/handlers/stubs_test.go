package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moodline/backend/internal/aggregation"
	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
)

// newTestContext builds an echo context the way the middleware would hand
// it to a handler, with the authenticated user already resolved.
func newTestContext(t *testing.T, method, target, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
	}
	return c, rec
}

// httpStatusOf extracts the status code a handler error would produce
func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

// --- stub user repository ---

type stubUserRepository struct {
	users          map[primitive.ObjectID]*models.User
	mutualAddCalls int
}

func newStubUserRepository(users ...*models.User) *stubUserRepository {
	repo := &stubUserRepository{users: map[primitive.ObjectID]*models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (s *stubUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
}

func (s *stubUserRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	for _, user := range s.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
}

func (s *stubUserRepository) GetUserByCode(ctx context.Context, code string) (*models.User, error) {
	for _, user := range s.users {
		if user.Code == code {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
}

func (s *stubUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	for _, user := range s.users {
		if user.Services.Firebase != nil && user.Services.Firebase.UID == uid {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
}

func (s *stubUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *stubUserRepository) AddMutualFriends(ctx context.Context, a, b primitive.ObjectID) error {
	s.mutualAddCalls++
	s.addFriend(a, b)
	s.addFriend(b, a)
	return nil
}

func (s *stubUserRepository) addFriend(owner, friend primitive.ObjectID) {
	user, ok := s.users[owner]
	if !ok {
		return
	}
	for _, id := range user.Friends {
		if id == friend {
			return
		}
	}
	user.Friends = append(user.Friends, friend)
}

func (s *stubUserRepository) RemoveMutualFriends(ctx context.Context, a, b primitive.ObjectID) error {
	s.removeFriend(a, b)
	s.removeFriend(b, a)
	return nil
}

func (s *stubUserRepository) removeFriend(owner, friend primitive.ObjectID) {
	user, ok := s.users[owner]
	if !ok {
		return
	}
	kept := user.Friends[:0]
	for _, id := range user.Friends {
		if id != friend {
			kept = append(kept, id)
		}
	}
	user.Friends = kept
}

func (s *stubUserRepository) SaveTokens(ctx context.Context, id primitive.ObjectID, access, refresh string) error {
	if user, ok := s.users[id]; ok {
		user.Tokens = models.UserTokens{AccessToken: access, RefreshToken: refresh}
	}
	return nil
}

func (s *stubUserRepository) ClearTokens(ctx context.Context, id primitive.ObjectID) error {
	if user, ok := s.users[id]; ok {
		user.Tokens = models.UserTokens{}
	}
	return nil
}

// --- stub friendship repository ---

type stubFriendshipRepository struct {
	requests map[primitive.ObjectID]*models.FriendRequest
}

func newStubFriendshipRepository(requests ...*models.FriendRequest) *stubFriendshipRepository {
	repo := &stubFriendshipRepository{requests: map[primitive.ObjectID]*models.FriendRequest{}}
	for _, req := range requests {
		repo.requests[req.ID] = req
	}
	return repo
}

func (s *stubFriendshipRepository) CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	req.ID = primitive.NewObjectID()
	if req.Status == "" {
		req.Status = models.FriendRequestPending
	}
	req.CreatedAt = time.Now()
	s.requests[req.ID] = req
	return nil
}

func (s *stubFriendshipRepository) GetFriendRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	if req, ok := s.requests[id]; ok {
		return req, nil
	}
	return nil, fmt.Errorf("%w: friend request", apperrors.ErrNotFound)
}

func (s *stubFriendshipRepository) GetPendingRequest(ctx context.Context, from, to primitive.ObjectID) (*models.FriendRequest, error) {
	for _, req := range s.requests {
		if req.From == from && req.To == to && req.Status == models.FriendRequestPending {
			return req, nil
		}
	}
	return nil, fmt.Errorf("%w: pending friend request", apperrors.ErrNotFound)
}

func (s *stubFriendshipRepository) ListPendingRequestsFor(ctx context.Context, to primitive.ObjectID) ([]models.FriendRequest, error) {
	requests := []models.FriendRequest{}
	for _, req := range s.requests {
		if req.To == to && req.Status == models.FriendRequestPending {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

func (s *stubFriendshipRepository) UpdateFriendRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if req, ok := s.requests[id]; ok {
		req.Status = status
	}
	return nil
}

func (s *stubFriendshipRepository) pendingCount(from, to primitive.ObjectID) int {
	count := 0
	for _, req := range s.requests {
		if req.From == from && req.To == to && req.Status == models.FriendRequestPending {
			count++
		}
	}
	return count
}

// --- stub widget repository ---

type stubWidgetRepository struct {
	widgets map[primitive.ObjectID]*models.Widget
}

func newStubWidgetRepository(widgets ...*models.Widget) *stubWidgetRepository {
	repo := &stubWidgetRepository{widgets: map[primitive.ObjectID]*models.Widget{}}
	for _, widget := range widgets {
		repo.widgets[widget.ID] = widget
	}
	return repo
}

func (s *stubWidgetRepository) CreateWidget(ctx context.Context, widget *models.Widget) error {
	widget.ID = primitive.NewObjectID()
	s.widgets[widget.ID] = widget
	return nil
}

func (s *stubWidgetRepository) ListWidgetsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Widget, error) {
	widgets := []models.Widget{}
	for _, widget := range s.widgets {
		if widget.OwnerID == owner {
			widgets = append(widgets, *widget)
		}
	}
	return widgets, nil
}

func (s *stubWidgetRepository) DeleteWidget(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.widgets[id]; !ok {
		return fmt.Errorf("%w: widget", apperrors.ErrNotFound)
	}
	delete(s.widgets, id)
	return nil
}

func (s *stubWidgetRepository) HasWithoutFriendWidget(ctx context.Context, owner primitive.ObjectID) (bool, error) {
	for _, widget := range s.widgets {
		if widget.OwnerID == owner && widget.Kind == models.WidgetWithoutFriend {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubWidgetRepository) DeleteWidgetsByOwnerAndFriend(ctx context.Context, owner, friend primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, widget := range s.widgets {
		if widget.OwnerID == owner && widget.FriendID != nil && *widget.FriendID == friend {
			delete(s.widgets, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- stub event repository ---

type stubEventRepository struct {
	events      map[primitive.ObjectID]*models.Event
	occurrences []aggregation.Occurrence
	stamps      []time.Time
}

func newStubEventRepository() *stubEventRepository {
	return &stubEventRepository{events: map[primitive.ObjectID]*models.Event{}}
}

func (s *stubEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	s.events[event.ID] = event
	return nil
}

func (s *stubEventRepository) GetEventDetailByID(ctx context.Context, id primitive.ObjectID) (*models.EventDetail, error) {
	if event, ok := s.events[id]; ok {
		return &models.EventDetail{ID: event.ID, Name: event.Name, CreatedAt: event.CreatedAt}, nil
	}
	return nil, fmt.Errorf("%w: event", apperrors.ErrNotFound)
}

func (s *stubEventRepository) ListEventsDetailed(ctx context.Context) ([]models.EventDetail, error) {
	details := []models.EventDetail{}
	for _, event := range s.events {
		details = append(details, models.EventDetail{ID: event.ID, Name: event.Name, CreatedAt: event.CreatedAt})
	}
	return details, nil
}

func (s *stubEventRepository) ListEventsByDay(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]models.DayEvent, error) {
	events := []models.DayEvent{}
	for _, event := range s.events {
		if event.OwnerID == owner && !event.CreatedAt.Before(from) && event.CreatedAt.Before(to) {
			events = append(events, models.DayEvent{ID: event.ID, Name: event.Name, CreatedAt: event.CreatedAt})
		}
	}
	return events, nil
}

func (s *stubEventRepository) ListMoodOccurrences(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]aggregation.Occurrence, error) {
	return s.occurrences, nil
}

func (s *stubEventRepository) ListCreatedBetween(ctx context.Context, owner primitive.ObjectID, from, to time.Time) ([]time.Time, error) {
	return s.stamps, nil
}

func (s *stubEventRepository) DeleteEventsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := s.events[id]; ok {
			delete(s.events, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *stubEventRepository) DeleteEventsForDay(ctx context.Context, owner *primitive.ObjectID, from, to time.Time) (int64, error) {
	var deleted int64
	for id, event := range s.events {
		if owner != nil && event.OwnerID != *owner {
			continue
		}
		if !event.CreatedAt.Before(from) && !event.CreatedAt.After(to) {
			delete(s.events, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- stub reference repository ---

type stubReferenceRepository struct {
	eventTypes []models.EventType
	moodTypes  []models.MoodType
	synonyms   []models.MoodSynonym
}

func (s *stubReferenceRepository) CountEventTypes(ctx context.Context) (int64, error) {
	return int64(len(s.eventTypes)), nil
}

func (s *stubReferenceRepository) InsertEventTypes(ctx context.Context, types []models.EventType) error {
	s.eventTypes = append(s.eventTypes, types...)
	return nil
}

func (s *stubReferenceRepository) ListEventTypes(ctx context.Context) ([]models.EventType, error) {
	return s.eventTypes, nil
}

func (s *stubReferenceRepository) CountMoodTypes(ctx context.Context) (int64, error) {
	return int64(len(s.moodTypes)), nil
}

func (s *stubReferenceRepository) InsertMoodTypes(ctx context.Context, types []models.MoodType) error {
	s.moodTypes = append(s.moodTypes, types...)
	return nil
}

func (s *stubReferenceRepository) ListMoodTypes(ctx context.Context) ([]models.MoodType, error) {
	return s.moodTypes, nil
}

func (s *stubReferenceRepository) CountMoodSynonyms(ctx context.Context) (int64, error) {
	return int64(len(s.synonyms)), nil
}

func (s *stubReferenceRepository) InsertMoodSynonym(ctx context.Context, synonym *models.MoodSynonym) error {
	s.synonyms = append(s.synonyms, *synonym)
	return nil
}

func (s *stubReferenceRepository) ListMoodSynonyms(ctx context.Context) ([]models.MoodSynonym, error) {
	return s.synonyms, nil
}

func (s *stubReferenceRepository) CountMoodSynonymsByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, id := range ids {
		for _, synonym := range s.synonyms {
			if synonym.ID == id {
				count++
				break
			}
		}
	}
	return count, nil
}
