package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/moodline/backend/internal/apperrors"
	"github.com/moodline/backend/internal/models"
	"github.com/moodline/backend/internal/repositories"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

// AuthHandler handles registration, sign-in and the session token lifecycle
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client // nil when external identity is not configured
	accessSecret   string
	refreshSecret  string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, accessSecret, refreshSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		accessSecret:   accessSecret,
		refreshSecret:  refreshSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// tokenPair is the issued access/refresh pair returned to the client
type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register handles local user registration with username and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByName(ctx, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this name already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name: req.Username,
		Code: newFriendCode(),
		Services: models.UserServices{
			Password: &models.PasswordService{Hash: string(hashedPassword)},
		},
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a local user and issues a fresh token pair
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByName(ctx, req.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if user.Services.Password == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account has no local password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Services.Password.Hash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	pair, err := h.issueAndStore(ctx, user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh validates a refresh token and rotates the stored pair. The
// presented token must be the one currently on record; anything older has
// been invalidated by a previous rotation or logout.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.resolveRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	pair, err := h.issueAndStore(ctx, user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout invalidates the stored token pair
func (h *AuthHandler) Logout(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.resolveRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
	}
	if err := h.userRepository.ClearTokens(ctx, user.ID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// FirebaseLogin verifies a provider ID token and signs the user in,
// creating the account on first login
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "External identity login is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return httpError(err)
		}
		name := ""
		if displayName, ok := token.Claims["name"].(string); ok {
			name = displayName
		}
		email := ""
		if claimEmail, ok := token.Claims["email"].(string); ok {
			email = claimEmail
		}
		user = &models.User{
			Name: name,
			Code: newFriendCode(),
			Services: models.UserServices{
				Firebase: &models.FirebaseService{UID: token.UID, Email: email},
			},
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return httpError(err)
		}
	}

	pair, err := h.issueAndStore(ctx, user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// resolveRefreshToken parses a refresh JWT, loads its user and requires the
// token to match the stored one
func (h *AuthHandler) resolveRefreshToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrForbidden
	}

	userID, err := primitiveIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Tokens.RefreshToken != tokenString {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}

// issueAndStore signs a fresh access/refresh pair and persists it on the
// user, invalidating whatever was stored before
func (h *AuthHandler) issueAndStore(ctx context.Context, user *models.User) (*tokenPair, error) {
	access, err := h.signToken(user, h.accessSecret, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := h.signToken(user, h.refreshSecret, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := h.userRepository.SaveTokens(ctx, user.ID, access, refresh); err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (h *AuthHandler) signToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// newFriendCode generates a short shareable code used for friend discovery
func newFriendCode() string {
	return uuid.NewString()[:8]
}
