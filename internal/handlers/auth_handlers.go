package handlers

import (
	"net/http"
	"time"

	"stockledger/internal/common"
	"stockledger/internal/models"
	"stockledger/internal/repositories"
	"stockledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers handles registration, login, and the current-user endpoint.
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
}

func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
	}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// AuthResponse carries the issued token plus the user record.
type AuthResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "Email and password required")
	}

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to look up user")
	}
	if existing != nil {
		return common.SendError(c, http.StatusConflict, "USER_EXISTS", "User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		Name:         req.Name,
		CreatedAt:    time.Now(),
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to create user")
	}

	token, err := h.authService.GenerateToken(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, AuthResponse{TokenResponse: *token, User: user})
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "Missing credentials")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to look up user")
	}
	if user == nil {
		return common.SendError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	}

	token, err := h.authService.GenerateToken(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, AuthResponse{TokenResponse: *token, User: user})
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Failed to look up user")
	}
	if user == nil {
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, map[string]any{"user": user})
}
