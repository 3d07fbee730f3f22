package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"levi/database/repository"
	"levi/models"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthHandler issues bearer tokens for registered accounts.
type AuthHandler struct {
	Store    repository.Store
	Secret   []byte
	TokenTTL time.Duration
}

func NewAuthHandler(store repository.Store, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{Store: store, Secret: secret, TokenTTL: ttl}
}

// LoginHandler handles POST /auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "Email and password are required", "")
		return
	}

	u, err := h.Store.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(creds.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	resp, err := h.issue(u)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info("User logged in", zap.String("userId", u.ID))
	c.JSON(http.StatusOK, resp)
}

// RegisterHandler handles POST /auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()

	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Username = strings.TrimSpace(reg.Username)
	switch {
	case reg.Username == "" || reg.Email == "":
		utils.JSONError(c, http.StatusBadRequest, "Username and email are required", "")
		return
	case len(reg.Password) < minPasswordLength:
		utils.JSONError(c, http.StatusBadRequest, "Password must be at least 8 characters", "")
		return
	case reg.Password != reg.ConfirmPassword:
		utils.JSONError(c, http.StatusBadRequest, "Passwords do not match", "")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, err)
		return
	}
	id, err := h.Store.NextID(ctx, repository.SeqUsers)
	if err != nil {
		abortWithError(c, err)
		return
	}
	u := &repository.UserDoc{
		ID:           id,
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: string(hash),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PhoneNumber:  reg.PhoneNumber,
		IsProvider:   reg.IsProvider,
		CreatedAt:    time.Now().UTC(),
	}
	if reg.IsProvider {
		u.Provider = &repository.ProviderDoc{IsAvailable: true}
	}
	if err := h.Store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.JSONError(c, http.StatusBadRequest, "A user with that email or username already exists.", "")
			return
		}
		abortWithError(c, err)
		return
	}

	resp, err := h.issue(u)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info("User registered", zap.String("userId", u.ID), zap.Bool("provider", u.IsProvider))
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) issue(u *repository.UserDoc) (models.AuthResponse, error) {
	rec := userRecord(u)
	token, err := utils.GenerateToken(h.Secret, u.ID, string(models.RoleFor(rec)), h.TokenTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{User: rec, Token: token}, nil
}
