package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"levi/database/repository"
	"levi/middleware"
	"levi/models"
	"levi/services/user"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPictureBytes = 5 << 20

// ProfileHandler serves the signed-in actor's profile.
type ProfileHandler struct {
	Store repository.Store
	// MediaDir receives uploaded profile pictures; they are served under /media.
	MediaDir string
}

func NewProfileHandler(store repository.Store, mediaDir string) *ProfileHandler {
	return &ProfileHandler{Store: store, MediaDir: mediaDir}
}

// GetProfileHandler handles GET /users/profile.
func (h *ProfileHandler) GetProfileHandler(c *gin.Context) {
	actorID, _ := middleware.Actor(c)
	u, err := h.Store.GetUserByID(c.Request.Context(), actorID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileRecord(u))
}

// UpdateProfileHandler handles PATCH /users/profile with either a JSON ProfilePatch or a
// multipart form carrying profile_picture.
func (h *ProfileHandler) UpdateProfileHandler(c *gin.Context) {
	ctx := c.Request.Context()
	logger := getLogger(c)
	actorID, role := middleware.Actor(c)

	u, err := h.Store.GetUserByID(ctx, actorID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		url, err := h.savePicture(c)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid upload", err.Error())
			return
		}
		u.ProfilePicture = url
	} else {
		var patch models.ProfilePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		if err := user.AuthorizeProfileUpdate(role, asProfileUpdate(patch)); err != nil {
			abortWithError(c, err)
			return
		}
		applyProfilePatch(u, patch)
	}

	if err := h.Store.UpdateUser(ctx, u); err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info("Profile updated", zap.String("userId", u.ID))
	c.JSON(http.StatusOK, profileRecord(u))
}

func (h *ProfileHandler) savePicture(c *gin.Context) (string, error) {
	fh, err := c.FormFile("profile_picture")
	if err != nil {
		return "", err
	}
	if fh.Size > maxPictureBytes {
		return "", fmt.Errorf("picture exceeds %d bytes", maxPictureBytes)
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("unsupported content type %q", ct)
	}
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(h.MediaDir, name)); err != nil {
		return "", err
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/media/%s", scheme, c.Request.Host, name), nil
}

// asProfileUpdate maps the wire patch onto the fields the profile guard checks.
func asProfileUpdate(p models.ProfilePatch) models.ProfileUpdate {
	u := models.ProfileUpdate{
		Email:       p.Email,
		Phone:       p.PhoneNumber,
		Service:     p.Service,
		IsAvailable: p.IsAvailable,
	}
	if p.FirstName != nil || p.LastName != nil {
		var parts []string
		if p.FirstName != nil {
			parts = append(parts, *p.FirstName)
		}
		if p.LastName != nil {
			parts = append(parts, *p.LastName)
		}
		name := strings.TrimSpace(strings.Join(parts, " "))
		u.Name = &name
	}
	if p.HourlyRate != nil {
		rate := p.HourlyRate.InexactFloat64()
		u.HourlyRate = &rate
	}
	return u
}

func applyProfilePatch(u *repository.UserDoc, p models.ProfilePatch) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Service == nil && p.HourlyRate == nil && p.IsAvailable == nil {
		return
	}
	if u.Provider == nil {
		u.Provider = &repository.ProviderDoc{}
	}
	if p.Service != nil {
		u.Provider.Service = *p.Service
	}
	if p.HourlyRate != nil {
		u.Provider.HourlyRate = p.HourlyRate.InexactFloat64()
	}
	if p.IsAvailable != nil {
		u.Provider.IsAvailable = *p.IsAvailable
	}
}
