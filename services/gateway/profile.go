package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"levi/models"
	"levi/services/user"
	"levi/utils"

	"github.com/shopspring/decimal"
)

// GetUserProfile returns the signed-in actor's profile.
func (c *Client) GetUserProfile(ctx context.Context) (models.UserProfile, error) {
	const op = "gateway.GetUserProfile"

	return readWithFallback(c, op, func() (models.UserProfile, error) {
		var rec models.ProfileRecord
		if err := c.doJSON(ctx, op, http.MethodGet, "/users/profile", nil, nil, &rec); err != nil {
			return models.UserProfile{}, err
		}
		return toProfile(rec), nil
	}, MockProfile)
}

// UpdateUserProfile applies a partial update. Consumers may change identity fields only.
func (c *Client) UpdateUserProfile(ctx context.Context, u models.ProfileUpdate) (models.UserProfile, error) {
	const op = "gateway.UpdateUserProfile"

	s, err := c.requireSession(op)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := user.AuthorizeProfileUpdate(s.Role, u); err != nil {
		return models.UserProfile{}, err
	}

	var rec models.ProfileRecord
	if err := c.doJSON(ctx, op, http.MethodPatch, "/users/profile", nil, profilePatch(u), &rec); err != nil {
		return models.UserProfile{}, err
	}
	return toProfile(rec), nil
}

func profilePatch(u models.ProfileUpdate) models.ProfilePatch {
	p := models.ProfilePatch{
		Email:       u.Email,
		PhoneNumber: u.Phone,
		Service:     u.Service,
		IsAvailable: u.IsAvailable,
	}
	if u.Name != nil {
		first, last, _ := strings.Cut(strings.TrimSpace(*u.Name), " ")
		last = strings.TrimSpace(last)
		p.FirstName, p.LastName = &first, &last
	}
	if u.HourlyRate != nil {
		rate := decimal.NewFromFloat(*u.HourlyRate)
		p.HourlyRate = &rate
	}
	return p
}

// UploadProfilePicture uploads an image as the actor's avatar and returns its URL.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (string, error) {
	const op = "gateway.UploadProfilePicture"

	if _, err := c.requireSession(op); err != nil {
		return "", err
	}
	if strings.TrimSpace(filename) == "" {
		return "", utils.NewError(utils.KindValidation, op, "file name is required")
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if !strings.HasPrefix(contentType, "image/") {
		return "", utils.NewError(utils.KindValidation, op, "%s is not an image", filename)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_picture"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", utils.WrapError(utils.KindValidation, op, err, "build upload")
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", utils.WrapError(utils.KindValidation, op, err, "read image")
	}
	if err := w.Close(); err != nil {
		return "", utils.WrapError(utils.KindValidation, op, err, "build upload")
	}

	var rec models.ProfileRecord
	if err := c.do(ctx, op, http.MethodPatch, "/users/profile", nil, &buf, w.FormDataContentType(), &rec); err != nil {
		return "", err
	}
	if rec.User.ProfilePicture == "" {
		return filename, nil
	}
	return rec.User.ProfilePicture, nil
}
