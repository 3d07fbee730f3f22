package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"levi/models"
	"levi/services/session"
	"levi/utils"

	"go.uber.org/zap"
)

// Login exchanges credentials for a token and installs the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "gateway.Login"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, utils.NewError(utils.KindValidation, op, "email and password are required")
	}

	var resp models.AuthResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/auth/login", nil, models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return c.signIn(ctx, op, resp)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	const op = "gateway.Register"

	switch {
	case strings.TrimSpace(reg.Username) == "" || strings.TrimSpace(reg.Email) == "":
		return nil, utils.NewError(utils.KindValidation, op, "username and email are required")
	case reg.Password == "":
		return nil, utils.NewError(utils.KindValidation, op, "password is required")
	case reg.Password != reg.ConfirmPassword:
		return nil, utils.NewError(utils.KindValidation, op, "passwords do not match")
	}

	var resp models.AuthResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/auth/register", nil, reg, &resp); err != nil {
		return nil, err
	}
	return c.signIn(ctx, op, resp)
}

func (c *Client) signIn(ctx context.Context, op string, resp models.AuthResponse) (*models.Session, error) {
	if resp.Token == "" {
		return nil, utils.NewError(utils.KindTransport, op, "auth response carried no token")
	}
	s := models.Session{
		ActorID:  resp.User.ID.String(),
		Role:     models.RoleFor(resp.User),
		Token:    resp.Token,
		User:     resp.User,
		IssuedAt: c.now(),
	}
	c.forgetBookings()
	c.session.Replace(s)
	if err := c.store.Save(ctx, s); err != nil {
		c.logger.Warn("Failed to persist session", zap.String("actorId", s.ActorID), zap.Error(err))
	}
	c.logger.Info("Signed in", zap.String("actorId", s.ActorID), zap.String("role", string(s.Role)))
	return c.session.Current(), nil
}

// Logout drops the session locally and from the store.
func (c *Client) Logout(ctx context.Context) error {
	c.session.Clear()
	c.forgetBookings()
	if err := c.store.Delete(ctx); err != nil {
		return utils.WrapError(utils.KindTransport, "gateway.Logout", err, "failed to delete stored session")
	}
	return nil
}

// Restore reinstalls the stored session, if any. An expired session is discarded and nil
// is returned.
func (c *Client) Restore(ctx context.Context) (*models.Session, error) {
	const op = "gateway.Restore"

	s, err := c.store.Load(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.WrapError(utils.KindTransport, op, err, "failed to load stored session")
	}
	if exp, ok := utils.TokenExpiry(s.Token); s.Token == "" || (ok && !c.now().Before(exp)) {
		c.logger.Info("Discarding expired session", zap.String("actorId", s.ActorID))
		if err := c.store.Delete(ctx); err != nil {
			c.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		return nil, nil
	}
	c.session.Replace(*s)
	return c.session.Current(), nil
}
