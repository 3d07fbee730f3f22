package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"levi/models"
	"levi/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// doJSON sends a JSON request and decodes the JSON response into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return utils.WrapError(utils.KindValidation, op, err, "encode request")
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, op, method, path, query, body, "application/json", out)
}

// do sends one request with the session token attached and classifies failures.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return utils.WrapError(utils.KindValidation, op, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return utils.WrapError(utils.KindTransport, op, err, "request timed out after %s", c.timeout)
		}
		return utils.WrapError(utils.KindTransport, op, err, "request failed")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return utils.WrapError(utils.KindTransport, op, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("backend answered with an error",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("requestId", req.Header.Get("X-Request-ID")),
		)
		return classifyStatus(op, resp.StatusCode, b)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return utils.NewError(utils.KindTransport, op, "empty response body (status %d)", resp.StatusCode)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return utils.WrapError(utils.KindTransport, op, err, "decode response")
	}
	return nil
}

// classifyStatus maps a non-2xx response onto an error kind. A 4xx whose envelope names a
// known kind in details keeps that kind. Otherwise the status decides, and 5xx responses
// and 4xx responses without a parseable body count as transport failures.
func classifyStatus(op string, status int, body []byte) error {
	var envelope map[string]any
	parsed := len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &envelope) == nil

	msg := http.StatusText(status)
	var eb models.ErrorBody
	if parsed {
		if json.Unmarshal(body, &eb) == nil && eb.Text() != "" {
			msg = eb.Text()
		} else {
			msg = string(bytes.TrimSpace(body))
		}
	}

	if kind, ok := utils.ParseErrorKind(eb.Details); ok && status < 500 {
		return utils.NewError(kind, op, "%s", msg)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return utils.NewError(utils.KindAuth, op, "%s", msg)
	case status == http.StatusNotFound:
		return utils.NewError(utils.KindNotFound, op, "%s", msg)
	case status >= 500:
		return utils.NewError(utils.KindTransport, op, "backend error %d: %s", status, msg)
	case parsed:
		return utils.NewError(utils.KindValidation, op, "%s", msg)
	default:
		return utils.NewError(utils.KindTransport, op, "unexpected status %d", status)
	}
}

// listBody decodes either a bare JSON array or a paginated {"results": [...]} envelope.
type listBody[T any] struct {
	Items []T
}

func (l *listBody[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &l.Items)
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(b, &page); err != nil {
		return err
	}
	l.Items = page.Results
	return nil
}
