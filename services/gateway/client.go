// Package gateway is the typed request surface the app's screens use to talk to the
// marketplace backend. Reads fall back to a fixed mock dataset when the backend cannot be
// reached; writes never do.
package gateway

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"levi/models"
	"levi/services/session"
	"levi/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options configures a Client. Only BaseURL is required.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger

	// Session is the holder shared with the rest of the app. A fresh anonymous holder is
	// created when nil.
	Session *session.Holder
	// Store persists the session across launches. Defaults to an in-memory store.
	Store session.Store

	// Location renders booking dates and parses reschedule input. Defaults to time.Local.
	Location *time.Location
	// Origin, when set, is used to compute provider distances.
	Origin *models.GeoPoint

	Now func() time.Time
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
	session *session.Holder
	store   session.Store
	loc     *time.Location
	origin  *models.GeoPoint
	now     func() time.Time

	mu       sync.RWMutex
	bookings map[string]models.Booking

	audit *AuditTrail
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  opts.Timeout,
		http:     opts.HTTPClient,
		logger:   opts.Logger,
		session:  opts.Session,
		store:    opts.Store,
		loc:      opts.Location,
		origin:   opts.Origin,
		now:      opts.Now,
		bookings: make(map[string]models.Booking),
		audit:    NewAuditTrail(),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if c.logger == nil {
		c.logger = utils.GetLogger()
	}
	if c.session == nil {
		c.session = session.NewHolder(nil)
	}
	if c.store == nil {
		c.store = session.NewMemoryStore()
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Session returns the active session, or nil when signed out.
func (c *Client) Session() *models.Session {
	return c.session.Current()
}

// Audit returns the trail of status changes made through this client.
func (c *Client) Audit() *AuditTrail {
	return c.audit
}

// requireSession gates write operations: they need a live token before any request is sent.
func (c *Client) requireSession(op string) (*models.Session, error) {
	s := c.session.Current()
	if s.Anonymous() {
		return nil, utils.NewError(utils.KindAuth, op, "sign in required")
	}
	if exp, ok := utils.TokenExpiry(s.Token); ok && !c.now().Before(exp) {
		return nil, utils.NewError(utils.KindAuth, op, "session expired at %s", exp.Format(time.RFC3339))
	}
	return s, nil
}
