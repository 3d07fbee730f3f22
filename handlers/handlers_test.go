package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"levi/database/repository"
	"levi/handlers"
	"levi/middleware"
	"levi/models"
	"levi/routes"
	"levi/services/gateway"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

// Seeded ids: providers john=1, jane=2, mike=3, sarah=4; demo user=5; admin=6.
const (
	janeID  = "2"
	mikeID  = "3"
	demoID  = "5"
	adminID = "6"
)

func newTestRouter(t *testing.T) (*gin.Engine, repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	if err := repository.Seed(context.Background(), store, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	hb := handlers.NewHandlerBundle(store, testSecret, time.Hour, t.TempDir())

	r := gin.New()
	r.Use(utils.ErrorHandler(), middleware.RequestLogger(zap.NewNop()))
	routes.RegisterRoutes(r, hb)
	return r, store
}

func tokenFor(t *testing.T, id string, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(testSecret, id, string(role), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(t, r, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "demo@example.com", Password: repository.SeedPassword})
	wantStatus(t, w, http.StatusOK)
	resp := decode[models.AuthResponse](t, w)
	if resp.User.ID != demoID || resp.Token == "" {
		t.Fatalf("unexpected login response %+v", resp)
	}
	claims, err := utils.ValidateToken(testSecret, resp.Token)
	if err != nil || claims.Role != string(models.RoleUser) || claims.Subject != demoID {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}

	w = call(t, r, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "demo@example.com", Password: "wrong"})
	wantStatus(t, w, http.StatusUnauthorized)
	w = call(t, r, http.MethodPost, "/api/auth/login", "", models.Credentials{Email: "nobody@example.com", Password: "x"})
	wantStatus(t, w, http.StatusUnauthorized)
}

func TestRegister(t *testing.T) {
	r, _ := newTestRouter(t)

	reg := models.Registration{
		Username:        "new_provider",
		Email:           "New@Example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		IsProvider:      true,
	}
	w := call(t, r, http.MethodPost, "/api/auth/register", "", reg)
	wantStatus(t, w, http.StatusCreated)
	resp := decode[models.AuthResponse](t, w)
	if resp.User.Email != "new@example.com" || !resp.User.IsProvider {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	claims, err := utils.ValidateToken(testSecret, resp.Token)
	if err != nil || claims.Role != string(models.RoleProvider) {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}

	wantStatus(t, call(t, r, http.MethodPost, "/api/auth/register", "", reg), http.StatusBadRequest)

	mismatch := reg
	mismatch.Username, mismatch.Email, mismatch.ConfirmPassword = "other", "other@example.com", "different"
	wantStatus(t, call(t, r, http.MethodPost, "/api/auth/register", "", mismatch), http.StatusBadRequest)

	short := reg
	short.Username, short.Email, short.Password, short.ConfirmPassword = "other", "other@example.com", "short", "short"
	wantStatus(t, call(t, r, http.MethodPost, "/api/auth/register", "", short), http.StatusBadRequest)
}

func TestCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/api/services?search=PLUMB", "", nil)
	wantStatus(t, w, http.StatusOK)
	found := decode[[]models.ServiceRecord](t, w)
	if len(found) != 1 || found[0].Title != "Expert Plumbing Services" || found[0].ProviderName != "John Doe" {
		t.Fatalf("search result = %+v", found)
	}

	w = call(t, r, http.MethodGet, "/api/services?search=jane", "", nil)
	found = decode[[]models.ServiceRecord](t, w)
	if len(found) != 1 || found[0].CategoryName != "Electrical" {
		t.Fatalf("provider name search = %+v", found)
	}

	w = call(t, r, http.MethodGet, "/api/services?ordering=price", "", nil)
	all := decode[[]models.ServiceRecord](t, w)
	if len(all) != 4 || all[0].Provider != "4" || all[3].Provider != janeID {
		t.Fatalf("price ordering = %+v", all)
	}

	wantStatus(t, call(t, r, http.MethodGet, "/api/services/2", "", nil), http.StatusOK)
	wantStatus(t, call(t, r, http.MethodGet, "/api/services/99", "", nil), http.StatusNotFound)

	w = call(t, r, http.MethodGet, "/api/categories", "", nil)
	if cats := decode[[]models.CategoryRecord](t, w); len(cats) != 8 {
		t.Fatalf("got %d categories, want 8", len(cats))
	}
}

func createBooking(t *testing.T, r http.Handler, clientToken, provider string) models.BookingRecord {
	t.Helper()
	w := call(t, r, http.MethodPost, "/api/bookings", clientToken, models.NewBookingRecord{
		Provider:     provider,
		StartTime:    time.Date(2025, 12, 20, 14, 0, 0, 0, time.UTC),
		LocationType: "client_location",
		Address:      "1 Main St",
	})
	wantStatus(t, w, http.StatusCreated)
	return decode[models.BookingRecord](t, w)
}

func TestBookingLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	client := tokenFor(t, demoID, models.RoleUser)
	provider := tokenFor(t, janeID, models.RoleProvider)

	b := createBooking(t, r, client, janeID)
	if b.Status != string(models.StatusPending) || b.Service != "2" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if b.Price.Decimal.IntPart() != 95 || b.ProviderName != "Jane Smith" || b.ClientName != "Demo User" {
		t.Fatalf("booking joins = %+v", b)
	}
	if !b.EndTime.Equal(b.StartTime.Add(time.Hour)) {
		t.Fatalf("end time = %v, want one hour after %v", b.EndTime, b.StartTime)
	}
	path := "/api/bookings/" + string(b.ID)

	// The client may not confirm its own booking.
	wantStatus(t, call(t, r, http.MethodPatch, path, client, models.BookingPatch{Status: "confirmed"}), http.StatusForbidden)

	w := call(t, r, http.MethodPatch, path, provider, models.BookingPatch{Status: "confirmed"})
	wantStatus(t, w, http.StatusOK)
	if got := decode[models.BookingRecord](t, w).Status; got != "confirmed" {
		t.Fatalf("status = %s, want confirmed", got)
	}

	wantStatus(t, call(t, r, http.MethodPatch, path, provider, models.BookingPatch{Status: "completed"}), http.StatusOK)

	w = call(t, r, http.MethodPatch, path, client, models.BookingPatch{Status: "cancelled"})
	wantStatus(t, w, http.StatusBadRequest)
	if e := decode[utils.ErrorResponse](t, w); e.Details != string(utils.KindInvalidTransition) {
		t.Fatalf("error = %+v", e)
	}

	w = call(t, r, http.MethodGet, path+"/changes", client, nil)
	wantStatus(t, w, http.StatusOK)
	changes := decode[[]models.StatusChange](t, w)
	if len(changes) != 2 || changes[0].To != models.StatusConfirmed || changes[1].To != models.StatusCompleted {
		t.Fatalf("changes = %+v", changes)
	}
	if changes[0].Role != models.RoleProvider || changes[0].ActorID != janeID {
		t.Fatalf("change actor = %+v", changes[0])
	}
}

func TestBookingOutsiderSeesNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	b := createBooking(t, r, tokenFor(t, demoID, models.RoleUser), janeID)
	outsider := tokenFor(t, mikeID, models.RoleProvider)

	path := "/api/bookings/" + string(b.ID)
	wantStatus(t, call(t, r, http.MethodPatch, path, outsider, models.BookingPatch{Status: "confirmed"}), http.StatusNotFound)
	wantStatus(t, call(t, r, http.MethodGet, path+"/changes", outsider, nil), http.StatusNotFound)

	w := call(t, r, http.MethodGet, "/api/bookings", outsider, nil)
	wantStatus(t, w, http.StatusOK)
	if got := decode[[]models.BookingRecord](t, w); len(got) != 0 {
		t.Fatalf("outsider sees %d bookings", len(got))
	}
}

func TestAdminOverride(t *testing.T) {
	r, store := newTestRouter(t)
	b := createBooking(t, r, tokenFor(t, demoID, models.RoleUser), janeID)
	admin := tokenFor(t, adminID, models.RoleAdmin)
	path := "/api/bookings/" + string(b.ID)

	wantStatus(t, call(t, r, http.MethodPatch, path, admin, models.BookingPatch{Status: "completed"}), http.StatusBadRequest)
	if doc, _ := store.GetBooking(context.Background(), string(b.ID)); doc.Status != models.StatusPending {
		t.Fatalf("status changed to %s without a reason", doc.Status)
	}

	w := call(t, r, http.MethodPatch, path, admin, models.BookingPatch{Status: "completed", Reason: "Work verified offline"})
	wantStatus(t, w, http.StatusOK)

	changes, err := store.StatusChanges(context.Background(), string(b.ID))
	if err != nil || len(changes) != 1 {
		t.Fatalf("changes = %+v, err = %v", changes, err)
	}
	if !changes[0].Override || changes[0].Reason != "Work verified offline" || changes[0].Role != models.RoleAdmin {
		t.Fatalf("override entry = %+v", changes[0])
	}

	w = call(t, r, http.MethodGet, "/api/admin/bookings", admin, nil)
	wantStatus(t, w, http.StatusOK)
	if got := decode[[]models.BookingRecord](t, w); len(got) != 1 {
		t.Fatalf("admin sees %d bookings, want 1", len(got))
	}
	wantStatus(t, call(t, r, http.MethodGet, "/api/admin/bookings", tokenFor(t, demoID, models.RoleUser), nil), http.StatusForbidden)
}

func TestReschedule(t *testing.T) {
	r, _ := newTestRouter(t)
	client := tokenFor(t, demoID, models.RoleUser)
	b := createBooking(t, r, client, janeID)
	path := "/api/bookings/" + string(b.ID)
	start := time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)

	w := call(t, r, http.MethodPatch, path, client, models.BookingPatch{StartTime: &start})
	wantStatus(t, w, http.StatusBadRequest)
	if e := decode[utils.ErrorResponse](t, w); e.Details != string(utils.KindInvalidState) {
		t.Fatalf("error = %+v", e)
	}

	// Confirming and moving in one request still sees the pending booking.
	provider := tokenFor(t, janeID, models.RoleProvider)
	w = call(t, r, http.MethodPatch, path, provider, models.BookingPatch{Status: "confirmed", StartTime: &start})
	wantStatus(t, w, http.StatusBadRequest)
	if e := decode[utils.ErrorResponse](t, w); e.Details != string(utils.KindInvalidState) {
		t.Fatalf("combined patch error = %+v", e)
	}
	w = call(t, r, http.MethodGet, "/api/bookings", client, nil)
	wantStatus(t, w, http.StatusOK)
	if list := decode[[]models.BookingRecord](t, w); len(list) != 1 || list[0].Status != "pending" || list[0].StartTime.Equal(start) {
		t.Fatalf("combined patch changed the booking: %+v", list)
	}

	wantStatus(t, call(t, r, http.MethodPatch, path, provider, models.BookingPatch{Status: "confirmed"}), http.StatusOK)

	w = call(t, r, http.MethodPatch, path, client, models.BookingPatch{StartTime: &start})
	wantStatus(t, w, http.StatusOK)
	got := decode[models.BookingRecord](t, w)
	if !got.StartTime.Equal(start) || !got.EndTime.Equal(start.Add(time.Hour)) || got.Status != "confirmed" {
		t.Fatalf("rescheduled booking = %+v", got)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	provider := tokenFor(t, janeID, models.RoleProvider)

	w := call(t, r, http.MethodPost, "/api/bookings", provider, models.NewBookingRecord{Provider: janeID, StartTime: time.Now()})
	wantStatus(t, w, http.StatusBadRequest)

	w = call(t, r, http.MethodPost, "/api/bookings", provider, models.NewBookingRecord{Provider: "404", StartTime: time.Now()})
	wantStatus(t, w, http.StatusBadRequest)

	w = call(t, r, http.MethodPost, "/api/bookings", provider, models.NewBookingRecord{Provider: mikeID})
	wantStatus(t, w, http.StatusBadRequest)

	wantStatus(t, call(t, r, http.MethodGet, "/api/bookings?status=bogus", provider, nil), http.StatusBadRequest)
	wantStatus(t, call(t, r, http.MethodGet, "/api/bookings", "", nil), http.StatusUnauthorized)
	wantStatus(t, call(t, r, http.MethodGet, "/api/bookings", "not-a-token", nil), http.StatusUnauthorized)
}

func TestProfile(t *testing.T) {
	r, _ := newTestRouter(t)
	client := tokenFor(t, demoID, models.RoleUser)
	provider := tokenFor(t, janeID, models.RoleProvider)

	w := call(t, r, http.MethodGet, "/api/users/profile", provider, nil)
	wantStatus(t, w, http.StatusOK)
	prof := decode[models.ProfileRecord](t, w)
	if prof.ProviderProfile == nil || prof.ProviderProfile.Service != "Electrical" {
		t.Fatalf("provider profile = %+v", prof)
	}

	w = call(t, r, http.MethodGet, "/api/users/profile", client, nil)
	if prof := decode[models.ProfileRecord](t, w); prof.ProviderProfile != nil {
		t.Fatalf("consumer profile carries provider record: %+v", prof.ProviderProfile)
	}

	rate := json.RawMessage(`{"hourly_rate": 50}`)
	wantStatus(t, call(t, r, http.MethodPatch, "/api/users/profile", client, rate), http.StatusForbidden)

	w = call(t, r, http.MethodPatch, "/api/users/profile", provider, rate)
	wantStatus(t, w, http.StatusOK)
	if got := decode[models.ProfileRecord](t, w).ProviderProfile.HourlyRate.Decimal.IntPart(); got != 50 {
		t.Fatalf("hourly rate = %d, want 50", got)
	}

	w = call(t, r, http.MethodPatch, "/api/users/profile", client, json.RawMessage(`{"first_name": "Alex"}`))
	wantStatus(t, w, http.StatusOK)
	if got := decode[models.ProfileRecord](t, w).User.FirstName; got != "Alex" {
		t.Fatalf("first name = %q", got)
	}
}

func TestProfilePictureUpload(t *testing.T) {
	r, _ := newTestRouter(t)
	token := tokenFor(t, demoID, models.RoleUser)

	upload := func(contentType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="profile_picture"; filename="me.png"`)
		h.Set("Content-Type", contentType)
		part, _ := mw.CreatePart(h)
		part.Write([]byte("\x89PNG"))
		mw.Close()

		req := httptest.NewRequest(http.MethodPatch, "/api/users/profile", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := upload("image/png")
	wantStatus(t, w, http.StatusOK)
	pic := decode[models.ProfileRecord](t, w).User.ProfilePicture
	if !strings.Contains(pic, "/media/") || !strings.HasSuffix(pic, ".png") {
		t.Fatalf("profile picture = %q", pic)
	}

	wantStatus(t, upload("text/plain"), http.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	wantStatus(t, call(t, r, http.MethodGet, "/health", "", nil), http.StatusOK)
}

// The gateway client and the dev backend agree on the wire contract.
func TestGatewayAgainstBackend(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	ctx := context.Background()

	consumer := gateway.NewClient(gateway.Options{BaseURL: srv.URL + "/api", Logger: zap.NewNop(), Location: time.UTC})
	if _, err := consumer.Login(ctx, "demo@example.com", repository.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	providers, err := consumer.GetProviders(ctx, "", "rating")
	if err != nil || len(providers) != 4 {
		t.Fatalf("GetProviders = %d providers, err %v", len(providers), err)
	}

	created, err := consumer.CreateBooking(ctx, models.BookingRequest{
		ProviderID: janeID,
		Date:       "12/20/2025",
		Time:       "15:30",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if created.Status != models.StatusPending || created.Time != "3:30 PM" || created.ServiceProviderName != "Jane Smith" {
		t.Fatalf("created = %+v", created)
	}

	provider := gateway.NewClient(gateway.Options{BaseURL: srv.URL + "/api", Logger: zap.NewNop(), Location: time.UTC})
	if _, err := provider.Login(ctx, "jane@example.com", repository.SeedPassword); err != nil {
		t.Fatalf("provider Login: %v", err)
	}
	confirmed, err := provider.UpdateBookingStatus(ctx, created.ID, models.StatusConfirmed, "")
	if err != nil || confirmed.Status != models.StatusConfirmed {
		t.Fatalf("confirm = %+v, err %v", confirmed, err)
	}

	// The consumer still holds the pending copy until it refreshes.
	if _, err := consumer.RescheduleBooking(ctx, created.ID, "12/25/2025", "10:00"); !errors.Is(err, utils.ErrInvalidState) {
		t.Fatalf("reschedule of stale pending copy: err = %v, want InvalidState", err)
	}
	if _, err := consumer.GetUserBookings(ctx, models.FilterAll); err != nil {
		t.Fatalf("GetUserBookings: %v", err)
	}
	moved, err := consumer.RescheduleBooking(ctx, created.ID, "12/25/2025", "10:00")
	if err != nil {
		t.Fatalf("RescheduleBooking: %v", err)
	}
	if moved.Date != "12/25/2025" || moved.Time != "10:00 AM" || moved.Status != models.StatusConfirmed {
		t.Fatalf("moved = %+v", moved)
	}

	url, err := consumer.UploadProfilePicture(ctx, "me.jpg", strings.NewReader("jpeg"))
	if err != nil || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("upload = %q, err %v", url, err)
	}
}

func TestGatewayKeepsBackendErrorKind(t *testing.T) {
	r, _ := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	ctx := context.Background()

	consumer := gateway.NewClient(gateway.Options{BaseURL: srv.URL + "/api", Logger: zap.NewNop(), Location: time.UTC})
	if _, err := consumer.Login(ctx, "demo@example.com", repository.SeedPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	created, err := consumer.CreateBooking(ctx, models.BookingRequest{ProviderID: janeID, Date: "12/20/2025", Time: "9:00 AM"})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	provider := gateway.NewClient(gateway.Options{BaseURL: srv.URL + "/api", Logger: zap.NewNop(), Location: time.UTC})
	if _, err := provider.Login(ctx, "jane@example.com", repository.SeedPassword); err != nil {
		t.Fatalf("provider Login: %v", err)
	}
	if _, err := provider.UpdateBookingStatus(ctx, created.ID, models.StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// The consumer's copy still says pending, so the backend is the one refusing.
	err = consumer.CancelBooking(ctx, created.ID)
	if !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatalf("cancel of rejected booking: kind=%q err=%v", utils.KindOf(err), err)
	}

	// The stale copy is dropped, so the next attempt refreshes and fails locally.
	err = consumer.CancelBooking(ctx, created.ID)
	if !errors.Is(err, utils.ErrInvalidTransition) {
		t.Fatalf("second cancel: kind=%q err=%v", utils.KindOf(err), err)
	}
	list, err := consumer.GetUserBookings(ctx, models.FilterAll)
	if err != nil || len(list) != 1 || list[0].Status != models.StatusRejected {
		t.Fatalf("bookings after rejection = %+v, err %v", list, err)
	}
}
