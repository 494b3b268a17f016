package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"homewatt/internal/domain"
	"homewatt/internal/ratelimit"
	"homewatt/internal/service"
)

type fakeAuth struct{ registered []string }

func (f *fakeAuth) Register(_ context.Context, _, email, _ string) error {
	for _, e := range f.registered {
		if e == email {
			return service.ErrEmailTaken
		}
	}
	f.registered = append(f.registered, email)
	return nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (domain.User, string, error) {
	if password != "secret123" {
		return domain.User{}, "", service.ErrInvalidCredentials
	}
	return domain.User{ID: 7, Email: email}, "good-token", nil
}

func (f *fakeAuth) ResetPassword(context.Context, string, string, string) error { return nil }
func (f *fakeAuth) DeleteAccount(context.Context, string, string) error         { return nil }

func (f *fakeAuth) ParseToken(token string) (int64, error) {
	if token != "good-token" {
		return 0, service.ErrInvalidCredentials
	}
	return 7, nil
}

type fakeBreakers struct {
	items      []domain.BreakerWithLimit
	lastUpdate service.BreakerUpdate
	lastID     int64
}

func (f *fakeBreakers) List(context.Context, int64) ([]domain.BreakerWithLimit, error) {
	return f.items, nil
}

func (f *fakeBreakers) Create(context.Context, int64, string, string, float64) (int64, error) {
	return 42, nil
}

func (f *fakeBreakers) Update(_ context.Context, _, id int64, upd service.BreakerUpdate) error {
	f.lastID = id
	f.lastUpdate = upd
	return nil
}

func (f *fakeBreakers) Delete(context.Context, int64, int64) error { return nil }

type fakePower struct{}

func (fakePower) StoreSample(context.Context, domain.PowerSample) error { return nil }
func (fakePower) GetPowerData(context.Context, int64, *int64, string, string) (domain.PowerDataResponse, error) {
	return domain.PowerDataResponse{Data: []domain.DailyUsage{}, DailyAverages: map[string]domain.DailyAverage{}}, nil
}
func (fakePower) GetProjections(context.Context, int64) (domain.Projections, error) {
	return domain.Projections{}, nil
}

type fakeSettings struct{ saved domain.UserSettings }

func (f *fakeSettings) Get(context.Context, int64) (domain.UserSettings, error) {
	return f.saved, nil
}

func (f *fakeSettings) Save(_ context.Context, s domain.UserSettings) error {
	f.saved = s
	return nil
}

type fakeLimiter struct{ tripped bool }

func (f *fakeLimiter) Check(context.Context, string) error {
	if f.tripped {
		return ratelimit.ErrRateLimited
	}
	return nil
}

func testApp(t *testing.T) (*fiber.App, *fakeBreakers, *fakeLimiter, *fakeAuth) {
	t.Helper()
	app := fiber.New()
	breakers := &fakeBreakers{}
	limiter := &fakeLimiter{}
	auth := &fakeAuth{}
	Register(app, &Deps{
		Auth:     auth,
		Breakers: breakers,
		Power:    fakePower{},
		Alerts:   &service.AlertService{},
		Settings: &fakeSettings{},
		Limiter:  limiter,
	})
	return app, breakers, limiter, auth
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestBreakers_RequireAuth(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "GET", "/circuit_breakers", "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("body = %v", body)
	}
}

func TestBreakers_RateLimitBeforeAuth(t *testing.T) {
	app, _, limiter, _ := testApp(t)
	limiter.tripped = true

	// No token at all: the limiter must answer first.
	status, body := doJSON(t, app, "GET", "/circuit_breakers", "", "")
	if status != fiber.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", status)
	}
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("body = %v", body)
	}
}

func TestBreakers_CreateValidation(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/circuit_breakers", "good-token",
		`{"name":"K","power_limit":"lots"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	errs, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected field error map, got %v", body)
	}
	if errs["name"] != "Minimum length is 2 characters" {
		t.Errorf("name error = %v", errs["name"])
	}
	if errs["location"] != "Field is required" {
		t.Errorf("location error = %v", errs["location"])
	}
	if errs["power_limit"] != "Must be a number" {
		t.Errorf("power_limit error = %v", errs["power_limit"])
	}
}

func TestBreakers_CreateOK(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/circuit_breakers", "good-token",
		`{"name":"Kitchen","location":"First floor","power_limit":1500}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["success"] != true || body["breaker_id"] != float64(42) {
		t.Errorf("body = %v", body)
	}
}

func TestBreakers_UpdateRequiresID(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "PUT", "/circuit_breakers", "good-token",
		`{"status":"On"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "Breaker ID is required" {
		t.Errorf("body = %v", body)
	}
}

func TestBreakers_PartialUpdateOnlySuppliedFields(t *testing.T) {
	app, breakers, _, _ := testApp(t)

	status, _ := doJSON(t, app, "PUT", "/circuit_breakers", "good-token",
		`{"id":9,"status":"On"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	if breakers.lastID != 9 {
		t.Errorf("updated id = %d, want 9", breakers.lastID)
	}
	upd := breakers.lastUpdate
	if upd.Status == nil || *upd.Status != "On" {
		t.Error("status must be supplied")
	}
	if upd.Name != nil || upd.Location != nil || upd.PowerLimit != nil {
		t.Errorf("only status was sent, got %+v", upd)
	}
}

func TestBreakers_UpdateRejectsUnknownStatus(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "PUT", "/circuit_breakers", "good-token",
		`{"id":9,"status":"Tripped"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if _, ok := body["errors"].(map[string]any); !ok {
		t.Errorf("expected field errors, got %v", body)
	}
}

func TestBreakers_MethodNotAllowed(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, _ := doJSON(t, app, "PATCH", "/circuit_breakers", "good-token", `{}`)
	if status != fiber.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", status)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _, _, _ := testApp(t)

	payload := `{"name":"Ana","email":"ana@example.com","password":"secret123"}`
	if status, _ := doJSON(t, app, "POST", "/register", "", payload); status != fiber.StatusCreated {
		t.Fatalf("first registration: status = %d, want 201", status)
	}

	status, body := doJSON(t, app, "POST", "/register", "", payload)
	if status != fiber.StatusBadRequest {
		t.Fatalf("duplicate registration: status = %d, want 400", status)
	}
	if body["error"] != "Email already registered" {
		t.Errorf("body = %v", body)
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	app, _, _, _ := testApp(t)

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"missing fields", `{"name":"Ana"}`, "Missing required fields"},
		{"bad email", `{"name":"Ana","email":"nope","password":"secret123"}`, "Invalid email format"},
		{"short password", `{"name":"Ana","email":"ana@example.com","password":"abc"}`, "Password must be at least 6 characters long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, "POST", "/register", "", tc.payload)
			if status != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", status)
			}
			if body["error"] != tc.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tc.wantErr)
			}
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/login", "",
		`{"email":"ana@example.com","password":"wrong"}`)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("body = %v", body)
	}
}

func TestLogin_StripsPassword(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/login", "",
		`{"email":"ana@example.com","password":"secret123"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user in %v", body)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password must never be serialized")
	}
	if body["token"] == "" {
		t.Error("expected a session token")
	}
}

func TestPowerData_RequiresUserID(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "GET", "/get_power_data", "", "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "User ID is required" {
		t.Errorf("body = %v", body)
	}
}

func TestStorePowerData_MissingFields(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/store_power_data", "",
		`{"user_id":1,"breaker_id":2,"voltage":230.1}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "Missing required fields" {
		t.Errorf("body = %v", body)
	}
}

func TestSettings_SaveValidation(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/user_settings", "good-token",
		`{"kwh_rate":"cheap","refresh_rate":5,"theme":"solarized"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	errs, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected field error map, got %v", body)
	}
	if errs["kwh_rate"] != "Must be a number" {
		t.Errorf("kwh_rate error = %v", errs["kwh_rate"])
	}
	if errs["theme"] != "Must be one of: light, dark" {
		t.Errorf("theme error = %v", errs["theme"])
	}
}

func TestSettings_SaveAndGet(t *testing.T) {
	app, _, _, _ := testApp(t)

	status, body := doJSON(t, app, "POST", "/user_settings", "good-token",
		`{"kwh_rate":0.15,"refresh_rate":10,"theme":"dark"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}

	status, body = doJSON(t, app, "GET", "/user_settings", "good-token", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["kwh_rate"] != 0.15 || body["theme"] != "dark" {
		t.Errorf("settings = %v", body)
	}
	if body["user_id"] != float64(7) {
		t.Errorf("settings must be scoped to the session user, got %v", body["user_id"])
	}
}

func TestAlerts_SimulatedFeed(t *testing.T) {
	app, _, _, _ := testApp(t)

	req := httptest.NewRequest("GET", "/alerts", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var alerts []domain.Alert
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 simulated alerts, got %d", len(alerts))
	}
	if alerts[0].UserID != 7 {
		t.Errorf("alerts must belong to the session user, got %d", alerts[0].UserID)
	}
}
