package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/reservation-assistant/internal/bookings"
	"github.com/wolfman30/reservation-assistant/internal/conversation"
	httpmiddleware "github.com/wolfman30/reservation-assistant/internal/http/middleware"
	"github.com/wolfman30/reservation-assistant/internal/observability/metrics"
	"github.com/wolfman30/reservation-assistant/internal/reservation"
	"github.com/wolfman30/reservation-assistant/internal/webchat"
	"github.com/wolfman30/reservation-assistant/pkg/logging"
)

const smithTomorrow = `{"message":"under Smith tomorrow at 10am","current_reservation":null}`

func newTestConfig(t *testing.T) *Config {
	t.Helper()

	logger := logging.Discard()
	reg := prometheus.NewRegistry()
	m := metrics.NewReservationMetrics(reg)
	engine := reservation.NewEngine(nil,
		reservation.WithClock(func() time.Time { return time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC) }),
		reservation.WithLocation(time.UTC),
		reservation.WithLogger(logger),
	)
	ledger := bookings.NewService(bookings.NewMemoryStore(), logger, m)
	svc := conversation.NewTurnService(engine, ledger, logger, m)

	return &Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(svc, logger),
		WebChatHandler:      webchat.NewHandler(svc, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		OwnerCookie:         "sid",
	}
}

func ownerCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatalf("expected owner cookie to be issued")
	return nil
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := New(newTestConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Errorf("health check should not issue an owner cookie")
	}
}

func TestRouterReservationFlow(t *testing.T) {
	router := New(newTestConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/process_reservation", strings.NewReader(smithTomorrow))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp conversation.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || !resp.ReservationComplete {
		t.Fatalf("expected committed reservation, got %+v", resp)
	}
	cookie := ownerCookie(t, rr)

	req = httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var list []reservation.BookedInterval
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode reservations: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Smith Appointment" {
		t.Fatalf("expected Smith's reservation, got %+v", list)
	}

	// A new visitor sees an empty calendar.
	req = httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rr.Body.String())
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := New(newTestConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/process_reservation", strings.NewReader(smithTomorrow))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "reservation_conversation_commits_total") {
		t.Fatalf("expected commit counter in metrics output")
	}
}

func TestRouterMetricsMissingWithoutHandler(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MetricsHandler = nil
	router := New(cfg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when metrics are disabled, got %d", rr.Code)
	}
}

func TestRouterRateLimitsOwner(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.RateLimiter = httpmiddleware.NewRateLimiter(0, 1)
	router := New(cfg)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/get_reservations", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}
	cookie := ownerCookie(t, rr)

	req := httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.CORSAllowedOrigins = []string{"https://chat.example"}
	router := New(cfg)

	req := httptest.NewRequest(http.MethodOptions, "/process_reservation", nil)
	req.Header.Set("Origin", "https://chat.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://chat.example" {
		t.Fatalf("expected allow origin header, got %q", got)
	}
}
