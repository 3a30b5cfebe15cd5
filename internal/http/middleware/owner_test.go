package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func ownerEcho(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestOwnerIssuesCookieWhenMissing(t *testing.T) {
	var owner string
	req := httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	rec := httptest.NewRecorder()

	Owner("")(ownerEcho(&owner)).ServeHTTP(rec, req)

	if _, err := uuid.Parse(owner); err != nil {
		t.Fatalf("expected uuid owner, got %q", owner)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Name != DefaultOwnerCookie || cookies[0].Value != owner {
		t.Fatalf("unexpected cookie %s=%s", cookies[0].Name, cookies[0].Value)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected http-only cookie")
	}
}

func TestOwnerReusesValidCookie(t *testing.T) {
	var owner string
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: existing})
	rec := httptest.NewRecorder()

	Owner("sid")(ownerEcho(&owner)).ServeHTTP(rec, req)

	if owner != existing {
		t.Fatalf("expected owner %s, got %s", existing, owner)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie")
	}
}

func TestOwnerReplacesMalformedCookie(t *testing.T) {
	var owner string
	req := httptest.NewRequest(http.MethodGet, "/get_reservations", nil)
	req.AddCookie(&http.Cookie{Name: DefaultOwnerCookie, Value: "../../etc"})
	rec := httptest.NewRecorder()

	Owner(DefaultOwnerCookie)(ownerEcho(&owner)).ServeHTTP(rec, req)

	if owner == "../../etc" || owner == "" {
		t.Fatalf("expected a fresh owner, got %q", owner)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected replacement cookie")
	}
}

func TestOwnerFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := OwnerFromContext(req.Context()); got != "" {
		t.Fatalf("expected empty owner, got %q", got)
	}
}
