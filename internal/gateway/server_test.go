package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myslide/leavebot/internal/store"
)

func testHandler(t *testing.T, token string) http.Handler {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "gateway.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	fd := store.FullDayLeave{
		ID: uuid.NewString(), EmployeeName: "Dana", EmployeeID: "1001",
		Reason: "family visit", DateDescriptor: "10/03/2025",
		StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    store.StatusPending, CreatedAt: time.Now(),
	}
	if err := s.CreateFullDay(ctx, &fd); err != nil {
		t.Fatalf("seed full-day: %v", err)
	}
	hl := store.HourlyLeave{
		ID: uuid.NewString(), EmployeeName: "Omar", EmployeeID: "1002",
		Reason: "clinic", Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		TimeDescriptor: "10:30 AM", Subtype: store.SubtypeLate,
		Status: store.StatusPending, CreatedAt: time.Now(),
	}
	if err := s.CreateHourly(ctx, &hl); err != nil {
		t.Fatalf("seed hourly: %v", err)
	}
	return NewHandler(token, s)
}

func get(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndVersion_Open(t *testing.T) {
	h := testHandler(t, "sekrit")
	for _, path := range []string{"/health", "/version"} {
		if rec := get(t, h, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s = %d, want 200", path, rec.Code)
		}
	}
}

func TestAPI_RequiresBearerToken(t *testing.T) {
	h := testHandler(t, "sekrit")

	if rec := get(t, h, "/api/requests", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated = %d, want 401", rec.Code)
	}
	if rec := get(t, h, "/api/requests", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token = %d, want 401", rec.Code)
	}
	if rec := get(t, h, "/api/requests", "sekrit"); rec.Code != http.StatusOK {
		t.Fatalf("authenticated = %d, want 200", rec.Code)
	}
}

func TestListRequests_KindAndStatusFilters(t *testing.T) {
	h := testHandler(t, "")

	var body struct {
		Requests []struct {
			Kind   string `json:"kind"`
			Status string `json:"status"`
			Dates  string `json:"dates"`
		} `json:"requests"`
	}

	rec := get(t, h, "/api/requests", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(body.Requests))
	}

	rec = get(t, h, "/api/requests?kind=hourly", "")
	body.Requests = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Requests) != 1 || body.Requests[0].Kind != "hourly" {
		t.Fatalf("kind filter wrong: %+v", body.Requests)
	}

	rec = get(t, h, "/api/requests?status=approved", "")
	body.Requests = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Requests) != 0 {
		t.Fatalf("status filter wrong: %+v", body.Requests)
	}

	if rec := get(t, h, "/api/requests?kind=weekend", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind = %d, want 400", rec.Code)
	}
	if rec := get(t, h, "/api/requests?status=maybe", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status = %d, want 400", rec.Code)
	}
}

func TestListUsers_RoleFilter(t *testing.T) {
	h := testHandler(t, "")
	rec := get(t, h, "/api/users?role=hr", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("users = %d, want 200", rec.Code)
	}
	var body struct {
		Users []struct {
			Role string `json:"role"`
		} `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Users) != 0 {
		t.Fatalf("expected no hr users in empty directory, got %+v", body.Users)
	}
}
