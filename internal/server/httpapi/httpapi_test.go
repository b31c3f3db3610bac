package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Kyrilous/AutoLogg/internal/server/identity"
	"github.com/Kyrilous/AutoLogg/internal/server/repository/sqlite"
	"github.com/Kyrilous/AutoLogg/internal/server/service"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, dsn string) http.Handler {
	t.Helper()
	repo, err := sqlite.New(dsn)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	records := service.NewRecords(repo)
	verifier := identity.NewTokenVerifier(testSecret, "", "")
	return NewRouter(records, verifier, nil, []string{"*"})
}

func bearerFor(t *testing.T, uid string) string {
	t.Helper()
	tok, err := identity.Issue(testSecret, "", "", uid, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(t *testing.T, ts http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "file:api_health?mode=memory&cache=shared")
	rr := doJSON(t, ts, "GET", "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health status: %d", rr.Code)
	}
}

func TestGateMissingHeader(t *testing.T) {
	ts := newTestServer(t, "file:api_noheader?mode=memory&cache=shared")
	rr := doJSON(t, ts, "GET", "/records", nil, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["error"] != "Unauthorized" {
		t.Fatalf("body = %v", body)
	}
}

func TestGateInvalidToken(t *testing.T) {
	ts := newTestServer(t, "file:api_badtoken?mode=memory&cache=shared")
	for _, authz := range []string{"Bearer", "Bearer garbage", "Bearer a b"} {
		rr := doJSON(t, ts, "GET", "/records", nil, map[string]string{"Authorization": authz})
		if rr.Code != http.StatusForbidden {
			t.Fatalf("header %q: status = %d, want 403", authz, rr.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(rr.Body.Bytes(), &body)
		if body["error"] != "Invalid token" {
			t.Fatalf("header %q: body = %v", authz, body)
		}
	}
}

func TestGateExpiredToken(t *testing.T) {
	ts := newTestServer(t, "file:api_expired?mode=memory&cache=shared")
	claims := jwt.RegisteredClaims{
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	rr := doJSON(t, ts, "GET", "/records", nil, map[string]string{"Authorization": "Bearer " + tok})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expired token accepted: %d", rr.Code)
	}
}

func TestAddRecord(t *testing.T) {
	ts := newTestServer(t, "file:api_add?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}

	rr := doJSON(t, ts, "POST", "/add_record", map[string]any{"serviceType": "Oil Change", "mileage": 32000, "date": "2024-05-01"}, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rr.Code, rr.Body.String())
	}
	var rec struct {
		ID          int64  `json:"id"`
		UserID      string `json:"user_id"`
		ServiceType string `json:"serviceType"`
		Mileage     int64  `json:"mileage"`
		Date        string `json:"date"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &rec)
	if rec.ID == 0 {
		t.Fatal("no id assigned")
	}
	if rec.UserID != "uid-1" {
		t.Fatalf("user_id = %q, want uid-1", rec.UserID)
	}
	if rec.ServiceType != "Oil Change" || rec.Mileage != 32000 || rec.Date != "2024-05-01" {
		t.Fatalf("fields not echoed: %+v", rec)
	}
}

func TestAddRecordIgnoresPayloadOwner(t *testing.T) {
	ts := newTestServer(t, "file:api_owner?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	body := map[string]any{"serviceType": "Oil Change", "mileage": 32000, "date": "2024-05-01", "user_id": "uid-evil"}
	rr := doJSON(t, ts, "POST", "/add_record", body, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rr.Code, rr.Body.String())
	}
	var rec struct {
		UserID string `json:"user_id"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &rec)
	if rec.UserID != "uid-1" {
		t.Fatalf("payload user_id honored: %q", rec.UserID)
	}
}

func TestAddRecordMissingFields(t *testing.T) {
	ts := newTestServer(t, "file:api_missingfields?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	bodies := []map[string]any{
		{"mileage": 32000, "date": "2024-05-01"},
		{"serviceType": "Oil Change", "date": "2024-05-01"},
		{"serviceType": "Oil Change", "mileage": 0, "date": "2024-05-01"},
		{"serviceType": "Oil Change", "mileage": 32000},
	}
	for _, body := range bodies {
		rr := doJSON(t, ts, "POST", "/add_record", body, authz)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %v: status = %d, want 400", body, rr.Code)
		}
		var resp map[string]string
		_ = json.Unmarshal(rr.Body.Bytes(), &resp)
		if resp["error"] != "Missing required fields." {
			t.Fatalf("body %v: resp = %v", body, resp)
		}
	}
	rr := doJSON(t, ts, "GET", "/records", nil, authz)
	if rr.Body.String() == "" || rr.Code != http.StatusOK {
		t.Fatalf("list after failures: %d", rr.Code)
	}
	var items []json.RawMessage
	_ = json.Unmarshal(rr.Body.Bytes(), &items)
	if len(items) != 0 {
		t.Fatalf("validation failures persisted %d records", len(items))
	}
}

func TestListEmptyIsArray(t *testing.T) {
	ts := newTestServer(t, "file:api_emptylist?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-lonely")}
	rr := doJSON(t, ts, "GET", "/records", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: %d", rr.Code)
	}
	if got := bytes.TrimSpace(rr.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("empty list body = %s, want []", got)
	}
}

func TestListWireShape(t *testing.T) {
	ts := newTestServer(t, "file:api_listshape?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	doJSON(t, ts, "POST", "/add_record", map[string]any{"serviceType": "Tire Rotation", "mileage": 41000, "date": "2024-07-15"}, authz)

	rr := doJSON(t, ts, "GET", "/records", nil, authz)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: %d", rr.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item["service_type"] != "Tire Rotation" {
		t.Fatalf("service_type key missing or wrong: %v", item)
	}
	if _, present := item["user_id"]; present {
		t.Fatalf("owner leaked into list item: %v", item)
	}
}

func TestOwnershipEndToEnd(t *testing.T) {
	ts := newTestServer(t, "file:api_scenario?mode=memory&cache=shared")
	alice := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	bob := map[string]string{"Authorization": bearerFor(t, "uid-2")}

	rr := doJSON(t, ts, "POST", "/add_record", map[string]any{"serviceType": "Oil Change", "mileage": 32000, "date": "2024-05-01"}, alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("add: %d %s", rr.Code, rr.Body.String())
	}
	var rec struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &rec)

	// uid-2 sees nothing
	rr = doJSON(t, ts, "GET", "/records", nil, bob)
	var bobItems []json.RawMessage
	_ = json.Unmarshal(rr.Body.Bytes(), &bobItems)
	if len(bobItems) != 0 {
		t.Fatalf("uid-2 sees uid-1's records: %d", len(bobItems))
	}

	// uid-2 cannot delete uid-1's record
	path := "/records/" + strconv.FormatInt(rec.ID, 10)
	rr = doJSON(t, ts, "DELETE", path, nil, bob)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: %d, want 403", rr.Code)
	}
	var msg map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &msg)
	if msg["message"] != "Unauthorized: You cannot delete this record" {
		t.Fatalf("foreign delete body = %v", msg)
	}

	// record still present for uid-1
	rr = doJSON(t, ts, "GET", "/records", nil, alice)
	var aliceItems []json.RawMessage
	_ = json.Unmarshal(rr.Body.Bytes(), &aliceItems)
	if len(aliceItems) != 1 {
		t.Fatalf("record lost after forbidden delete: %d", len(aliceItems))
	}

	// owner deletes; second delete is 404
	rr = doJSON(t, ts, "DELETE", path, nil, alice)
	if rr.Code != http.StatusOK {
		t.Fatalf("owner delete: %d %s", rr.Code, rr.Body.String())
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &msg)
	if msg["message"] != "Record deleted successfully" {
		t.Fatalf("delete body = %v", msg)
	}
	rr = doJSON(t, ts, "DELETE", path, nil, alice)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("double delete: %d, want 404", rr.Code)
	}
}

func TestDeleteNonNumericID(t *testing.T) {
	ts := newTestServer(t, "file:api_badid?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	rr := doJSON(t, ts, "DELETE", "/records/abc", nil, authz)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: %d, want 404", rr.Code)
	}
}

func TestDeleteMissing(t *testing.T) {
	ts := newTestServer(t, "file:api_delmissing?mode=memory&cache=shared")
	authz := map[string]string{"Authorization": bearerFor(t, "uid-1")}
	rr := doJSON(t, ts, "DELETE", "/records/9999", nil, authz)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("missing id: %d, want 404", rr.Code)
	}
	var msg map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &msg)
	if msg["message"] != "Record not found" {
		t.Fatalf("body = %v", msg)
	}
}
