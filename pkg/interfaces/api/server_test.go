package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/itam/pkg/application/services"
	"github.com/vsinha/itam/pkg/infrastructure/attachments"
	"github.com/vsinha/itam/pkg/infrastructure/config"
	"github.com/vsinha/itam/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/itam/pkg/infrastructure/testing"
)

var testUsers = config.AuthConfig{Users: []config.UserConfig{
	{Name: "alice", Token: "dc-token", Modes: []string{"dc"}},
	{Name: "bob", Token: "bo-token", Modes: []string{"back_office"}},
	{Name: "root", Token: "all-token", Modes: []string{"dc", "back_office"}},
}}

func newTestHandler(t *testing.T, auth config.AuthConfig) http.Handler {
	t.Helper()
	fixture := testhelpers.BuildRackTestData()
	store := events.NewInMemoryEventStore(nil)
	files, err := attachments.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}

	srv, err := NewServer(Services{
		Assets:   services.NewAssetService(fixture.Assets, store, files, nil),
		Racks:    services.NewRackInfoService(fixture.Racks, nil),
		Licences: services.NewLicenceService(fixture.Licences, fixture.Licences, store, nil),
		Supports: services.NewSupportService(fixture.Supports, fixture.Assets, store, nil),
	}, auth, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	srv.now = func() time.Time { return testhelpers.Date(2024, time.March, 15) }
	return srv.Handler()
}

func reqWithToken(t *testing.T, h http.Handler, method, path, token string, reqBody any) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = b
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, w.Body.String())
	}
}

func TestRackEndpoint(t *testing.T) {
	h := newTestHandler(t, config.AuthConfig{})

	w := reqWithToken(t, h, http.MethodGet, "/api/rack/1/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var info struct {
		Name       string `json:"name"`
		MaxUHeight int    `json:"max_u_height"`
		Sides      []struct {
			Type  string           `json:"type"`
			Items []map[string]any `json:"items"`
		} `json:"sides"`
	}
	decode(t, w, &info)

	if info.Name != "R-01" || info.MaxUHeight != 10 || len(info.Sides) != 2 {
		t.Fatalf("unexpected rack payload: %+v", info)
	}
	front := info.Sides[0]
	if front.Type != "front" {
		t.Errorf("expected front side first, got %s", front.Type)
	}

	counts := map[string]int{}
	for _, item := range front.Items {
		counts[item["_type"].(string)]++
	}
	if counts["asset"] != 2 || counts["accessory"] != 1 || counts["empty"] != 6 {
		t.Errorf("unexpected front item counts: %v", counts)
	}

	first := front.Items[0]
	if first["model"] != "R630" || first["height"] != float64(2) || first["sn"] != "SN-1" || first["position"] != float64(1) {
		t.Errorf("unexpected asset slot: %v", first)
	}
	accessory := front.Items[2]
	if accessory["type"] != "shelf" || accessory["remarks"] != "console" {
		t.Errorf("unexpected accessory slot: %v", accessory)
	}
}

func TestRackEndpointNotFound(t *testing.T) {
	h := newTestHandler(t, config.AuthConfig{})

	w := reqWithToken(t, h, http.MethodGet, "/api/rack/99/", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["message"] != "Rack with id `99` does not exist" {
		t.Errorf("unexpected message: %q", body["message"])
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/rack/abc/", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a non-numeric id, got %d", w.Code)
	}
}

func TestAuthModes(t *testing.T) {
	h := newTestHandler(t, testUsers)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "no token", path: "/api/dc/assets/", token: "", want: http.StatusUnauthorized},
		{name: "unknown token", path: "/api/dc/assets/", token: "nope", want: http.StatusUnauthorized},
		{name: "dc user in dc", path: "/api/dc/assets/", token: "dc-token", want: http.StatusOK},
		{name: "dc user in back office", path: "/api/back_office/assets/", token: "dc-token", want: http.StatusForbidden},
		{name: "back office user on rack", path: "/api/rack/1/", token: "bo-token", want: http.StatusForbidden},
		{name: "unknown mode", path: "/api/lab/assets/", token: "all-token", want: http.StatusNotFound},
		{name: "health is public", path: "/healthz", token: "", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := reqWithToken(t, h, http.MethodGet, tt.path, tt.token, nil)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d body=%s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestAssetLifecycle(t *testing.T) {
	h := newTestHandler(t, testUsers)

	create := map[string]any{
		"manufacturer":   "Dell",
		"model":          "R640",
		"height":         1,
		"warehouse":      "Warsaw",
		"source":         "shipment",
		"sn":             "SN-NEW",
		"price":          "1500",
		"invoice_date":   "2020-02-29",
		"support_period": 12,
		"device":         map[string]any{"rack_id": 2, "orientation": "back", "position": 2},
	}
	w := reqWithToken(t, h, http.MethodPost, "/api/dc/assets/", "dc-token", create)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID              int64   `json:"id"`
		DeprecationDate *string `json:"deprecation_date"`
		Deprecated      bool    `json:"deprecated"`
	}
	decode(t, w, &created)
	if created.DeprecationDate == nil || *created.DeprecationDate != "2021-02-28" || !created.Deprecated {
		t.Errorf("expected deprecation on 2021-02-28, got %+v", created)
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/rack/2/", "dc-token", nil)
	if !strings.Contains(w.Body.String(), `"sn":"SN-NEW"`) {
		t.Errorf("expected new asset in rack 2, got %s", w.Body.String())
	}

	path := "/api/dc/assets/" + strconv.FormatInt(created.ID, 10) + "/"
	w = reqWithToken(t, h, http.MethodDelete, path, "dc-token", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", w.Code, w.Body.String())
	}
	w = reqWithToken(t, h, http.MethodGet, path, "dc-token", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}

	w = reqWithToken(t, h, http.MethodPost, "/api/dc/assets/", "dc-token", map[string]any{"model": "X", "unknown": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown fields, got %d", w.Code)
	}
}

func TestAssetListAndDeprecated(t *testing.T) {
	h := newTestHandler(t, testUsers)

	w := reqWithToken(t, h, http.MethodGet, "/api/dc/assets/?size=2&page=2", "dc-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
		Page  int              `json:"page"`
		Pages int              `json:"pages"`
	}
	decode(t, w, &page)
	if page.Total != 3 || page.Page != 2 || page.Pages != 2 || len(page.Items) != 1 {
		t.Errorf("unexpected page: total=%d page=%d pages=%d items=%d", page.Total, page.Page, page.Pages, len(page.Items))
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/dc/assets/deprecated/?today=2024-01-01", "dc-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var report struct {
		Today  string           `json:"today"`
		Assets []map[string]any `json:"assets"`
	}
	decode(t, w, &report)
	if report.Today != "2024-01-01" || len(report.Assets) != 0 {
		t.Errorf("expected empty report for undated assets, got %+v", report)
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/dc/assets/deprecated/?today=01-01-2024", "dc-token", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed date, got %d", w.Code)
	}
}

func TestLicenceEndpoints(t *testing.T) {
	h := newTestHandler(t, testUsers)

	add := map[string]any{
		"software_category": "Office Suite",
		"sn":                []string{"SN-A", "SN-B"},
		"niw":               []string{"NIW-A", "NIW-B"},
		"number_bought":     5,
		"price":             "10",
	}
	w := reqWithToken(t, h, http.MethodPost, "/api/back_office/sam/licences/", "bo-token", add)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var created []map[string]any
	decode(t, w, &created)
	if len(created) != 2 || created[0]["asset_type"] != "back office" {
		t.Errorf("unexpected licences: %v", created)
	}

	add["niw"] = []string{"NIW-C"}
	w = reqWithToken(t, h, http.MethodPost, "/api/back_office/sam/licences/", "bo-token", add)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for mismatched lists, got %d", w.Code)
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/back_office/sam/licences/?niw=niw-b", "bo-token", nil)
	var page struct {
		Total int `json:"total"`
	}
	decode(t, w, &page)
	if page.Total != 1 {
		t.Errorf("expected one licence matching niw-b, got %d", page.Total)
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/back_office/sam/categories/?name=office", "bo-token", nil)
	if !strings.Contains(w.Body.String(), `"name":"Office Suite"`) {
		t.Errorf("expected category listing, got %s", w.Body.String())
	}
}

func TestSupportEndpoints(t *testing.T) {
	h := newTestHandler(t, testUsers)

	add := map[string]any{
		"contract_id": "CARE-1",
		"name":        "ProSupport",
		"region":      "EMEA",
		"date_from":   "2024-01-01",
		"date_to":     "2025-01-01",
		"asset_ids":   []int64{1, 3},
	}
	w := reqWithToken(t, h, http.MethodPost, "/api/dc/supports/", "dc-token", add)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID      int64  `json:"id"`
		Created string `json:"created"`
	}
	decode(t, w, &created)

	w = reqWithToken(t, h, http.MethodGet, "/api/dc/supports/?asset_sn=SN-3&date_from_start=2023-12-31", "dc-token", nil)
	var page struct {
		Total int `json:"total"`
	}
	decode(t, w, &page)
	if page.Total != 1 {
		t.Errorf("expected the contract to match, got %d", page.Total)
	}

	add["name"] = "ProSupport Plus"
	w = reqWithToken(t, h, http.MethodPut, "/api/dc/supports/"+strconv.FormatInt(created.ID, 10)+"/", "dc-token", add)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	var edited struct {
		Name    string `json:"name"`
		Created string `json:"created"`
	}
	decode(t, w, &edited)
	if edited.Name != "ProSupport Plus" || edited.Created != created.Created {
		t.Errorf("unexpected edit result: %+v (created was %s)", edited, created.Created)
	}

	add["asset_ids"] = []int64{5}
	w = reqWithToken(t, h, http.MethodPost, "/api/dc/supports/", "dc-token", add)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a back office asset, got %d", w.Code)
	}
}

func TestAttachmentEndpoints(t *testing.T) {
	h := newTestHandler(t, testUsers)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "receipt.txt")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	_, _ = part.Write([]byte("paid"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/back_office/assets/5/attachment/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer bo-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	w = reqWithToken(t, h, http.MethodGet, "/api/back_office/assets/5/attachment/", "bo-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	body, _ := io.ReadAll(w.Body)
	if string(body) != "paid" {
		t.Errorf("unexpected attachment content %q", body)
	}
	if !strings.HasSuffix(w.Header().Get("Content-Disposition"), `.txt"`) {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
}
