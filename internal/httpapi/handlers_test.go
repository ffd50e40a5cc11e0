package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"merchdesk/backend/internal/assets"
	"merchdesk/backend/internal/cache"
	"merchdesk/backend/internal/domain"
	"merchdesk/backend/internal/publish"
	"merchdesk/backend/internal/service"
	"merchdesk/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopQuoteCache{}, publish.NewWebhookClient("", ""), time.Minute)
	auth := NewAuthManager("test-secret-key", time.Hour, repo)
	uploader := assets.NewUploader("", "", "", "")

	return New(svc, auth, uploader, "*")
}

// login obtains a bearer token for the given seeded account.
func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func csrfToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf body: %v", err)
	}
	return body["csrf_token"]
}

func authedRequest(t *testing.T, handler http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("X-CSRF-Token", csrfToken(t, handler))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	// The loginLimiter allows 5 attempts per minute.
	payload, _ := json.Marshal(map[string]string{
		"username": "admin",
		"password": "badpass",
	})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleProducts_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandleProducts_ListAndCreate(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "admin", "admin123")

	rec := authedRequest(t, handler, http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var listBody map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&listBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if listBody["products"] == nil {
		t.Fatalf("expected products key, got %v", listBody)
	}

	rec = authedRequest(t, handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Slug: "canvas-print", Name: "Canvas Print", Category: "decor", PriceCents: 4500,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = authedRequest(t, handler, http.MethodGet, "/api/v1/products/canvas-print", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", rec.Code)
	}
}

func TestHandleProducts_CreateForbiddenForEditor(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "editor", "editor123")

	rec := authedRequest(t, handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Slug: "canvas-print", Name: "Canvas Print", Category: "decor", PriceCents: 4500,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for editor, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleProductPatch_PriceHistory(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "admin", "admin123")

	price := int64(2800)
	rec := authedRequest(t, handler, http.MethodPatch, "/api/v1/products/classic-tee", token, domain.ProductUpdateRequest{
		PriceCents: &price,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = authedRequest(t, handler, http.MethodGet, "/api/v1/products/classic-tee/price-history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rec.Code)
	}
	var body map[string][]domain.ProductPriceHistory
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(body["history"]) != 1 || body["history"][0].NewPriceCents != 2800 {
		t.Fatalf("history = %+v", body["history"])
	}
}

func TestHandleBundles_ListComputesPrices(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "editor", "editor123")

	rec := authedRequest(t, handler, http.MethodGet, "/api/v1/bundles", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var body map[string][]domain.BundleView
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode bundles: %v", err)
	}
	if len(body["bundles"]) != 1 {
		t.Fatalf("bundles = %+v", body["bundles"])
	}
	view := body["bundles"][0]
	if view.BasePriceCents != 11500 || view.EffectivePriceCents != 9900 || view.SavingsCents != 1600 {
		t.Fatalf("view prices = %d/%d/%d", view.BasePriceCents, view.EffectivePriceCents, view.SavingsCents)
	}
}

func TestHandlePricePreview(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "editor", "editor123")

	rec := authedRequest(t, handler, http.MethodPost, "/api/v1/pricing/preview", token, domain.PricePreviewRequest{
		ItemKind: domain.ItemKindProduct, Slug: "classic-tee",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp domain.PricePreviewResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if resp.OriginalCents != 2500 || resp.FinalCents != 2250 {
		t.Fatalf("preview = %d -> %d", resp.OriginalCents, resp.FinalCents)
	}

	rec = authedRequest(t, handler, http.MethodPost, "/api/v1/pricing/preview", token, domain.PricePreviewRequest{
		ItemKind: domain.ItemKindProduct, Slug: "ghost",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", rec.Code)
	}
}

func TestHandleDiscounts_CreateAndPause(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "admin", "admin123")

	rec := authedRequest(t, handler, http.MethodPost, "/api/v1/discounts", token, domain.DiscountCreateRequest{
		Name:        "Flash sale",
		Kind:        domain.DiscountKindAuto,
		Value:       domain.DiscountValue{Kind: domain.ValueKindPercent, Percent: 20},
		Eligibility: domain.Eligibility{All: true},
		Stacking:    domain.Stacking{Priority: 3},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var created map[string]domain.Discount
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode discount: %v", err)
	}
	id := created["discount"].ID

	status := domain.DiscountStatusPaused
	rec = authedRequest(t, handler, http.MethodPatch, "/api/v1/discounts/"+id, token, domain.DiscountUpdateRequest{
		Status: &status,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("pause: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandlePublishDraftFlow(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "editor", "editor123")

	// No webhook configured, so the handoff is recorded as failed.
	rec := authedRequest(t, handler, http.MethodPost, "/api/v1/publish", token, domain.PublishRequest{
		EntityKind: "product", EntityID: "classic-tee",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("publish: expected 202, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	var resp domain.PublishResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode publish: %v", err)
	}
	if resp.Draft.Status != domain.DraftStatusFailed {
		t.Fatalf("draft status = %q, want failed without webhook", resp.Draft.Status)
	}

	rec = authedRequest(t, handler, http.MethodGet, "/api/v1/publish/drafts/"+resp.Draft.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("draft detail: expected 200, got %d", rec.Code)
	}
}

func TestHandleAssetUpload_Unconfigured(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "admin", "admin123")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/upload", bytes.NewReader(nil))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrfToken(t, handler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without CDN config, got %d", rec.Code)
	}
}

func TestHandleAuditLogs_AdminOnly(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	editorToken := login(t, handler, "editor", "editor123")
	rec := authedRequest(t, handler, http.MethodGet, "/api/v1/audit-logs", editorToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("editor: expected 403, got %d", rec.Code)
	}

	adminToken := login(t, handler, "admin", "admin123")
	rec = authedRequest(t, handler, http.MethodGet, "/api/v1/audit-logs", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleEditors(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()
	token := login(t, handler, "admin", "admin123")

	rec := authedRequest(t, handler, http.MethodPost, "/api/v1/users/editors", token, domain.EditorCreateRequest{
		Username: "newdesk", Password: "longenough",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = authedRequest(t, handler, http.MethodGet, "/api/v1/users/editors", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var body map[string][]domain.EditorUser
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode editors: %v", err)
	}
	found := false
	for _, editor := range body["editors"] {
		if editor.Username == "newdesk" {
			found = true
		}
	}
	if !found {
		t.Fatalf("editors = %+v", body["editors"])
	}
}
