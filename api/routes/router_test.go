package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/materialhub-backend/api/controllers"
	"github.com/angelmondragon/materialhub-backend/internal/catalog"
	"github.com/angelmondragon/materialhub-backend/internal/checkout"
	"github.com/angelmondragon/materialhub-backend/internal/session"
	"github.com/angelmondragon/materialhub-backend/pkg/auth"
	"github.com/angelmondragon/materialhub-backend/pkg/config"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	"github.com/angelmondragon/materialhub-backend/pkg/metrics"
)

type stubSession struct {
	checkouts int
}

func (s *stubSession) Catalog(ctx context.Context, filter catalog.Filter) ([]catalog.CatalogItem, error) {
	return []catalog.CatalogItem{}, nil
}

func (s *stubSession) Categories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (s *stubSession) Cart(ctx context.Context, operatorID string) (*session.CartView, error) {
	return &session.CartView{PaymentStatus: enums.PaymentStatusPending}, nil
}

func (s *stubSession) AddLine(ctx context.Context, operatorID, catalogKey, vendorID string, qty decimal.Decimal) (*session.CartView, error) {
	return &session.CartView{}, nil
}

func (s *stubSession) UpdateLine(ctx context.Context, operatorID, lineID string, qty decimal.Decimal) (*session.CartView, error) {
	return &session.CartView{}, nil
}

func (s *stubSession) RemoveLine(ctx context.Context, operatorID, lineID string) (*session.CartView, error) {
	return &session.CartView{}, nil
}

func (s *stubSession) SetPaymentStatus(ctx context.Context, operatorID string, status enums.PaymentStatus) (*session.CartView, error) {
	return &session.CartView{PaymentStatus: status}, nil
}

func (s *stubSession) CheckoutLine(ctx context.Context, operatorID, lineID, clientID string) (*checkout.Placement, error) {
	s.checkouts++
	return &checkout.Placement{
		Orders:   []checkout.PlacedOrder{{OrderID: fmt.Sprintf("ord_%d", s.checkouts)}},
		ClientID: clientID,
	}, nil
}

func (s *stubSession) CheckoutVendor(ctx context.Context, operatorID, vendorID, clientID string) (*checkout.Placement, error) {
	return s.CheckoutLine(ctx, operatorID, "", clientID)
}

type memoryIdempotency struct {
	data map[string]string
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (m *memoryIdempotency) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryIdempotency) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (m *memoryIdempotency) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "materialhub-identity"},
	}
}

func bearer(t *testing.T, cfg *config.Config, operatorID string) string {
	t.Helper()
	now := time.Now()
	claims := auth.OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID,
			Issuer:    cfg.JWT.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWT.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func newTestRouter(sess *stubSession) (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewRouter(testConfig(), nil, Dependencies{
		Session:     sess,
		Idempotency: &memoryIdempotency{data: map[string]string{}},
		Ready:       map[string]controllers.Pinger{"db": okPinger{}},
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
	}), reg
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(&stubSession{})
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestOperatorRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(&stubSession{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOperatorRoutesWithToken(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(&stubSession{})

	for _, path := range []string{"/api/v1/cart", "/api/v1/catalog"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, cfg, "op-1"))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCheckoutReplaysWithIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	sess := &stubSession{}
	router, _ := newTestRouter(sess)

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/line", strings.NewReader(`{"line_id":"Cement__Cement__v1","client_id":"site-1"}`))
		req.Header.Set("Authorization", bearer(t, cfg, "op-1"))
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send("k-1")
	replay := send("k-1")
	if first.Code != http.StatusCreated || replay.Code != http.StatusCreated {
		t.Fatalf("expected 201 responses, got %d and %d", first.Code, replay.Code)
	}
	if first.Body.String() != replay.Body.String() {
		t.Fatalf("expected replayed body, got %s vs %s", first.Body.String(), replay.Body.String())
	}
	if sess.checkouts != 1 {
		t.Fatalf("expected one placement, got %d", sess.checkouts)
	}

	if resp := send(""); resp.Code != http.StatusCreated {
		t.Fatalf("expected keyless checkout to succeed, got %d", resp.Code)
	}
	if sess.checkouts != 2 {
		t.Fatalf("expected keyless retry to place again, got %d", sess.checkouts)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(&stubSession{})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "http_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}
