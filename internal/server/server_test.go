package server

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/config"
	"github.com/congo-pay/payout_demo/internal/logging"
	"github.com/congo-pay/payout_demo/internal/middleware"
	"github.com/congo-pay/payout_demo/internal/onboarding"
	"github.com/congo-pay/payout_demo/internal/routes"
	"github.com/congo-pay/payout_demo/internal/store"
	"github.com/congo-pay/payout_demo/internal/treasury"
	"github.com/congo-pay/payout_demo/internal/treasury/treasurytest"
)

func achAccount(id, name string) treasury.Account {
	return treasury.Account{ID: id, Name: name, RoutingDetails: []treasury.RoutingDetail{{PaymentType: treasury.PaymentTypeACH}}}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*fiber.App, *treasurytest.Server) {
	t.Helper()
	platform := treasurytest.NewServer(t,
		[]treasury.Account{achAccount("ia_1", "Operating"), {ID: "ia_wire", Name: "Wire only"}},
		[]treasury.Account{{ID: "ea_1", PartyName: "Jane Doe"}},
	)
	cfg := config.Config{AppName: "test", AppEnv: "test", Port: "0"}
	cfg.Onboarding.FlowAlias = "my-test-flow"
	if mutate != nil {
		mutate(&cfg)
	}

	client := platform.Client(t)
	activity := store.NewMemoryRepository()
	dispatcher := onboarding.NewDispatcher(client, activity, nil, onboarding.DefaultOptions())
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	srv, err := New(routes.Deps{
		Cfg:        cfg,
		Logger:     logging.Discard(),
		Activity:   activity,
		Treasury:   client,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return srv.App(), platform
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func TestPagesRender(t *testing.T) {
	app, _ := newTestServer(t, nil)

	for _, path := range []string{"/", "/onboarding"} {
		status, body := do(t, app, httptest.NewRequest(fiber.MethodGet, path, nil))
		if status != http.StatusOK || !strings.Contains(body, "<nav>") {
			t.Fatalf("%s: expected rendered page, got %d %s", path, status, body)
		}
	}

	status, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/payout", nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "Operating (ia_1)") || !strings.Contains(body, "Jane Doe (ea_1)") {
		t.Fatalf("expected accounts listed, got %s", body)
	}
	if strings.Contains(body, "ia_wire") {
		t.Fatalf("non-ACH internal account should be filtered out: %s", body)
	}
}

func TestPayRecordsActivity(t *testing.T) {
	app, platform := newTestServer(t, nil)

	status, body := do(t, app, formRequest("/pay", url.Values{"amount": {"2500"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}}))
	if status != http.StatusOK || !strings.Contains(body, `"amount":"2500"`) {
		t.Fatalf("expected echoed form, got %d %s", status, body)
	}
	if len(platform.PaymentOrders()) != 1 {
		t.Fatalf("expected one payment order")
	}

	status, body = do(t, app, httptest.NewRequest(fiber.MethodGet, "/api/v1/activity", nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var decoded struct {
		Activity []store.Activity `json:"activity"`
	}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	if len(decoded.Activity) != 1 || decoded.Activity[0].Kind != store.KindPaymentOrder || decoded.Activity[0].Reference != "po_1" {
		t.Fatalf("unexpected activity: %+v", decoded.Activity)
	}
}

func TestPayWithLedgerRequiresLedgerAccounts(t *testing.T) {
	app, _ := newTestServer(t, nil)

	status, body := do(t, app, formRequest("/pay-with-ledger", url.Values{
		"amount": {"2500"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}, "description": {"rent"},
	}))
	if status != http.StatusServiceUnavailable || !strings.Contains(body, `"error"`) {
		t.Fatalf("expected 503 json error, got %d %s", status, body)
	}
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	app, platform := newTestServer(t, nil)
	platform.FailPaymentOrders(http.StatusUnprocessableEntity, "amount too large")

	status, body := do(t, app, formRequest("/pay", url.Values{"amount": {"2500"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}}))
	if status != http.StatusBadGateway || !strings.Contains(body, `"upstream_status":422`) {
		t.Fatalf("expected 502 with upstream status, got %d %s", status, body)
	}
}

func TestWebhooks(t *testing.T) {
	app, _ := newTestServer(t, nil)

	req := httptest.NewRequest(fiber.MethodPost, "/reversal-hook", strings.NewReader(`{"data":{"status":"completed","amount":100}}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if status, body := do(t, app, req); status != http.StatusOK || body != "" {
		t.Fatalf("expected empty 200, got %d %q", status, body)
	}

	req = httptest.NewRequest(fiber.MethodPost, "/return-hook", strings.NewReader(`not json`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if status, _ := do(t, app, req); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestSignedWebhooks(t *testing.T) {
	app, _ := newTestServer(t, func(cfg *config.Config) { cfg.WebhookSecret = "s3cret" })
	body := `{"data":{"status":"approved","id":"uo_1"}}`

	req := httptest.NewRequest(fiber.MethodPost, "/onboarding-hook", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if status, _ := do(t, app, req); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", status)
	}

	req = httptest.NewRequest(fiber.MethodPost, "/onboarding-hook", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.SignatureHeader, hex.EncodeToString(middleware.Sign([]byte("s3cret"), []byte(body))))
	if status, _ := do(t, app, req); status != http.StatusOK {
		t.Fatalf("expected 200 with signature, got %d", status)
	}
}

func TestHealthz(t *testing.T) {
	app, _ := newTestServer(t, nil)

	status, body := do(t, app, httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", status, body)
	}
	var decoded struct {
		Status map[string]string `json:"status"`
	}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Status["treasury"] != "ok" || decoded.Status["postgres"] != "disabled" || decoded.Status["redis"] != "disabled" {
		t.Fatalf("unexpected health: %+v", decoded.Status)
	}
}
