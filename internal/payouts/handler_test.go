package payouts

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/treasury/treasurytest"
)

func setupPayApp(t *testing.T) (*fiber.App, *treasurytest.Server) {
	t.Helper()
	platform := treasurytest.NewServer(t, nil, nil)
	h := NewHandler(NewService(platform.Client(t), LedgerAccounts{CreditAccountID: "la_credit", DebitAccountID: "la_debit"}, nil, nil))

	app := fiber.New()
	app.Post("/pay", h.Pay)
	app.Post("/pay-with-ledger", h.PayWithLedger)
	return app, platform
}

func postForm(t *testing.T, app *fiber.App, path string, values url.Values) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)
	return resp, decoded
}

func TestPayEchoesSubmittedForm(t *testing.T) {
	app, platform := setupPayApp(t)
	values := url.Values{"amount": {"1000"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}}

	resp, body := postForm(t, app, "/pay", values)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(body) != 3 || body["amount"] != "1000" || body["internalAccount"] != "ia_1" || body["externalAccount"] != "ea_1" {
		t.Fatalf("expected form echoed, got %+v", body)
	}
	if len(platform.PaymentOrders()) != 1 {
		t.Fatalf("expected one payment order, got %d", len(platform.PaymentOrders()))
	}
}

func TestPayWithLedgerEchoesSubmittedForm(t *testing.T) {
	app, platform := setupPayApp(t)
	values := url.Values{"amount": {"1000"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}, "description": {"test"}}

	resp, body := postForm(t, app, "/pay-with-ledger", values)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body["description"] != "test" {
		t.Fatalf("expected description echoed, got %+v", body)
	}
	orders := platform.PaymentOrders()
	if len(orders) != 1 || orders[0].LedgerTransaction == nil {
		t.Fatalf("expected ledger-backed order, got %+v", orders)
	}
}

func TestPayRejectsInvalidForm(t *testing.T) {
	app, _ := setupPayApp(t)

	resp, _ := postForm(t, app, "/pay", url.Values{"amount": {"ten"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPayMapsUpstreamRejectionToBadGateway(t *testing.T) {
	app, platform := setupPayApp(t)
	platform.FailPaymentOrders(http.StatusUnauthorized, "invalid credentials")

	resp, body := postForm(t, app, "/pay", url.Values{"amount": {"1000"}, "internalAccount": {"ia_1"}, "externalAccount": {"ea_1"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if status, _ := body["upstream_status"].(float64); int(status) != http.StatusUnauthorized {
		t.Fatalf("expected upstream status 401, got %+v", body)
	}
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(payload)
}

func TestPayAcceptsJSONWithNumericAmount(t *testing.T) {
	app, platform := setupPayApp(t)

	status, body := postJSON(t, app, "/pay", `{"amount":1000,"internalAccount":"ia_1","externalAccount":"ea_1"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", status, body)
	}
	if !strings.Contains(body, `"amount":1000`) {
		t.Fatalf("expected numeric amount echoed, got %s", body)
	}
	orders := platform.PaymentOrders()
	if len(orders) != 1 || orders[0].Amount != 1000 {
		t.Fatalf("expected one order for 1000 cents, got %+v", orders)
	}
}

func TestPayRejectsNonScalarJSONWithoutDecoderDetails(t *testing.T) {
	app, platform := setupPayApp(t)

	status, body := postJSON(t, app, "/pay", `{"amount":{"value":1000},"internalAccount":"ia_1","externalAccount":"ea_1"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if strings.Contains(body, "payRequest") || strings.Contains(body, "Go struct") {
		t.Fatalf("error leaks decoder internals: %s", body)
	}
	if len(platform.PaymentOrders()) != 0 {
		t.Fatal("no order expected")
	}
}
