package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

func TestHandlerRecent(t *testing.T) {
	repo := NewMemoryRepository()
	for _, ref := range []string{"po_1", "po_2", "po_3"} {
		_ = repo.Record(context.Background(), Activity{Kind: KindPaymentOrder, Reference: ref})
	}

	app := fiber.New()
	app.Get("/activity", NewHandler(repo).Recent)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/activity?limit=2", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Activity []Activity `json:"activity"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Activity) != 2 || body.Activity[0].Reference != "po_3" {
		t.Fatalf("unexpected activity: %+v", body.Activity)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/activity?limit=-1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
