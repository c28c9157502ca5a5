package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/congo-pay/payout_demo/internal/treasury"
)

func loadedEngine(t *testing.T) *html.Engine {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := e.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e
}

func TestRenderPagesWithinLayout(t *testing.T) {
	e := loadedEngine(t)
	for _, name := range []string{"index", "onboarding", "payout", "payout_with_ledger"} {
		var buf bytes.Buffer
		if err := e.Render(&buf, name, fiber.Map{"Title": name}, Layout); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
		if !strings.Contains(buf.String(), "<nav>") {
			t.Fatalf("%s rendered without layout", name)
		}
	}
}

func TestRenderPayoutListsAccounts(t *testing.T) {
	e := loadedEngine(t)
	var buf bytes.Buffer
	err := e.Render(&buf, "payout_with_ledger", fiber.Map{
		"Title":            "Payout with ledger",
		"InternalAccounts": []treasury.Account{{ID: "ia_1", Name: "Operating"}},
		"ExternalAccounts": []treasury.Account{{ID: "ea_1", PartyName: "Jane <Doe>"}},
	}, Layout)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`value="ia_1"`, "Operating (ia_1)", "Jane &lt;Doe&gt; (ea_1)", `action="/pay-with-ledger"`, "$100.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderUnknownView(t *testing.T) {
	e := loadedEngine(t)
	if err := e.Render(&bytes.Buffer{}, "missing", nil, Layout); err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestDollars(t *testing.T) {
	cases := map[int64]string{
		0:         "$0.00",
		5:         "$0.05",
		10000:     "$100.00",
		123456789: "$1,234,567.89",
		-2550:     "-$25.50",
	}
	for cents, want := range cases {
		if got := Dollars(cents); got != want {
			t.Fatalf("Dollars(%d) = %q, want %q", cents, got, want)
		}
	}
}
