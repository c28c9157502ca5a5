// Package views renders the embedded HTML pages.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout wraps every page; pages are included with {{embed}}.
const Layout = "layout"

var printer = message.NewPrinter(language.AmericanEnglish)

// New returns the html engine over the embedded templates with the view helpers registered.
func New() (*html.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("dollars", Dollars)
	return engine, nil
}

// Dollars formats an amount in cents as "$1,234.56".
func Dollars(cents int64) string {
	amount := decimal.New(cents, -2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole := amount.IntPart()
	frac := amount.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()
	return printer.Sprintf("%s$%d", sign, whole) + fmt.Sprintf(".%02d", frac)
}
