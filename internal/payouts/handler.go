package payouts

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/form"
	"github.com/congo-pay/payout_demo/internal/treasury"
)

// Handler exposes the payout pages and forms.
type Handler struct {
	service *Service
}

// NewHandler constructs a payout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type payRequest struct {
	Amount          form.Text `json:"amount" form:"amount"`
	InternalAccount form.Text `json:"internalAccount" form:"internalAccount"`
	ExternalAccount form.Text `json:"externalAccount" form:"externalAccount"`
	Description     form.Text `json:"description" form:"description"`
}

// PayoutPage renders the ACH payout form.
func (h *Handler) PayoutPage(c *fiber.Ctx) error {
	return h.renderAccounts(c, "payout", "Payout")
}

// PayoutWithLedgerPage renders the ledger-backed payout form.
func (h *Handler) PayoutWithLedgerPage(c *fiber.Ctx) error {
	return h.renderAccounts(c, "payout_with_ledger", "Payout with ledger")
}

func (h *Handler) renderAccounts(c *fiber.Ctx, view, title string) error {
	accounts, err := h.service.Accounts(c.UserContext())
	if err != nil {
		return upstreamError(c, err)
	}
	return c.Render(view, fiber.Map{
		"Title":            title,
		"InternalAccounts": accounts.Internal,
		"ExternalAccounts": accounts.External,
	})
}

// Pay creates an ACH payout and echoes the submitted form.
func (h *Handler) Pay(c *fiber.Ctx) error {
	input, err := parsePay(c)
	if err != nil {
		return err
	}
	if _, err := h.service.Pay(c.UserContext(), input); err != nil {
		return h.fail(c, err)
	}
	return form.Echo(c)
}

// PayWithLedger creates a payout with an attached ledger transaction and echoes the form.
func (h *Handler) PayWithLedger(c *fiber.Ctx) error {
	input, err := parsePay(c)
	if err != nil {
		return err
	}
	if _, err := h.service.PayWithLedger(c.UserContext(), input); err != nil {
		return h.fail(c, err)
	}
	return form.Echo(c)
}

func parsePay(c *fiber.Ctx) (PayInput, error) {
	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return PayInput{}, fiber.NewError(http.StatusBadRequest, form.ErrMalformedBody.Error())
	}
	return PayInput{
		Amount:          req.Amount.String(),
		InternalAccount: req.InternalAccount.String(),
		ExternalAccount: req.ExternalAccount.String(),
		Description:     req.Description.String(),
	}, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLedgerNotConfigured):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	default:
		return upstreamError(c, err)
	}
}

// upstreamError answers 502 and passes the platform's status and message through.
func upstreamError(c *fiber.Ctx, err error) error {
	var apiErr *treasury.APIError
	switch {
	case errors.As(err, &apiErr):
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{
			"error":           apiErr.Error(),
			"upstream_status": apiErr.StatusCode,
			"upstream_code":   apiErr.Code,
		})
	case errors.Is(err, treasury.ErrUnavailable):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
