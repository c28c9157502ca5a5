package payouts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/congo-pay/payout_demo/internal/ledger"
	"github.com/congo-pay/payout_demo/internal/store"
	"github.com/congo-pay/payout_demo/internal/treasury"
)

var (
	// ErrValidation wraps every rejected payout form field.
	ErrValidation = errors.New("invalid payout request")

	// ErrLedgerNotConfigured indicates the fixed ledger accounts were not provided.
	ErrLedgerNotConfigured = errors.New("ledger accounts are not configured")
)

// FieldError names the form field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

func (e *FieldError) Unwrap() error { return ErrValidation }

// PaymentsAPI is the part of the payments platform payouts need.
type PaymentsAPI interface {
	ListInternalAccounts(filter treasury.AccountFilter) *treasury.AccountIter
	ListExternalAccounts(filter treasury.AccountFilter) *treasury.AccountIter
	CreatePaymentOrder(ctx context.Context, req treasury.PaymentOrderRequest) (treasury.PaymentOrder, error)
}

// LedgerAccounts are the fixed ledger accounts every ledger payout posts to.
type LedgerAccounts struct {
	CreditAccountID string
	DebitAccountID  string
}

// Service builds ACH credit payment orders from submitted forms.
type Service struct {
	api      PaymentsAPI
	ledger   LedgerAccounts
	activity store.Repository
	logger   *slog.Logger
}

// NewService constructs a payout service. activity and logger may be nil.
func NewService(api PaymentsAPI, accounts LedgerAccounts, activity store.Repository, logger *slog.Logger) *Service {
	return &Service{api: api, ledger: accounts, activity: activity, logger: logger}
}

// Accounts holds the account lists shown on the payout pages.
type Accounts struct {
	Internal []treasury.Account
	External []treasury.Account
}

// PayInput captures the submitted payout form.
type PayInput struct {
	Amount          string
	InternalAccount string
	ExternalAccount string
	Description     string
}

// Accounts drains ACH-capable internal accounts and every external account.
// Both listings are fully paged before returning; a failure in either discards both.
func (s *Service) Accounts(ctx context.Context) (Accounts, error) {
	var out Accounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := treasury.Drain(gctx, s.api.ListInternalAccounts(treasury.AccountFilter{PaymentType: treasury.PaymentTypeACH}))
		if err != nil {
			return fmt.Errorf("list internal accounts: %w", err)
		}
		out.Internal = accounts
		return nil
	})
	g.Go(func() error {
		accounts, err := treasury.Drain(gctx, s.api.ListExternalAccounts(treasury.AccountFilter{}))
		if err != nil {
			return fmt.Errorf("list external accounts: %w", err)
		}
		out.External = accounts
		return nil
	})
	if err := g.Wait(); err != nil {
		return Accounts{}, err
	}
	return out, nil
}

// Pay creates an ACH credit in USD from the internal to the external account.
func (s *Service) Pay(ctx context.Context, input PayInput) (treasury.PaymentOrder, error) {
	req, err := buildOrder(input)
	if err != nil {
		return treasury.PaymentOrder{}, err
	}
	return s.create(ctx, req)
}

// PayWithLedger creates the same order as Pay with a balanced ledger
// transaction attached, so the ledger entries are written with the order.
func (s *Service) PayWithLedger(ctx context.Context, input PayInput) (treasury.PaymentOrder, error) {
	req, err := buildOrder(input)
	if err != nil {
		return treasury.PaymentOrder{}, err
	}
	if strings.TrimSpace(input.Description) == "" {
		return treasury.PaymentOrder{}, &FieldError{Field: "description", Reason: "is required"}
	}
	if s.ledger.CreditAccountID == "" || s.ledger.DebitAccountID == "" {
		return treasury.PaymentOrder{}, ErrLedgerNotConfigured
	}

	tx, err := ledger.NewBalancedTransaction(input.Description, req.Amount, s.ledger.CreditAccountID, s.ledger.DebitAccountID)
	if err != nil {
		return treasury.PaymentOrder{}, err
	}
	req.Description = input.Description
	req.LedgerTransaction = &tx
	return s.create(ctx, req)
}

func (s *Service) create(ctx context.Context, req treasury.PaymentOrderRequest) (treasury.PaymentOrder, error) {
	order, err := s.api.CreatePaymentOrder(ctx, req)
	if err != nil {
		return treasury.PaymentOrder{}, err
	}

	if s.activity != nil {
		topic := "pay"
		if req.LedgerTransaction != nil {
			topic = "pay-with-ledger"
		}
		if err := s.activity.Record(ctx, store.Activity{
			Kind:      store.KindPaymentOrder,
			Topic:     topic,
			Reference: order.ID,
			Status:    order.Status,
			Amount:    req.Amount,
		}); err != nil && s.logger != nil {
			s.logger.Warn("record payment order activity", slog.String("payment_order_id", order.ID), slog.Any("error", err))
		}
	}
	if s.logger != nil {
		s.logger.Info("payment order created",
			slog.String("payment_order_id", order.ID),
			slog.String("status", order.Status),
			slog.Int64("amount", req.Amount),
			slog.String("amount_usd", FormatCents(req.Amount)),
			slog.Bool("ledger", req.LedgerTransaction != nil),
		)
	}
	return order, nil
}

func buildOrder(input PayInput) (treasury.PaymentOrderRequest, error) {
	amount, err := ParseAmount(input.Amount)
	if err != nil {
		return treasury.PaymentOrderRequest{}, err
	}
	if strings.TrimSpace(input.InternalAccount) == "" {
		return treasury.PaymentOrderRequest{}, &FieldError{Field: "internalAccount", Reason: "is required"}
	}
	if strings.TrimSpace(input.ExternalAccount) == "" {
		return treasury.PaymentOrderRequest{}, &FieldError{Field: "externalAccount", Reason: "is required"}
	}
	return treasury.PaymentOrderRequest{
		Type:                 treasury.PaymentTypeACH,
		Amount:               amount,
		Direction:            treasury.DirectionCredit,
		Currency:             treasury.CurrencyUSD,
		OriginatingAccountID: strings.TrimSpace(input.InternalAccount),
		ReceivingAccountID:   strings.TrimSpace(input.ExternalAccount),
	}, nil
}

// ParseAmount reads a positive whole number of cents.
func ParseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &FieldError{Field: "amount", Reason: "is required"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &FieldError{Field: "amount", Reason: "must be a number"}
	}
	if !d.IsInteger() {
		return 0, &FieldError{Field: "amount", Reason: "must be a whole number of cents"}
	}
	if !d.IsPositive() {
		return 0, &FieldError{Field: "amount", Reason: "must be positive"}
	}
	if d.GreaterThan(decimal.NewFromInt(maxAmount)) {
		return 0, &FieldError{Field: "amount", Reason: "is too large"}
	}
	return d.IntPart(), nil
}

// maxAmount keeps amounts well inside int64.
const maxAmount = 1_000_000_000_000

// FormatCents renders a cent amount as dollars, e.g. 1000 -> "10.00".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
