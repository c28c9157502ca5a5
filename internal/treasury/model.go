package treasury

import (
	"time"

	"github.com/congo-pay/payout_demo/internal/ledger"
)

const (
	// PaymentTypeACH is the ACH payment rail.
	PaymentTypeACH = "ach"

	// DirectionCredit pushes funds from the originating account to the receiver.
	DirectionCredit = "credit"
	// DirectionDebit pulls funds from the receiver into the originating account.
	DirectionDebit = "debit"

	// CurrencyUSD is the only currency the demo payouts use.
	CurrencyUSD = "USD"

	// OnboardingStatusProcessing asks the platform to start reviewing the submission.
	OnboardingStatusProcessing = "processing"
)

// Account is an internal or external account as returned by the platform.
type Account struct {
	ID             string          `json:"id"`
	Object         string          `json:"object"`
	Name           string          `json:"name"`
	PartyName      string          `json:"party_name"`
	AccountType    string          `json:"account_type"`
	Currency       string          `json:"currency"`
	LiveMode       bool            `json:"live_mode"`
	AccountDetails []AccountDetail `json:"account_details"`
	RoutingDetails []RoutingDetail `json:"routing_details"`
}

// DisplayName prefers the account name and falls back to party name, then id.
func (a Account) DisplayName() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.PartyName != "":
		return a.PartyName
	default:
		return a.ID
	}
}

// AccountDetail holds the account number of a bank account.
type AccountDetail struct {
	ID                string `json:"id,omitempty"`
	AccountNumber     string `json:"account_number,omitempty"`
	AccountNumberSafe string `json:"account_number_safe,omitempty"`
	AccountNumberType string `json:"account_number_type,omitempty"`
}

// RoutingDetail holds a routing number and the rail it applies to.
type RoutingDetail struct {
	ID                string `json:"id,omitempty"`
	RoutingNumber     string `json:"routing_number,omitempty"`
	RoutingNumberType string `json:"routing_number_type,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	BankName          string `json:"bank_name,omitempty"`
}

// AccountFilter narrows account listings. The zero value lists everything.
type AccountFilter struct {
	PaymentType string
}

// PaymentOrderRequest is the transfer instruction sent to the platform.
type PaymentOrderRequest struct {
	Type                 string              `json:"type"`
	Amount               int64               `json:"amount"`
	Direction            string              `json:"direction"`
	Currency             string              `json:"currency"`
	OriginatingAccountID string              `json:"originating_account_id"`
	ReceivingAccountID   string              `json:"receiving_account_id"`
	Description          string              `json:"description,omitempty"`
	LedgerTransaction    *ledger.Transaction `json:"ledger_transaction,omitempty"`
}

// PaymentOrder is the created resource returned by the platform.
type PaymentOrder struct {
	ID                   string    `json:"id"`
	Type                 string    `json:"type"`
	Amount               int64     `json:"amount"`
	Direction            string    `json:"direction"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	OriginatingAccountID string    `json:"originating_account_id"`
	ReceivingAccountID   string    `json:"receiving_account_id"`
	LedgerTransactionID  string    `json:"ledger_transaction_id"`
	CreatedAt            time.Time `json:"created_at"`
}

// OnboardingRequest starts a user onboarding flow.
type OnboardingRequest struct {
	Status    string         `json:"status"`
	FlowAlias string         `json:"flow_alias"`
	Data      OnboardingData `json:"data"`
}

// OnboardingData is the applicant payload of an onboarding request.
type OnboardingData struct {
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	DateOfBirth        string          `json:"date_of_birth"`
	PhoneNumber        string          `json:"phone_number"`
	Email              string          `json:"email"`
	Address            Address         `json:"address"`
	TaxpayerIdentifier string          `json:"taxpayer_identifier"`
	ExternalAccount    ExternalAccount `json:"external_account"`
}

// Address is a postal address.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	Locality   string `json:"locality"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ExternalAccount is the bank account an applicant wants paid into.
type ExternalAccount struct {
	AccountDetails []AccountDetail `json:"account_details"`
	RoutingDetails []RoutingDetail `json:"routing_details"`
	AccountType    string          `json:"account_type"`
}

// Onboarding is the platform's acknowledgement of an onboarding request.
type Onboarding struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
