package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/congo-pay/payout_demo/internal/form"
	"github.com/congo-pay/payout_demo/internal/treasury"
)

// ErrValidation wraps every rejected onboarding form field.
var ErrValidation = errors.New("invalid onboarding request")

// FieldError names the form field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Reason) }

func (e *FieldError) Unwrap() error { return ErrValidation }

// Form is the flat onboarding form as submitted by the browser.
type Form struct {
	FirstName          form.Text `json:"first_name" form:"first_name"`
	LastName           form.Text `json:"last_name" form:"last_name"`
	DateOfBirth        form.Text `json:"date_of_birth" form:"date_of_birth"`
	PhoneNumber        form.Text `json:"phone_number" form:"phone_number"`
	Email              form.Text `json:"email" form:"email"`
	AddressLine1       form.Text `json:"address_line1" form:"address_line1"`
	AddressLine2       form.Text `json:"address_line2" form:"address_line2"`
	AddressLocality    form.Text `json:"address_locality" form:"address_locality"`
	AddressRegion      form.Text `json:"address_region" form:"address_region"`
	AddressPostalCode  form.Text `json:"address_postal_code" form:"address_postal_code"`
	AddressCountry     form.Text `json:"address_country" form:"address_country"`
	TaxpayerIdentifier form.Text `json:"taxpayer_identifier" form:"taxpayer_identifier"`
	AccountNumber      form.Text `json:"account_number" form:"account_number"`
	AccountNumberType  form.Text `json:"account_number_type" form:"account_number_type"`
	RoutingNumber      form.Text `json:"routing_number" form:"routing_number"`
	RoutingNumberType  form.Text `json:"routing_number_type" form:"routing_number_type"`
	AccountType        form.Text `json:"account_type" form:"account_type"`
}

// Validate checks the fields the platform cannot identify an applicant without.
func (f Form) Validate() error {
	required := []struct{ name, value string }{
		{"first_name", f.FirstName.String()},
		{"last_name", f.LastName.String()},
		{"email", f.Email.String()},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &FieldError{Field: r.name, Reason: "is required"}
		}
	}
	if !strings.Contains(f.Email.String(), "@") {
		return &FieldError{Field: "email", Reason: "must be an email address"}
	}
	return nil
}

// Request maps the flat form into the nested onboarding schema.
func (f Form) Request(flowAlias string) treasury.OnboardingRequest {
	return treasury.OnboardingRequest{
		Status:    treasury.OnboardingStatusProcessing,
		FlowAlias: flowAlias,
		Data: treasury.OnboardingData{
			FirstName:   f.FirstName.String(),
			LastName:    f.LastName.String(),
			DateOfBirth: f.DateOfBirth.String(),
			PhoneNumber: f.PhoneNumber.String(),
			Email:       f.Email.String(),
			Address: treasury.Address{
				Line1:      f.AddressLine1.String(),
				Line2:      f.AddressLine2.String(),
				Locality:   f.AddressLocality.String(),
				Region:     f.AddressRegion.String(),
				PostalCode: f.AddressPostalCode.String(),
				Country:    f.AddressCountry.String(),
			},
			TaxpayerIdentifier: f.TaxpayerIdentifier.String(),
			ExternalAccount: treasury.ExternalAccount{
				AccountDetails: []treasury.AccountDetail{{
					AccountNumber:     f.AccountNumber.String(),
					AccountNumberType: f.AccountNumberType.String(),
				}},
				RoutingDetails: []treasury.RoutingDetail{{
					RoutingNumber:     f.RoutingNumber.String(),
					RoutingNumberType: f.RoutingNumberType.String(),
				}},
				AccountType: f.AccountType.String(),
			},
		},
	}
}
