// Package treasurytest provides an in-process stand-in for the payments platform.
package treasurytest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/congo-pay/payout_demo/internal/treasury"
)

// Server records requests and answers them like the platform would.
type Server struct {
	*httptest.Server

	mu               sync.Mutex
	internal         []treasury.Account
	external         []treasury.Account
	pageSize         int
	orders           []treasury.PaymentOrderRequest
	onboardings      []treasury.OnboardingRequest
	listQueries      []string
	orderFailure     *failure
	onboardFailures  []int
	onboardingCalled chan struct{}
}

type failure struct {
	status  int
	message string
}

// NewServer starts a fake platform serving the given accounts. It is closed with t.
func NewServer(t testing.TB, internal, external []treasury.Account) *Server {
	t.Helper()
	s := &Server{
		internal:         internal,
		external:         external,
		pageSize:         2,
		onboardingCalled: make(chan struct{}, 64),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/internal_accounts", s.listHandler(func() []treasury.Account { return s.internal }))
	mux.HandleFunc("/api/external_accounts", s.listHandler(func() []treasury.Account { return s.external }))
	mux.HandleFunc("/api/payment_orders", s.createPaymentOrder)
	mux.HandleFunc("/api/user_onboardings", s.createOnboarding)
	mux.HandleFunc("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ping":"pong"}`)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Client returns a treasury client pointed at the fake platform.
func (s *Server) Client(t testing.TB) *treasury.Client {
	t.Helper()
	c, err := treasury.New(treasury.Config{BaseURL: s.URL, OrganizationID: "org", APIKey: "key", Timeout: 2 * time.Second, PageSize: s.pageSize})
	if err != nil {
		t.Fatalf("treasury client: %v", err)
	}
	return c
}

// FailPaymentOrders makes every payment order creation answer with status and message.
func (s *Server) FailPaymentOrders(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderFailure = &failure{status: status, message: message}
}

// FailOnboardings answers the next onboarding requests with the given statuses, in order.
func (s *Server) FailOnboardings(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onboardFailures = append(s.onboardFailures, statuses...)
}

// PaymentOrders returns every payment order request received.
func (s *Server) PaymentOrders() []treasury.PaymentOrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]treasury.PaymentOrderRequest(nil), s.orders...)
}

// Onboardings returns every onboarding request accepted.
func (s *Server) Onboardings() []treasury.OnboardingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]treasury.OnboardingRequest(nil), s.onboardings...)
}

// ListQueries returns the raw query strings of every account list request.
func (s *Server) ListQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.listQueries...)
}

// OnboardingCalled receives a value for every onboarding request, successful or not.
func (s *Server) OnboardingCalled() <-chan struct{} { return s.onboardingCalled }

func (s *Server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == treasury.BasicAuth("org", "key")
}

func (s *Server) listHandler(accounts func() []treasury.Account) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.mu.Lock()
		s.listQueries = append(s.listQueries, r.URL.Path+"?"+r.URL.RawQuery)
		all := accounts()
		s.mu.Unlock()

		filter := r.URL.Query().Get("payment_type")
		matching := make([]treasury.Account, 0, len(all))
		for _, a := range all {
			if filter == "" || supports(a, filter) {
				matching = append(matching, a)
			}
		}

		start := 0
		if cursor := r.URL.Query().Get("after_cursor"); cursor != "" {
			start, _ = strconv.Atoi(cursor)
		}
		end := start + s.pageSize
		if end >= len(matching) {
			end = len(matching)
		} else {
			w.Header().Set("X-After-Cursor", strconv.Itoa(end))
		}
		if start > end {
			start = end
		}
		_ = json.NewEncoder(w).Encode(matching[start:end])
	}
}

func (s *Server) createPaymentOrder(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req treasury.PaymentOrderRequest
	body, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	fail := s.orderFailure
	if fail == nil {
		s.orders = append(s.orders, req)
	}
	n := len(s.orders)
	s.mu.Unlock()

	if fail != nil {
		writeError(w, fail.status, fail.message)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(treasury.PaymentOrder{
		ID:                   fmt.Sprintf("po_%d", n),
		Type:                 req.Type,
		Amount:               req.Amount,
		Direction:            req.Direction,
		Currency:             req.Currency,
		Status:               "approved",
		OriginatingAccountID: req.OriginatingAccountID,
		ReceivingAccountID:   req.ReceivingAccountID,
		CreatedAt:            time.Now().UTC(),
	})
}

func (s *Server) createOnboarding(w http.ResponseWriter, r *http.Request) {
	defer func() {
		select {
		case s.onboardingCalled <- struct{}{}:
		default:
		}
	}()
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	status := 0
	if len(s.onboardFailures) > 0 {
		status = s.onboardFailures[0]
		s.onboardFailures = s.onboardFailures[1:]
	}
	s.mu.Unlock()
	if status != 0 {
		writeError(w, status, http.StatusText(status))
		return
	}

	var req treasury.OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	s.onboardings = append(s.onboardings, req)
	n := len(s.onboardings)
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"id":"uo_%d","status":"processing"}`, n)
}

func supports(a treasury.Account, paymentType string) bool {
	for _, rd := range a.RoutingDetails {
		if rd.PaymentType == paymentType {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": map[string]string{"code": "error", "message": message},
	})
}
