package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/handler"
	"github.com/vonga-club/api/internal/payments"
)

// --- Mocks ---

type fakeCheckoutCreator struct {
	pending       *payments.PendingOrder
	trancheParams *payments.TrancheSessionParams
	session       payments.CheckoutSession
	err           error
}

func (f *fakeCheckoutCreator) NewDepositSession(_ context.Context, p payments.PendingOrder) (payments.CheckoutSession, error) {
	f.pending = &p
	if f.err != nil {
		return payments.CheckoutSession{}, f.err
	}
	return f.session, nil
}

func (f *fakeCheckoutCreator) NewTrancheSession(_ context.Context, arg payments.TrancheSessionParams) (payments.CheckoutSession, error) {
	f.trancheParams = &arg
	if f.err != nil {
		return payments.CheckoutSession{}, f.err
	}
	return f.session, nil
}

type mockCheckoutStore struct {
	orders        *mockOrderReadStore
	secondIntents map[string]string
	finalIntents  map[string]string
}

func newMockCheckoutStore() *mockCheckoutStore {
	return &mockCheckoutStore{
		orders:        newMockOrderReadStore(),
		secondIntents: make(map[string]string),
		finalIntents:  make(map[string]string),
	}
}

func (m *mockCheckoutStore) GetClubOrderByEmail(ctx context.Context, arg database.GetClubOrderByEmailParams) (database.ClubOrder, error) {
	return m.orders.GetClubOrderByEmail(ctx, arg)
}

func (m *mockCheckoutStore) SetSecondPaymentIntent(_ context.Context, arg database.SetSecondPaymentIntentParams) error {
	if _, ok := m.orders.orders[arg.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.secondIntents[arg.ID.String()] = arg.PaymentIntentID.String
	return nil
}

func (m *mockCheckoutStore) SetFinalPaymentIntent(_ context.Context, arg database.SetFinalPaymentIntentParams) error {
	if _, ok := m.orders.orders[arg.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.finalIntents[arg.ID.String()] = arg.PaymentIntentID.String
	return nil
}

// --- Helpers ---

func setupPaymentRouter(store *mockCheckoutStore, stripe *fakeCheckoutCreator) *chi.Mux {
	h := handler.NewPaymentHandler(store, stripe)
	r := chi.NewRouter()
	r.Post("/api/club/checkout", h.CreateDeposit)
	r.Post("/api/club/payments/second", h.CreateSecond)
	r.Post("/api/club/payments/final", h.CreateFinal)
	return r
}

func postPaymentJSON(t *testing.T, router *chi.Mux, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func depositRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"organization_name": "Thunder FC",
		"email":             "orders@thunderfc.example",
		"kit_type":          enum.KitTypeCore,
		"member_count":      50,
		"cart_items": []map[string]interface{}{
			{"gear_type": "Jersey", "size_run": map[string]int{"M": 30, "L": 20}},
		},
		"subtotal": "10000.00",
	}
}

// --- Deposit tests ---

func TestCreateDeposit(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{session: payments.CheckoutSession{ID: "cs_dep_1", URL: "https://checkout.stripe.com/c/pay/cs_dep_1"}}
	router := setupPaymentRouter(store, stripe)

	rr := postPaymentJSON(t, router, "/api/club/checkout", depositRequestBody())

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["session_id"] != "cs_dep_1" {
		t.Errorf("session_id: got %s", resp["session_id"])
	}
	if resp["checkout_url"] == "" {
		t.Error("expected a checkout_url")
	}

	if stripe.pending == nil {
		t.Fatal("expected a deposit session to be created")
	}
	p := stripe.pending
	if p.TotalUnits != 50 {
		t.Errorf("total units: got %d, want 50", p.TotalUnits)
	}
	if !p.DepositAmount.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("deposit: got %s", p.DepositAmount)
	}
	sum := p.DepositAmount.Add(p.SecondPayment).Add(p.FinalPayment)
	if !sum.Equal(p.Subtotal) {
		t.Errorf("tranches sum to %s, want %s", sum, p.Subtotal)
	}

	meta, err := p.ToMetadata()
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta[payments.MetaType] != enum.CheckoutTypeDeposit {
		t.Errorf("metadata type: got %s", meta[payments.MetaType])
	}
}

func TestCreateDepositValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"missing organization", func(b map[string]interface{}) { b["organization_name"] = "" }},
		{"missing email", func(b map[string]interface{}) { b["email"] = "" }},
		{"invalid kit type", func(b map[string]interface{}) { b["kit_type"] = "DELUXE" }},
		{"zero member count", func(b map[string]interface{}) { b["member_count"] = 0 }},
		{"empty cart", func(b map[string]interface{}) { b["cart_items"] = []map[string]interface{}{} }},
		{"zero subtotal", func(b map[string]interface{}) { b["subtotal"] = "0" }},
		{"negative subtotal", func(b map[string]interface{}) { b["subtotal"] = "-5.00" }},
		{"garbage subtotal", func(b map[string]interface{}) { b["subtotal"] = "lots" }},
		{"cart item without size run", func(b map[string]interface{}) {
			b["cart_items"] = []map[string]interface{}{{"gear_type": "Jersey", "size_run": map[string]int{}}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockCheckoutStore()
			stripe := &fakeCheckoutCreator{}
			router := setupPaymentRouter(store, stripe)

			body := depositRequestBody()
			tc.mutate(body)
			rr := postPaymentJSON(t, router, "/api/club/checkout", body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
			if stripe.pending != nil {
				t.Error("no session should be created for an invalid request")
			}
		})
	}
}

func TestCreateDepositOversizedCart(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{err: payments.ErrCartTooLarge}
	router := setupPaymentRouter(store, stripe)

	rr := postPaymentJSON(t, router, "/api/club/checkout", depositRequestBody())

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "too many cart items") {
		t.Errorf("body: got %s", rr.Body.String())
	}
}

// --- Tranche tests ---

func TestCreateSecondPayment(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{session: payments.CheckoutSession{ID: "cs_second_1", URL: "https://checkout.stripe.com/c/pay/cs_second_1"}}
	router := setupPaymentRouter(store, stripe)

	order := storedOrder(t, enum.PaymentStatusSecondPaymentDue)
	store.orders.orders[order.ID] = order

	rr := postPaymentJSON(t, router, "/api/club/payments/second", map[string]string{
		"order_id": order.ID.String(),
		"email":    order.Email,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	if stripe.trancheParams == nil {
		t.Fatal("expected a tranche session to be created")
	}
	if stripe.trancheParams.CheckoutType != enum.CheckoutTypeSecondPayment {
		t.Errorf("checkout type: got %s", stripe.trancheParams.CheckoutType)
	}
	if !stripe.trancheParams.Amount.Equal(decimal.RequireFromString("4000")) {
		t.Errorf("amount: got %s, want 4000", stripe.trancheParams.Amount)
	}

	if store.secondIntents[order.ID.String()] != "cs_second_1" {
		t.Errorf("session id not recorded: %v", store.secondIntents)
	}
}

func TestCreateFinalPayment(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{session: payments.CheckoutSession{ID: "cs_final_1", URL: "https://checkout.stripe.com/c/pay/cs_final_1"}}
	router := setupPaymentRouter(store, stripe)

	order := storedOrder(t, enum.PaymentStatusFinalPaymentDue)
	store.orders.orders[order.ID] = order

	rr := postPaymentJSON(t, router, "/api/club/payments/final", map[string]string{
		"order_id": order.ID.String(),
		"email":    order.Email,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	if stripe.trancheParams.CheckoutType != enum.CheckoutTypeFinalPayment {
		t.Errorf("checkout type: got %s", stripe.trancheParams.CheckoutType)
	}
	if !stripe.trancheParams.Amount.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("amount: got %s, want 5000", stripe.trancheParams.Amount)
	}
	if store.finalIntents[order.ID.String()] != "cs_final_1" {
		t.Errorf("session id not recorded: %v", store.finalIntents)
	}
}

func TestCreateTrancheWrongPaymentStatus(t *testing.T) {
	cases := []struct {
		name          string
		path          string
		paymentStatus string
		wantErr       string
	}{
		{"second before design approval", "/api/club/payments/second", enum.PaymentStatusDepositPaid, "second payment is not due"},
		{"second after already paid", "/api/club/payments/second", enum.PaymentStatusFinalPaymentDue, "second payment is not due"},
		{"final before production ready", "/api/club/payments/final", enum.PaymentStatusSecondPaymentDue, "final payment is not due"},
		{"final when fully paid", "/api/club/payments/final", enum.PaymentStatusFullyPaid, "final payment is not due"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMockCheckoutStore()
			stripe := &fakeCheckoutCreator{}
			router := setupPaymentRouter(store, stripe)

			order := storedOrder(t, tc.paymentStatus)
			store.orders.orders[order.ID] = order

			rr := postPaymentJSON(t, router, tc.path, map[string]string{
				"order_id": order.ID.String(),
				"email":    order.Email,
			})

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tc.wantErr) {
				t.Errorf("body: got %s, want %q", rr.Body.String(), tc.wantErr)
			}
			if stripe.trancheParams != nil {
				t.Error("no session should be created when the tranche is not due")
			}
		})
	}
}

func TestCreateTrancheUnknownOrder(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{}
	router := setupPaymentRouter(store, stripe)

	rr := postPaymentJSON(t, router, "/api/club/payments/second", map[string]string{
		"order_id": "11111111-2222-3333-4444-555555555555",
		"email":    "nobody@example.com",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestCreateTrancheBadRequest(t *testing.T) {
	store := newMockCheckoutStore()
	stripe := &fakeCheckoutCreator{}
	router := setupPaymentRouter(store, stripe)

	for name, body := range map[string]map[string]string{
		"missing order_id": {"email": "a@b.example"},
		"missing email":    {"order_id": "11111111-2222-3333-4444-555555555555"},
		"invalid order_id": {"order_id": "not-a-uuid", "email": "a@b.example"},
	} {
		t.Run(name, func(t *testing.T) {
			rr := postPaymentJSON(t, router, "/api/club/payments/second", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}
