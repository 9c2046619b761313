package checkout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/checkout"
	"github.com/frahmantamala/ngo-donations/internal/transport"
)

var _ = Describe("Handler", func() {
	var (
		orders    *MockOrderCreator
		collector *MockCollector
		sessions  *checkout.Sessions
		router    chi.Router
	)

	body := `{"name":"Asha Devi","email":"asha@example.com","phone":"9999999999","amount":1000,"type":"one-time"}`

	do := func(method, path, session, payload string) (*httptest.ResponseRecorder, checkout.View) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		if session != "" {
			req.Header.Set(checkout.SessionHeader, session)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var view checkout.View
		_ = json.Unmarshal(rec.Body.Bytes(), &view)
		return rec, view
	}

	BeforeEach(func() {
		orders = &MockOrderCreator{resp: &checkout.OrderResponse{
			OrderID:          "order_abc",
			GatewayKeyID:     "rzp_test_1",
			AmountMinorUnits: int64Ptr(100000),
		}}
		collector = &MockCollector{}
		sessions = checkout.NewSessions(func(notices checkout.Notifier) *checkout.Flow {
			return checkout.NewFlow(checkout.Config{MinAmount: 100, OrderTimeout: time.Second}, orders, collector, notices,
				checkout.WithLogger(silentLogger()))
		})
		handler := checkout.NewHandler(transport.NewBaseHandler(silentLogger()), sessions)
		router = chi.NewRouter()
		handler.RegisterRoutes(router)
	})

	It("opens a session and returns the widget config", func() {
		rec, view := do(http.MethodPost, "/donate", "", body)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(view.SessionID).NotTo(BeEmpty())
		Expect(rec.Header().Get(checkout.SessionHeader)).To(Equal(view.SessionID))
		Expect(view.Attempt.State).To(Equal(checkout.StateAwaitingPayment))
		Expect(view.Widget).NotTo(BeNil())
		Expect(view.Widget.Amount).To(Equal(int64(100000)))
		Expect(view.Widget.Currency).To(Equal("INR"))
		Expect(sessions.Len()).To(Equal(1))
	})

	It("answers 422 with field errors for invalid input", func() {
		rec, view := do(http.MethodPost, "/donate", "", `{"name":"","email":"a@example.com","phone":"1","amount":50}`)

		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(view.Attempt.State).To(Equal(checkout.StateFailed))
		Expect(view.Attempt.Err.Kind).To(Equal(checkout.KindValidation))
		Expect(view.Notification).NotTo(BeNil())
		Expect(view.Form.Amount).To(Equal(int64(50)))
		Expect(orders.Calls()).To(BeZero())
	})

	It("answers 409 for a second submit in the same session", func() {
		_, first := do(http.MethodPost, "/donate", "", body)

		rec, view := do(http.MethodPost, "/donate", first.SessionID, body)

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(view.Attempt.ID).To(Equal(first.Attempt.ID))
		Expect(orders.Calls()).To(Equal(1))
	})

	It("answers 502 when the backend fails", func() {
		orders.resp = nil
		orders.err = &backendError{detail: "Failed to create Razorpay order"}

		rec, view := do(http.MethodPost, "/donate", "", body)

		Expect(rec.Code).To(Equal(http.StatusBadGateway))
		Expect(view.Attempt.Err.Kind).To(Equal(checkout.KindOrderCreation))
		Expect(view.Form.DonorName).To(Equal("Asha Devi"))
	})

	It("rejects a malformed body", func() {
		rec, _ := do(http.MethodPost, "/donate", "", `{"name":`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(sessions.Len()).To(BeZero())
	})

	It("returns 404 for an unknown session", func() {
		rec, _ := do(http.MethodGet, "/donate", "missing", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("reports the outcome and resets the attempt", func() {
		_, first := do(http.MethodPost, "/donate", "", body)
		collector.Callbacks().Dismissed()

		rec, view := do(http.MethodGet, "/donate", first.SessionID, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(view.Attempt.State).To(Equal(checkout.StateCancelled))
		Expect(view.Notification.Message).To(Equal(checkout.MessagePaymentCancelled))
		Expect(view.Widget).To(BeNil())

		rec, view = do(http.MethodPost, "/donate/reset", first.SessionID, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(view.Attempt.State).To(Equal(checkout.StateIdle))
		Expect(view.Notification).To(BeNil())
	})

	It("refuses to reset while awaiting payment", func() {
		_, first := do(http.MethodPost, "/donate", "", body)

		rec, view := do(http.MethodPost, "/donate/reset", first.SessionID, "")

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(view.Attempt.State).To(Equal(checkout.StateAwaitingPayment))
	})
})

var _ = Describe("Sessions", func() {
	It("sweeps idle sessions but keeps those in flight", func() {
		orders := &MockOrderCreator{resp: &checkout.OrderResponse{
			OrderID: "order_1", GatewayKeyID: "rzp", AmountMinorUnits: int64Ptr(100000),
		}}
		collector := &MockCollector{}
		sessions := checkout.NewSessions(func(n checkout.Notifier) *checkout.Flow {
			return checkout.NewFlow(checkout.Config{}, orders, collector, n, checkout.WithLogger(silentLogger()))
		})

		idle := sessions.Open("")
		busy := sessions.Open("")
		_, err := busy.Flow.Submit(context.Background(), checkout.DonationRequest{
			DonorName: "A", DonorEmail: "a@example.com", DonorPhone: "1", Amount: 1000,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(sessions.Sweep(0)).To(Equal(1))
		_, ok := sessions.Get(idle.ID)
		Expect(ok).To(BeFalse())
		_, ok = sessions.Get(busy.ID)
		Expect(ok).To(BeTrue())
	})

	It("drops sessions stuck awaiting payment past the in-flight limit", func() {
		orders := &MockOrderCreator{resp: &checkout.OrderResponse{
			OrderID: "order_1", GatewayKeyID: "rzp", AmountMinorUnits: int64Ptr(100000),
		}}
		now := time.Now()
		clock := func() time.Time { return now }
		factory := func(n checkout.Notifier) *checkout.Flow {
			return checkout.NewFlow(checkout.Config{}, orders, &MockCollector{}, n, checkout.WithLogger(silentLogger()))
		}
		limited := checkout.NewSessions(factory, checkout.WithSessionClock(clock), checkout.WithInFlightLimit(time.Hour))
		unlimited := checkout.NewSessions(factory, checkout.WithSessionClock(clock))

		for _, sessions := range []*checkout.Sessions{limited, unlimited} {
			sess := sessions.Open("")
			_, err := sess.Flow.Submit(context.Background(), checkout.DonationRequest{
				DonorName: "A", DonorEmail: "a@example.com", DonorPhone: "1", Amount: 1000,
			})
			Expect(err).NotTo(HaveOccurred())
		}

		now = now.Add(45 * time.Minute)
		Expect(limited.Sweep(30 * time.Minute)).To(BeZero())

		now = now.Add(365 * 24 * time.Hour)
		Expect(limited.Sweep(30 * time.Minute)).To(Equal(1))
		Expect(limited.Len()).To(BeZero())
		Expect(unlimited.Sweep(30 * time.Minute)).To(BeZero())
	})

	It("reuses a known session id", func() {
		sessions := checkout.NewSessions(func(n checkout.Notifier) *checkout.Flow {
			return checkout.NewFlow(checkout.Config{}, &MockOrderCreator{}, &MockCollector{}, n)
		})
		first := sessions.Open("")
		Expect(sessions.Open(first.ID)).To(BeIdenticalTo(first))
		Expect(sessions.Open("unknown").ID).NotTo(Equal(first.ID))
	})
})
