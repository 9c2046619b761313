package newsletter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/newsletter"
	"github.com/frahmantamala/ngo-donations/internal/newsletter/postgres"
	"github.com/frahmantamala/ngo-donations/internal/transport"
)

var _ = Describe("Handler", func() {
	var router *chi.Mux

	serve := func(method, path, body string) (*httptest.ResponseRecorder, []byte) {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec, rec.Body.Bytes()
	}

	BeforeEach(func() {
		service := newsletter.NewService(postgres.NewNewsletterRepository(openTestDB()), silentLogger())
		handler := newsletter.NewHandler(transport.NewBaseHandler(silentLogger()), service)

		router = chi.NewRouter()
		router.Post("/newsletter", handler.Subscribe)
		router.Post("/newsletter/unsubscribe", handler.UnsubscribeByEmail)
		router.Get("/newsletter", handler.ListSubscribers)
		router.Get("/newsletter/stats", handler.GetStats)
		router.Delete("/newsletter/{id}", handler.DeleteSubscriber)
	})

	It("runs a subscriber through its lifecycle", func() {
		rec, raw := serve(http.MethodPost, "/newsletter", `{"email":"meera@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created newsletter.Subscriber
		Expect(json.Unmarshal(raw, &created)).To(Succeed())

		rec, _ = serve(http.MethodPost, "/newsletter", `{"email":"meera@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec, raw = serve(http.MethodPost, "/newsletter/unsubscribe?email=meera@example.com", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(raw).To(MatchJSON(`{"message":"Unsubscribed successfully"}`))

		rec, raw = serve(http.MethodGet, "/newsletter?status=unsubscribed", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var listed []newsletter.Subscriber
		Expect(json.Unmarshal(raw, &listed)).To(Succeed())
		Expect(listed).To(HaveLen(1))
		Expect(listed[0].ID).To(Equal(created.ID))

		rec, raw = serve(http.MethodGet, "/newsletter/stats", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(raw).To(MatchJSON(`{"total":1,"active":0,"unsubscribed":1}`))

		rec, _ = serve(http.MethodDelete, "/newsletter/"+created.ID, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("accepts the address in a JSON body when unsubscribing", func() {
		serve(http.MethodPost, "/newsletter", `{"email":"ravi@example.com"}`)

		rec, _ := serve(http.MethodPost, "/newsletter/unsubscribe", `{"email":"ravi@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("returns 404 for an unknown subscriber", func() {
		rec, raw := serve(http.MethodDelete, "/newsletter/missing", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(string(raw)).To(ContainSubstring("Subscriber not found"))
	})

	It("rejects a malformed address", func() {
		rec, _ := serve(http.MethodPost, "/newsletter", `{"email":"nope"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
