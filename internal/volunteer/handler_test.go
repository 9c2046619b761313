package volunteer_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
	"github.com/frahmantamala/ngo-donations/internal/volunteer/postgres"
)

var _ = Describe("Handler", func() {
	var router *chi.Mux

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		service := volunteer.NewService(postgres.NewVolunteerRepository(openTestDB()), silentLogger())
		handler := volunteer.NewHandler(transport.NewBaseHandler(silentLogger()), service)

		router = chi.NewRouter()
		router.Post("/volunteers", handler.Apply)
		router.Get("/volunteers", handler.ListVolunteers)
		router.Get("/volunteers/stats", handler.GetStats)
		router.Put("/volunteers/{id}", handler.UpdateVolunteer)
		router.Delete("/volunteers/{id}", handler.DeleteVolunteer)
	})

	It("creates and lists applications", func() {
		rec := serve(http.MethodPost, "/volunteers", `{"name":"Kiran","email":"k@example.com","phone":"9876543210"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = serve(http.MethodGet, "/volunteers?status=new", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"name":"Kiran"`))

		rec = serve(http.MethodGet, "/volunteers/stats", "")
		Expect(rec.Body.Bytes()).To(MatchJSON(`{"total":1,"new":1,"contacted":0,"accepted":0,"rejected":0}`))
	})

	It("returns 404 when deleting an unknown application", func() {
		rec := serve(http.MethodDelete, "/volunteers/missing", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("Volunteer application not found"))
	})

	It("rejects malformed JSON", func() {
		rec := serve(http.MethodPost, "/volunteers", `{`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
