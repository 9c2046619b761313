package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/auth"
	"github.com/frahmantamala/ngo-donations/internal/auth/postgres"
	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/user"
	userPostgres "github.com/frahmantamala/ngo-donations/internal/user/postgres"
)

var _ = Describe("Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db := openTestDB()
		seedAdmin(db, "admin@example.org", true)

		base := transport.NewBaseHandler(silentLogger())
		service := auth.NewService(postgres.NewRepository(db), auth.NewJWTTokenGenerator(testJWTSecret, time.Hour), silentLogger())
		authHandler := auth.NewHandler(base, service)
		userHandler := user.NewHandler(base, user.NewService(userPostgres.NewUserRepository(db), 4))

		router = chi.NewRouter()
		router.Post("/auth/login", authHandler.Login)
		router.Group(func(r chi.Router) {
			r.Use(authHandler.AuthMiddleware)
			r.Get("/auth/me", userHandler.GetCurrentUser)
			r.Get("/users", userHandler.ListUsers)
		})
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("logs in and reaches protected routes with the token", func() {
		rec := login(`{"email":"admin@example.org","password":"` + testPassword + `"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp auth.LoginResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.TokenType).To(Equal("bearer"))

		rec = get("/auth/me", resp.AccessToken)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"email":"admin@example.org"`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("password"))

		rec = get("/users", resp.AccessToken)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var users []user.AdminUser
		Expect(json.Unmarshal(rec.Body.Bytes(), &users)).To(Succeed())
		Expect(users).To(HaveLen(1))
	})

	It("answers 401 with detail for bad credentials", func() {
		rec := login(`{"email":"admin@example.org","password":"wrong"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring(`"detail":"Invalid email or password"`))
	})

	It("requires a bearer token", func() {
		Expect(get("/users", "").Code).To(Equal(http.StatusUnauthorized))
		Expect(get("/users", "garbage").Code).To(Equal(http.StatusUnauthorized))
	})
})
