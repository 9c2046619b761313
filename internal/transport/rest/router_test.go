package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/ngo-donations/internal/auth"
	authPostgres "github.com/frahmantamala/ngo-donations/internal/auth/postgres"
	inquiryDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/inquiry"
	userDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/user"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
	inquiryPostgres "github.com/frahmantamala/ngo-donations/internal/inquiry/postgres"
	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/transport/rest"
	"github.com/frahmantamala/ngo-donations/internal/user"
	userPostgres "github.com/frahmantamala/ngo-donations/internal/user/postgres"
)

var _ = Describe("RegisterAllRoutes", func() {
	var router *chi.Mux

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(gdb.AutoMigrate(&userDatamodel.AdminUser{}, &inquiryDatamodel.Inquiry{})).To(Succeed())

		hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
		Expect(gdb.Create(&userDatamodel.AdminUser{Email: "admin@example.org", Name: "Admin", PasswordHash: string(hash), Role: "admin", IsActive: true}).Error).To(Succeed())

		base := transport.NewBaseHandler(lg)
		authService := auth.NewService(authPostgres.NewRepository(gdb), auth.NewJWTTokenGenerator("router-test-secret-0123456789abcdef", time.Hour), lg)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, sqlx.NewDb(sqlDB, "sqlite3"), rest.Handlers{
			Auth:    auth.NewHandler(base, authService),
			User:    user.NewHandler(base, user.NewService(userPostgres.NewUserRepository(gdb), bcrypt.MinCost)),
			Inquiry: inquiry.NewHandler(base, inquiry.NewService(inquiryPostgres.NewInquiryRepository(gdb), lg)),
		}, rest.Options{AllowedOrigins: []string{"https://ngo.example.org"}}, lg)
	})

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("answers ping and health with a trace id", func() {
		rec := do(http.MethodGet, "/api/ping", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())

		rec = do(http.MethodGet, "/api/health", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"healthy"`))
	})

	It("keeps public submissions open and admin listings closed", func() {
		rec := do(http.MethodPost, "/api/inquiries", `{"name":"A","email":"a@example.com","message":"hi"}`, "")
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/api/inquiries", "", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))

		rec = do(http.MethodPost, "/api/auth/login", `{"email":"admin@example.org","password":"pw"}`, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var login auth.LoginResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &login)).To(Succeed())

		rec = do(http.MethodGet, "/api/inquiries", "", login.AccessToken)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"email":"a@example.com"`))
	})

	It("answers CORS preflight for allowed origins", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/inquiries", nil)
		req.Header.Set("Origin", "https://ngo.example.org")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://ngo.example.org"))
	})

	It("does not mount handlers that were not provided", func() {
		rec := do(http.MethodPost, "/api/volunteers", `{}`, "")
		Expect(rec.Code).To(SatisfyAny(Equal(http.StatusNotFound), Equal(http.StatusMethodNotAllowed)))
	})
})
