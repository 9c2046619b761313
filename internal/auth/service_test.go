package auth_test

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/auth"
	"github.com/frahmantamala/ngo-donations/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/user"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		tokens = auth.NewJWTTokenGenerator(testJWTSecret, time.Hour)
		service = auth.NewService(postgres.NewRepository(db), tokens, silentLogger())
	})

	Describe("Authenticate", func() {
		It("issues a bearer token whose subject is the email", func() {
			admin := seedAdmin(db, "admin@example.org", true)

			resp, err := service.Authenticate(ctx, auth.LoginDTO{Email: " Admin@Example.org ", Password: testPassword})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.TokenType).To(Equal("bearer"))
			Expect(resp.ExpiresIn).To(Equal(int64(3600)))
			Expect(resp.User.ID).To(Equal(admin.ID))
			Expect(resp.User.Email).To(Equal("admin@example.org"))

			claims, err := tokens.ValidateToken(resp.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("admin@example.org"))
			Expect(claims.Role).To(Equal("admin"))

			var stored userDatamodel.AdminUser
			Expect(db.First(&stored, admin.ID).Error).To(Succeed())
			Expect(stored.LastLoginAt).NotTo(BeNil())
		})

		It("rejects a wrong password", func() {
			seedAdmin(db, "admin@example.org", true)
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@example.org", Password: "nope"})
			Expect(err).To(Equal(errors.ErrInvalidCredentials))
		})

		It("rejects an unknown email the same way", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ghost@example.org", Password: testPassword})
			Expect(err).To(Equal(errors.ErrInvalidCredentials))
		})

		It("forbids inactive accounts", func() {
			seedAdmin(db, "old@example.org", false)
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "old@example.org", Password: testPassword})
			Expect(err).To(Equal(errors.ErrUserInactive))
		})

		It("validates the payload", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "admin@example.org"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()[0].Field).To(Equal("password"))
		})
	})

	Describe("Authorize", func() {
		It("accepts a token for an active account", func() {
			seedAdmin(db, "admin@example.org", true)
			token, err := tokens.GenerateAccessToken("admin@example.org", "admin")
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.Authorize(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("admin@example.org"))
		})

		It("rejects tokens for accounts that no longer exist", func() {
			token, _ := tokens.GenerateAccessToken("gone@example.org", "admin")
			_, err := service.Authorize(ctx, token)
			Expect(err).To(Equal(errors.ErrInvalidToken))
		})

		It("reports expired tokens", func() {
			seedAdmin(db, "admin@example.org", true)
			expired := auth.NewJWTTokenGenerator(testJWTSecret, time.Hour)
			expired.AccessTokenTTL = -time.Minute
			token, _ := expired.GenerateAccessToken("admin@example.org", "admin")

			_, err := service.Authorize(ctx, token)
			Expect(err).To(Equal(errors.ErrTokenExpired))
		})

		It("rejects tokens signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("another-secret-of-sufficient-length", time.Hour)
			token, _ := other.GenerateAccessToken("admin@example.org", "admin")
			_, err := service.Authorize(ctx, token)
			Expect(err).To(Equal(errors.ErrInvalidToken))
		})

		It("rejects tokens using a non-HMAC algorithm", func() {
			unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "admin@example.org"})
			token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Authorize(ctx, token)
			Expect(err).To(Equal(errors.ErrInvalidToken))
		})
	})
})
