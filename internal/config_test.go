package internal_test

import (
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Env: "development",
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "https://rids.org, https://admin.rids.org",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 2, Source: "postgres://localhost/ngo"},
		Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	It("fills payment, token and scheduler defaults", func() {
		cfg := validConfig()

		Expect(cfg.Payment.Currency).To(Equal(internal.DefaultCurrency))
		Expect(cfg.Payment.MinAmount).To(BeEquivalentTo(internal.DefaultMinAmount))
		Expect(cfg.Payment.OrderTimeout).To(Equal(30 * time.Second))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(24 * time.Hour))
		Expect(cfg.Security.BCryptCost).To(Equal(12))
		Expect(cfg.RabbitMQ.Exchange).To(Equal("donation_events"))
		Expect(cfg.Scheduler.Cron).To(Equal("@every 15m"))
		Expect(cfg.Scheduler.PendingTTL).To(Equal(2 * time.Hour))
		Expect(cfg.Checkout.Port).To(Equal(8081))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("splits allowed origins", func() {
		cfg := validConfig()
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://rids.org", "https://admin.rids.org"}))

		cfg.Server.AllowedOrigins = ""
		Expect(cfg.Server.Origins()).To(Equal([]string{"*"}))
	})

	It("treats missing razorpay credentials as unconfigured, not invalid", func() {
		cfg := validConfig()
		Expect(cfg.Payment.Configured()).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())

		cfg.Payment.RazorpayKeyID = "rzp_test_1"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must be set together")))

		cfg.Payment.RazorpayKeySecret = "secret"
		Expect(cfg.Payment.Configured()).To(BeTrue())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("aggregates errors from every section", func() {
		cfg := validConfig()
		cfg.Security.JWTSecret = "short"
		cfg.Database.MaxIdleConns = 50
		cfg.Checkout.BackendURL = "ftp://example.org"

		err := cfg.Validate()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("security config"))
		Expect(err.Error()).To(ContainSubstring("database config"))
		Expect(err.Error()).To(ContainSubstring("checkout config"))
	})

	It("loads plain environment variables", func() {
		GinkgoT().Setenv("PORT", "9090")
		GinkgoT().Setenv("RAZORPAY_KEY_ID", "rzp_test_env")
		GinkgoT().Setenv("RAZORPAY_KEY_SECRET", "env_secret")
		GinkgoT().Setenv("CHECKOUT_VERIFY_PAYMENTS", "false")

		cfg := internal.LoadConfigFromEnv()

		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Payment.Configured()).To(BeTrue())
		Expect(cfg.Checkout.VerifyPayments).To(BeFalse())
		Expect(cfg.Payment.Currency).To(Equal("INR"))
	})
})

var _ = Describe("AppError", func() {
	It("renders as error plus detail", func() {
		status, body := internal.ErrDonationNotFound.ToHTTPResponse()

		Expect(status).To(Equal(http.StatusNotFound))
		resp, ok := body.(internal.Response)
		Expect(ok).To(BeTrue())
		Expect(resp.Error.Code).To(Equal(internal.ErrCodeDonationNotFound))
		Expect(resp.Detail).To(Equal("Donation not found"))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("lookup: %w", internal.ErrInvalidToken)

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("keeps the cause without changing the sentinel", func() {
		err := internal.ErrOrderCreationFailed.WithCause(fmt.Errorf("gateway timeout"))

		Expect(err.Unwrap()).To(MatchError("gateway timeout"))
		Expect(internal.ErrOrderCreationFailed.Cause).To(BeNil())
	})
})
