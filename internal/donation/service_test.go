package donation_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/ngo-donations/internal"
	donationDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/donation"
	"github.com/frahmantamala/ngo-donations/internal/core/events"
	"github.com/frahmantamala/ngo-donations/internal/donation"
	"github.com/frahmantamala/ngo-donations/internal/donation/postgres"
	"github.com/frahmantamala/ngo-donations/internal/paymentgateway"
)

var _ = Describe("Service", func() {
	var (
		db        *gorm.DB
		gateway   *MockGateway
		publisher *RecordingPublisher
		service   *donation.Service
		ctx       context.Context
		dto       donation.CreateOrderDTO
	)

	newService := func(gw donation.Gateway, limiter donation.RateLimiter) *donation.Service {
		return donation.NewService(postgres.NewDonationRepository(db), gw, limiter, publisher,
			donation.Config{Currency: "INR", MinAmount: 100}, silentLogger())
	}

	load := func(id string) *donationDatamodel.Donation {
		var row donationDatamodel.Donation
		Expect(db.First(&row, "id = ?", id).Error).To(Succeed())
		return &row
	}

	fieldCodes := func(err error) []string {
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		var codes []string
		for _, fe := range appErr.FieldErrors() {
			codes = append(codes, fe.Field+":"+fe.Code)
		}
		return codes
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		gateway = &MockGateway{orderID: "order_abc"}
		publisher = &RecordingPublisher{}
		service = newService(gateway, nil)
		dto = donation.CreateOrderDTO{
			Name:   "Asha Devi",
			Email:  "asha@example.com",
			Phone:  "9999999999",
			Amount: 1000,
			Type:   "one-time",
		}
	})

	Describe("CreateOrder", func() {
		It("persists a pending donation linked to the gateway order", func() {
			resp, err := service.CreateOrder(ctx, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal("created"))
			Expect(resp.OrderID).To(Equal("order_abc"))
			Expect(resp.Amount).To(Equal(int64(1000)))
			Expect(resp.AmountPaise).To(Equal(int64(100000)))
			Expect(resp.Currency).To(Equal("INR"))
			Expect(resp.RazorpayKeyID).To(Equal("rzp_test_1"))
			Expect(resp.Donor).To(Equal(donation.DonorInfo{Name: "Asha Devi", Email: "asha@example.com", Phone: "9999999999"}))

			row := load(resp.DonationID)
			Expect(row.Status).To(Equal(donation.StatusPending))
			Expect(*row.RazorpayOrderID).To(Equal("order_abc"))

			Expect(gateway.requests).To(HaveLen(1))
			Expect(gateway.requests[0].AmountPaise).To(Equal(int64(100000)))
			Expect(gateway.requests[0].Receipt).To(Equal(resp.DonationID))
			Expect(gateway.requests[0].Notes).To(HaveKeyWithValue("donation_type", "one-time"))

			Expect(publisher.Types()).To(Equal([]string{events.EventTypeDonationOrderCreated}))
		})

		It("keeps optional donor details", func() {
			pan := " abcde1234f "
			dto.PAN = &pan

			resp, err := service.CreateOrder(ctx, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(*load(resp.DonationID).PAN).To(Equal("ABCDE1234F"))
		})

		DescribeTable("rejects invalid input before touching the gateway",
			func(mutate func(*donation.CreateOrderDTO), code string) {
				mutate(&dto)

				_, err := service.CreateOrder(ctx, dto)

				Expect(fieldCodes(err)).To(ContainElement(code))
				Expect(gateway.requests).To(BeEmpty())
				var count int64
				db.Model(&donationDatamodel.Donation{}).Count(&count)
				Expect(count).To(BeZero())
			},
			Entry("missing name", func(d *donation.CreateOrderDTO) { d.Name = "" }, "name:VALIDATION_FAILED"),
			Entry("missing phone", func(d *donation.CreateOrderDTO) { d.Phone = " " }, "phone:VALIDATION_FAILED"),
			Entry("bad email", func(d *donation.CreateOrderDTO) { d.Email = "not-an-email" }, "email:INVALID_EMAIL"),
			Entry("amount below minimum", func(d *donation.CreateOrderDTO) { d.Amount = 50 }, "amount:AMOUNT_TOO_LOW"),
			Entry("zero amount", func(d *donation.CreateOrderDTO) { d.Amount = 0 }, "amount:INVALID_AMOUNT"),
			Entry("unknown type", func(d *donation.CreateOrderDTO) { d.Type = "weekly" }, "type:INVALID_DONATION_TYPE"),
		)

		It("answers 503 when the gateway is not configured", func() {
			service = newService(nil, nil)

			_, err := service.CreateOrder(ctx, dto)

			Expect(err).To(Equal(apperrors.ErrGatewayNotConfigured))
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})

		It("marks the donation failed when the gateway rejects the order", func() {
			gateway.err = errors.New("Authentication failed")

			_, err := service.CreateOrder(ctx, dto)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeOrderCreationFailed))
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(appErr.Message).To(Equal("Failed to create Razorpay order"))

			var rows []donationDatamodel.Donation
			Expect(db.Find(&rows).Error).To(Succeed())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Status).To(Equal(donation.StatusFailed))
			Expect(*rows[0].Error).To(ContainSubstring("Authentication failed"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeDonationFailed}))
		})

		It("rate limits repeated attempts", func() {
			limiter := &MockLimiter{allow: false}
			service = newService(gateway, limiter)

			_, err := service.CreateOrder(ctx, dto)

			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(http.StatusTooManyRequests))
			Expect(gateway.requests).To(BeEmpty())
		})

		It("allows the request when the limiter is unavailable", func() {
			service = newService(gateway, &MockLimiter{err: errors.New("redis down")})

			_, err := service.CreateOrder(ctx, dto)

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("VerifyPayment", func() {
		var orderID string

		BeforeEach(func() {
			resp, err := service.CreateOrder(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			orderID = resp.OrderID
		})

		It("completes the donation for a valid signature", func() {
			resp, err := service.VerifyPayment(ctx, donation.VerifyPaymentDTO{
				OrderID:   orderID,
				PaymentID: "pay_1",
				Signature: paymentgateway.Sign(testSecret, orderID, "pay_1"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(donation.StatusCompleted))

			row := load(resp.DonationID)
			Expect(row.Status).To(Equal(donation.StatusCompleted))
			Expect(*row.RazorpayPaymentID).To(Equal("pay_1"))
			Expect(row.PaidAt).NotTo(BeNil())
			Expect(publisher.Types()).To(ContainElement(events.EventTypeDonationCompleted))
		})

		It("is idempotent", func() {
			verify := donation.VerifyPaymentDTO{OrderID: orderID, PaymentID: "pay_1", Signature: paymentgateway.Sign(testSecret, orderID, "pay_1")}
			_, err := service.VerifyPayment(ctx, verify)
			Expect(err).NotTo(HaveOccurred())

			resp, err := service.VerifyPayment(ctx, verify)

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.PaymentID).To(Equal("pay_1"))
			completed := 0
			for _, t := range publisher.Types() {
				if t == events.EventTypeDonationCompleted {
					completed++
				}
			}
			Expect(completed).To(Equal(1))
		})

		It("reports the webhook's payment when the webhook completed it first", func() {
			repo := &racingRepository{RepositoryAPI: postgres.NewDonationRepository(db), paymentID: "pay_webhook"}
			racing := donation.NewService(repo, gateway, nil, publisher,
				donation.Config{Currency: "INR", MinAmount: 100}, silentLogger())

			resp, err := racing.VerifyPayment(ctx, donation.VerifyPaymentDTO{
				OrderID:   orderID,
				PaymentID: "pay_webhook",
				Signature: paymentgateway.Sign(testSecret, orderID, "pay_webhook"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(donation.StatusCompleted))
			Expect(resp.PaymentID).To(Equal("pay_webhook"))
			Expect(publisher.Types()).NotTo(ContainElement(events.EventTypeDonationCompleted))
		})

		It("rejects a forged signature", func() {
			_, err := service.VerifyPayment(ctx, donation.VerifyPaymentDTO{
				OrderID: orderID, PaymentID: "pay_1", Signature: paymentgateway.Sign("wrong", orderID, "pay_1"),
			})

			Expect(err).To(Equal(apperrors.ErrInvalidSignature))
			var row donationDatamodel.Donation
			Expect(db.First(&row, "razorpay_order_id = ?", orderID).Error).To(Succeed())
			Expect(row.Status).To(Equal(donation.StatusPending))
		})

		It("returns not found for an unknown order", func() {
			_, err := service.VerifyPayment(ctx, donation.VerifyPaymentDTO{OrderID: "order_zzz", PaymentID: "pay_1", Signature: "x"})

			Expect(err).To(Equal(apperrors.ErrOrderNotFound))
		})

		It("requires all three fields", func() {
			_, err := service.VerifyPayment(ctx, donation.VerifyPaymentDTO{OrderID: orderID})

			Expect(fieldCodes(err)).To(ContainElements("razorpay_payment_id:VALIDATION_FAILED", "razorpay_signature:VALIDATION_FAILED"))
		})
	})

	Describe("admin operations", func() {
		var id string

		BeforeEach(func() {
			resp, err := service.CreateOrder(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			id = resp.DonationID
		})

		It("gets, updates and deletes a donation", func() {
			d, err := service.Get(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Name).To(Equal("Asha Devi"))

			d, err = service.UpdateStatus(ctx, id, donation.UpdateStatusDTO{Status: donation.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(donation.StatusCompleted))

			Expect(service.Delete(ctx, id)).To(Succeed())
			_, err = service.Get(ctx, id)
			Expect(err).To(Equal(apperrors.ErrDonationNotFound))
		})

		It("rejects an unknown status", func() {
			_, err := service.UpdateStatus(ctx, id, donation.UpdateStatusDTO{Status: "refunded"})

			Expect(fieldCodes(err)).To(ContainElement("status:INVALID_STATUS"))
		})

		It("reports missing donations", func() {
			_, err := service.UpdateStatus(ctx, "missing", donation.UpdateStatusDTO{Status: donation.StatusFailed})
			Expect(err).To(Equal(apperrors.ErrDonationNotFound))
			Expect(service.Delete(ctx, "missing")).To(Equal(apperrors.ErrDonationNotFound))
		})

		It("filters the list", func() {
			monthly := dto
			monthly.Type = "monthly"
			gateway.orderID = "order_def"
			_, err := service.CreateOrder(ctx, monthly)
			Expect(err).NotTo(HaveOccurred())

			all, err := service.List(ctx, donation.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			onlyMonthly, err := service.List(ctx, donation.ListFilter{Type: "monthly"})
			Expect(err).NotTo(HaveOccurred())
			Expect(onlyMonthly).To(HaveLen(1))
			Expect(onlyMonthly[0].Type).To(Equal("monthly"))

			completed, err := service.List(ctx, donation.ListFilter{Status: donation.StatusCompleted})
			Expect(err).NotTo(HaveOccurred())
			Expect(completed).To(BeEmpty())
		})
	})

	Describe("ExpireStale", func() {
		It("abandons only pending donations older than the cutoff", func() {
			old, err := service.CreateOrder(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			gateway.orderID = "order_recent"
			recent, err := service.CreateOrder(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			gateway.orderID = "order_done"
			done, err := service.CreateOrder(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			threeHoursAgo := time.Now().Add(-3 * time.Hour)
			Expect(db.Model(&donationDatamodel.Donation{}).Where("id IN ?", []string{old.DonationID, done.DonationID}).
				Update("created_at", threeHoursAgo).Error).To(Succeed())
			Expect(db.Model(&donationDatamodel.Donation{}).Where("id = ?", done.DonationID).
				Update("status", donation.StatusCompleted).Error).To(Succeed())

			expired, err := service.ExpireStale(ctx, 2*time.Hour)

			Expect(err).NotTo(HaveOccurred())
			Expect(expired).To(Equal(1))
			Expect(load(old.DonationID).Status).To(Equal(donation.StatusAbandoned))
			Expect(load(recent.DonationID).Status).To(Equal(donation.StatusPending))
			Expect(load(done.DonationID).Status).To(Equal(donation.StatusCompleted))
			Expect(publisher.Types()).To(ContainElement(events.EventTypeDonationAbandoned))

			expired, err = service.ExpireStale(ctx, 2*time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(expired).To(BeZero())
		})
	})
})
