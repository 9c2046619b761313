package inquiry_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
	"github.com/frahmantamala/ngo-donations/internal/inquiry/postgres"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *inquiry.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = inquiry.NewService(postgres.NewInquiryRepository(openTestDB()), silentLogger())
	})

	submit := func(name string) *inquiry.Inquiry {
		inq, err := service.Create(ctx, inquiry.CreateInquiryDTO{
			Name:    name,
			Email:   "reader@example.com",
			Subject: "Partnership",
			Message: "We would like to help.",
		})
		Expect(err).NotTo(HaveOccurred())
		return inq
	}

	Describe("Create", func() {
		It("stores a new inquiry", func() {
			inq := submit("  Ravi  ")
			Expect(inq.ID).NotTo(BeEmpty())
			Expect(inq.Name).To(Equal("Ravi"))
			Expect(inq.Status).To(Equal(inquiry.StatusNew))
		})

		It("rejects missing fields", func() {
			_, err := service.Create(ctx, inquiry.CreateInquiryDTO{Name: "Ravi", Email: "not-an-email"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			fields := appErr.FieldErrors()
			Expect(fields).To(HaveLen(2))
			Expect(fields[0].Field).To(Equal("email"))
			Expect(fields[1].Field).To(Equal("message"))
		})
	})

	Describe("List and Stats", func() {
		It("filters by status and counts each bucket", func() {
			first := submit("A")
			submit("B")
			third := submit("C")
			_, err := service.UpdateStatus(ctx, first.ID, inquiry.UpdateInquiryDTO{Status: inquiry.StatusReplied})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UpdateStatus(ctx, third.ID, inquiry.UpdateInquiryDTO{Status: inquiry.StatusClosed})
			Expect(err).NotTo(HaveOccurred())

			replied, err := service.List(ctx, inquiry.StatusReplied, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(replied).To(HaveLen(1))
			Expect(replied[0].ID).To(Equal(first.ID))

			all, err := service.List(ctx, "", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			stats, err := service.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stats).To(Equal(inquiry.Stats{Total: 3, New: 1, Replied: 1, Closed: 1}))
		})
	})

	Describe("UpdateStatus", func() {
		It("rejects unknown statuses", func() {
			inq := submit("A")
			_, err := service.UpdateStatus(ctx, inq.ID, inquiry.UpdateInquiryDTO{Status: "archived"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()[0].Code).To(Equal(string(errors.ErrCodeInvalidStatus)))
		})

		It("reports a missing inquiry", func() {
			_, err := service.UpdateStatus(ctx, "missing", inquiry.UpdateInquiryDTO{Status: inquiry.StatusClosed})
			Expect(err).To(Equal(errors.ErrInquiryNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the inquiry once", func() {
			inq := submit("A")
			Expect(service.Delete(ctx, inq.ID)).To(Succeed())
			Expect(service.Delete(ctx, inq.ID)).To(Equal(errors.ErrInquiryNotFound))
		})
	})
})
