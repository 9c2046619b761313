package volunteer_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
	"github.com/frahmantamala/ngo-donations/internal/volunteer/postgres"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *volunteer.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		service = volunteer.NewService(postgres.NewVolunteerRepository(openTestDB()), silentLogger())
	})

	apply := func(name string) *volunteer.Volunteer {
		v, err := service.Apply(ctx, volunteer.CreateVolunteerDTO{
			Name:      name,
			Email:     "Helper@Example.com",
			Phone:     "9876543210",
			City:      "Pune",
			Interests: "teaching",
		})
		Expect(err).NotTo(HaveOccurred())
		return v
	}

	It("accepts an application as new", func() {
		v := apply("Kiran")
		Expect(v.Status).To(Equal(volunteer.StatusNew))
		Expect(v.Email).To(Equal("helper@example.com"))
	})

	It("requires a phone number", func() {
		_, err := service.Apply(ctx, volunteer.CreateVolunteerDTO{Name: "Kiran", Email: "k@example.com"})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.FieldErrors()).To(HaveLen(1))
		Expect(appErr.FieldErrors()[0].Field).To(Equal("phone"))
	})

	It("moves applications between statuses and counts them", func() {
		a := apply("A")
		b := apply("B")
		apply("C")

		_, err := service.UpdateStatus(ctx, a.ID, volunteer.UpdateVolunteerDTO{Status: volunteer.StatusAccepted})
		Expect(err).NotTo(HaveOccurred())
		updated, err := service.UpdateStatus(ctx, b.ID, volunteer.UpdateVolunteerDTO{Status: volunteer.StatusRejected})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Status).To(Equal(volunteer.StatusRejected))

		stats, err := service.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*stats).To(Equal(volunteer.Stats{Total: 3, New: 1, Accepted: 1, Rejected: 1}))

		accepted, err := service.List(ctx, volunteer.StatusAccepted, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(accepted).To(HaveLen(1))
		Expect(accepted[0].ID).To(Equal(a.ID))
	})

	It("rejects an unknown status", func() {
		v := apply("A")
		_, err := service.UpdateStatus(ctx, v.ID, volunteer.UpdateVolunteerDTO{Status: "hired"})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.FieldErrors()[0].Code).To(Equal(string(errors.ErrCodeInvalidStatus)))
	})

	It("reports unknown applications", func() {
		_, err := service.UpdateStatus(ctx, "nope", volunteer.UpdateVolunteerDTO{Status: volunteer.StatusContacted})
		Expect(err).To(Equal(errors.ErrVolunteerNotFound))
		Expect(service.Delete(ctx, "nope")).To(Equal(errors.ErrVolunteerNotFound))
	})
})
