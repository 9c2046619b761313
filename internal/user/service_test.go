package user_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errors "github.com/frahmantamala/ngo-donations/internal"
	userDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/user"
	"github.com/frahmantamala/ngo-donations/internal/user"
	"github.com/frahmantamala/ngo-donations/internal/user/postgres"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		service *user.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.AdminUser{})).To(Succeed())
		service = user.NewService(postgres.NewUserRepository(db), bcrypt.MinCost)
	})

	It("creates the admin once", func() {
		created, err := service.EnsureAdmin(ctx, "Root@Example.org", "Root", "s3cret!", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		created, err = service.EnsureAdmin(ctx, "root@example.org", "Root", "other", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		u, err := service.GetByEmail(ctx, "ROOT@example.org")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Role).To(Equal(user.RoleAdmin))
		Expect(u.IsActive).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!"))).To(Succeed())

		users, err := service.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(1))
	})

	It("reports unknown users", func() {
		_, err := service.GetByEmail(ctx, "nobody@example.org")
		Expect(err).To(Equal(errors.ErrUserNotFound))
	})
})
