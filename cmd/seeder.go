package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/ngo-donations/internal/user"
	userPostgres "github.com/frahmantamala/ngo-donations/internal/user/postgres"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var (
	seedEmail    string
	seedName     string
	seedPassword string
	seedRole     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin account",
	Long:  `Create the first admin dashboard account. Does nothing when an account with the same email exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadValidConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		svc := user.NewService(userPostgres.NewUserRepository(gormDB), cfg.Security.BCryptCost)
		created, err := svc.EnsureAdmin(context.Background(), seedEmail, seedName, seedPassword, seedRole)
		if err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}

		lg := logger.L()
		if !created {
			lg.Info("admin user already exists", "email", seedEmail)
			return
		}
		lg.Info("seeded admin user", "email", seedEmail, "role", seedRole)
		if seedPassword == defaultSeedPassword {
			lg.Warn("admin user was created with the default password, change it before going live")
		}
	},
}

const defaultSeedPassword = "admin123"

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@rids.org", "admin email")
	seedCmd.Flags().StringVar(&seedName, "name", "RIDS Admin", "admin display name")
	seedCmd.Flags().StringVar(&seedPassword, "password", defaultSeedPassword, "admin password")
	seedCmd.Flags().StringVar(&seedRole, "role", user.RoleAdmin, "admin role (admin or editor)")
}
