package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/ngo-donations/internal/apiclient"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

var (
	adminAPI      string
	adminEmail    string
	adminPassword string
	adminToken    string
	adminStatus   string
	adminLimit    int
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Call the admin API from the command line",
	Long:  `Log in to the backend and inspect or update donations, inquiries and volunteer applications`,
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdminSession(cmd.Context(), func(ctx context.Context, c *apiclient.Client, sess *apiclient.Session) (interface{}, error) {
			return c.DashboardStats(ctx, sess)
		})
	},
}

var adminListCmd = &cobra.Command{
	Use:       "list [donations|inquiries|volunteers|users|newsletter]",
	Short:     "List a collection",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"donations", "inquiries", "volunteers", "users", "newsletter"},
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if adminStatus != "" {
			query.Set("status", adminStatus)
		}
		if adminLimit > 0 {
			query.Set("limit", fmt.Sprint(adminLimit))
		}
		return withAdminSession(cmd.Context(), func(ctx context.Context, c *apiclient.Client, sess *apiclient.Session) (interface{}, error) {
			var out []map[string]interface{}
			err := c.Resource(args[0]).List(ctx, sess, query, &out)
			return out, err
		})
	},
}

var adminSetStatusCmd = &cobra.Command{
	Use:   "set-status [donations|inquiries|volunteers] [id] [status]",
	Short: "Change the status of a record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdminSession(cmd.Context(), func(ctx context.Context, c *apiclient.Client, sess *apiclient.Session) (interface{}, error) {
			var out map[string]interface{}
			err := c.Resource(args[0]).Update(ctx, sess, args[1], map[string]string{"status": args[2]}, &out)
			return out, err
		})
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete [donations|inquiries|volunteers|newsletter] [id]",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdminSession(cmd.Context(), func(ctx context.Context, c *apiclient.Client, sess *apiclient.Session) (interface{}, error) {
			return map[string]string{"deleted": args[1]}, c.Resource(args[0]).Delete(ctx, sess, args[1])
		})
	},
}

type adminCall func(ctx context.Context, c *apiclient.Client, sess *apiclient.Session) (interface{}, error)

// withAdminSession logs in unless a token was given, runs call and prints
// its result as JSON.
func withAdminSession(parent context.Context, call adminCall) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	base := adminAPI
	if base == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		base = cfg.Checkout.BackendURL
	}
	client := apiclient.New(base, apiclient.WithLogger(logger.L()))

	sess := apiclient.NewSession(adminToken)
	if !sess.Authenticated() {
		if adminEmail == "" || adminPassword == "" {
			return fmt.Errorf("either --token or --email and --password are required")
		}
		if _, err := client.Login(ctx, sess, adminEmail, adminPassword); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	out, err := call(ctx, client, sess)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	adminCmd.PersistentFlags().StringVar(&adminAPI, "api", "", "backend API base URL (defaults to checkout.backend_url)")
	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "admin email")
	adminCmd.PersistentFlags().StringVar(&adminPassword, "password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	adminCmd.PersistentFlags().StringVar(&adminToken, "token", os.Getenv("ADMIN_TOKEN"), "bearer token from a previous login")

	adminListCmd.Flags().StringVar(&adminStatus, "status", "", "filter by status")
	adminListCmd.Flags().IntVar(&adminLimit, "limit", 0, "maximum number of records")

	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminSetStatusCmd)
	adminCmd.AddCommand(adminDeleteCmd)
}
