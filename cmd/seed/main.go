package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mindpulse/internal/app"
	"mindpulse/internal/config"
	"mindpulse/internal/logging"
)

// flags holds values shared by every subcommand
var flags = viper.New()

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Populate a MindPulse store with accounts and demo data.",
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create an admin account, or promote an existing one.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			user, err := SeedAdmin(cmd.Context(), a, AdminOptions{
				Email:    flags.GetString("email"),
				Password: flags.GetString("password"),
				FullName: flags.GetString("name"),
			})
			if err != nil {
				return err
			}
			cmd.Printf("admin ready: %s (%s)\n", user.Email, user.ID)
			return nil
		})
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create a demo user with a history of analyzed check-ins.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			rows, err := SeedDemo(cmd.Context(), a, DemoOptions{
				Email:    flags.GetString("email"),
				Password: flags.GetString("password"),
				Days:     flags.GetInt("days"),
				Seed:     flags.GetUint64("seed"),
				Now:      time.Now(),
			})
			if err != nil {
				return err
			}
			return PrintDemo(cmd.OutOrStdout(), rows)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file (env MINDPULSE_CONFIG)")
	_ = flags.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = flags.BindEnv("config", "MINDPULSE_CONFIG")

	adminCmd.Flags().String("email", "admin@mindpulse.local", "admin email")
	adminCmd.Flags().String("password", "", "admin password (min 8 characters)")
	adminCmd.Flags().String("name", "Administrator", "admin full name")
	_ = adminCmd.MarkFlagRequired("password")

	demoCmd.Flags().String("email", "demo@mindpulse.local", "demo user email")
	demoCmd.Flags().String("password", "demo-password", "demo user password")
	demoCmd.Flags().Int("days", 14, "number of days of check-ins to create")
	demoCmd.Flags().Uint64("seed", 42, "random seed for generated entries")

	// flags are bound when the subcommand runs so each reads its own set
	for _, c := range []*cobra.Command{adminCmd, demoCmd} {
		c.PreRunE = func(cmd *cobra.Command, _ []string) error {
			return flags.BindPFlags(cmd.Flags())
		}
	}
	rootCmd.AddCommand(adminCmd, demoCmd)
}

func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.Load(flags.GetString("config"))
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logging.New(cfg.Log))
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.Close(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("close: %w", err)
	}
	return runErr
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
