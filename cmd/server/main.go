package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"transit_admin/internal/config"
	"transit_admin/internal/controllers"
	"transit_admin/internal/logger"
	"transit_admin/internal/middleware"
	"transit_admin/internal/models"
	"transit_admin/internal/routes"
	"transit_admin/internal/services"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Transit network admin backend",
		Long:  "REST API for managing transit lines, routes, variants, timetables and stops.",
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newCreateUserCmd())
	return cmd
}

func openDB() (*gorm.DB, error) {
	config.LoadEnv()
	return config.OpenDB()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDB(db)

			if err := config.AutoMigrate(db); err != nil {
				return fmt.Errorf("auto-migration failed: %w", err)
			}

			r := routes.SetupRouter(routes.Controllers{
				Auth:      controllers.NewAuthController(db),
				Lines:     controllers.NewLineController(services.NewLineService(db)),
				LineTypes: controllers.NewLineTypeController(services.NewLineTypeService(db)),
				Stops:     controllers.NewStopController(services.NewStopService(db)),
			})

			handler := middleware.EnableCORS(r)

			addr := config.ServerAddr()
			logrus.WithField("addr", addr).Info("server running")
			return http.ListenAndServe(addr, handler)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDB(db)

			if err := config.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create-user <username> <password>",
		Short: "Create an API user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDB(db)

			hash, err := bcrypt.GenerateFromPassword([]byte(args[1]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := models.User{Username: args[0], Password: string(hash), Role: role}
			if err := db.Create(&user).Error; err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "editor", "user role (admin, editor)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
