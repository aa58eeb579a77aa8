package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	userstore "github.com/dalemusser/reelsite/internal/app/store/users"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/authutil"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or reset the password of an existing one",
	Long: `create-admin provisions the admin who signs in to /api/admin.

If the email already exists the account's name and password are replaced and
the account is re-enabled. The password may be passed with --password or the
REELSITE_ADMIN_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("REELSITE_ADMIN_PASSWORD")
		}
		return withDB(cmd, func(ctx context.Context, db *mongo.Database, al *auditlog.Logger) error {
			u, created, err := provisionAdmin(ctx, db, al, authutil.AdminInput{
				FullName: adminName,
				Email:    adminEmail,
				Password: adminPassword,
			})
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			logger.Info("admin "+verb, zap.String("email", u.Email), zap.String("id", u.ID.Hex()))
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s: %s\n", verb, u.Email)
			return nil
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 8 characters")
	_ = createAdminCmd.MarkFlagRequired("email")
}

// provisionAdmin validates in and upserts the admin account.
func provisionAdmin(ctx context.Context, db *mongo.Database, al *auditlog.Logger, in authutil.AdminInput) (models.User, bool, error) {
	valid, err := authutil.ValidateAdmin(in)
	if err != nil {
		return models.User{}, false, err
	}

	u, created, err := userstore.New(db).UpsertAdmin(ctx, userstore.CreateInput{
		FullName:     valid.FullName,
		Email:        valid.Email,
		PasswordHash: valid.PasswordHash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, false, fmt.Errorf("admin %s was created concurrently; retry", valid.Email)
	}
	if err != nil {
		return models.User{}, false, err
	}
	al.AdminProvisioned(ctx, u.ID, u.Email, "cli", created)
	return u, created, nil
}
