// cmd/reelctl/main.go
//
// reelctl is the operator CLI for reelsite: provisioning admin accounts
// and maintenance over the stored media collections.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/reelsite/internal/app/bootstrap"
	"github.com/dalemusser/reelsite/internal/app/store/audit"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mongoURI string
	database string
	verbose  bool
	timeout  time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reelctl",
	Short: "Operator tools for reelsite",
	Long: `reelctl works directly against the reelsite MongoDB database.

Connection settings default to the same REELSITE_MONGO_URI and
REELSITE_MONGO_DATABASE variables the server reads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", envOr(bootstrap.EnvVarPrefix+"_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	rootCmd.PersistentFlags().StringVar(&database, "database", envOr(bootstrap.EnvVarPrefix+"_MONGO_DATABASE", "reelsite"), "MongoDB database name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")

	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(renormalizeCmd)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// withDB connects, runs fn, and disconnects.
func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *mongo.Database, al *auditlog.Logger) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := wafflemongo.ValidateURI(mongoURI); err != nil {
		return fmt.Errorf("invalid --mongo-uri: %w", err)
	}
	client, err := wafflemongo.ConnectWithPool(ctx, mongoURI, database, wafflemongo.DefaultPoolConfig())
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	db := client.Database(database)
	al := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  auditlog.DestAll,
		Admin: auditlog.DestAll,
	})
	return fn(ctx, db, al)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
