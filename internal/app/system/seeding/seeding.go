// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"errors"

	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	userstore "github.com/dalemusser/reelsite/internal/app/store/users"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/authutil"
	"github.com/dalemusser/reelsite/internal/app/system/sitedata"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options controls what SeedAll writes.
type Options struct {
	// AdminEmail and AdminPassword provision the first admin. Both empty
	// skips admin seeding. An existing account is never modified here;
	// use `reelctl create-admin` to rotate a password.
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// SampleMedia copies the dataset's default portfolio and videos into
	// empty collections.
	SampleMedia bool
	Data        *sitedata.Dataset

	Audit *auditlog.Logger
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger, opts Options) error {
	if err := seedAdmin(ctx, db, logger, opts); err != nil {
		return err
	}
	if opts.SampleMedia && opts.Data != nil {
		for _, kind := range []models.MediaKind{models.MediaPortfolio, models.MediaVideos} {
			if err := seedMedia(ctx, mediastore.New(db, kind), opts.Data.Items(kind), logger); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *mongo.Database, logger *zap.Logger, opts Options) error {
	users := userstore.New(db)

	if opts.AdminEmail == "" && opts.AdminPassword == "" {
		n, err := users.CountActiveAdmins(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			logger.Warn("no active admin and no seed_admin_email configured; admin API is unreachable until one is created with reelctl")
		}
		return nil
	}

	in, err := authutil.ValidateAdmin(authutil.AdminInput{
		FullName: opts.AdminName,
		Email:    opts.AdminEmail,
		Password: opts.AdminPassword,
	})
	if err != nil {
		return err
	}

	existing, err := users.GetByEmail(ctx, in.Email)
	if err == nil {
		logger.Debug("seed admin already exists", zap.String("email", existing.Email))
		return nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return err
	}

	u, err := users.Create(ctx, userstore.CreateInput{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Another instance won the race.
		return nil
	}
	if err != nil {
		return err
	}
	opts.Audit.AdminProvisioned(ctx, u.ID, u.Email, "config", true)
	logger.Info("seeded admin user", zap.String("email", u.Email))
	return nil
}

func seedMedia(ctx context.Context, store *mediastore.Store, items []models.MediaItem, logger *zap.Logger) error {
	total, _, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	for _, it := range items {
		if _, err := store.Create(ctx, mediastore.CreateInput{
			Title:       it.Title,
			Category:    it.Category,
			Image:       it.Image,
			Description: it.Description,
			VideoURL:    it.VideoURL,
		}); err != nil {
			return err
		}
	}
	logger.Info("seeded sample media",
		zap.String("collection", store.Kind().Collection()),
		zap.Int("count", len(items)))
	return nil
}
