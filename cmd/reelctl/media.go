package main

import (
	"context"
	"fmt"

	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var renormalizeCmd = &cobra.Command{
	Use:   "renormalize",
	Short: "Rewrite stored video links into normalized form",
	Long: `renormalize walks the portfolio and videos collections and rewrites any
videoUrl that is not already normalized, such as Google Drive share links
saved before normalization was applied on write.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *mongo.Database, al *auditlog.Logger) error {
			changed, err := renormalizeAll(ctx, db, al)
			for _, kind := range models.MediaKinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d updated\n", kind.Collection(), changed[kind])
			}
			return err
		})
	},
}

// renormalizeAll renormalizes every media collection, stopping at the
// first error. The counts gathered so far are returned either way.
func renormalizeAll(ctx context.Context, db *mongo.Database, al *auditlog.Logger) (map[models.MediaKind]int, error) {
	changed := make(map[models.MediaKind]int)
	for _, kind := range models.MediaKinds() {
		n, err := mediastore.New(db, kind).Renormalize(ctx)
		changed[kind] = n
		if err != nil {
			return changed, fmt.Errorf("renormalize %s: %w", kind.Collection(), err)
		}
		if n > 0 {
			al.MediaRenormalized(ctx, kind.Collection(), n)
		}
		logger.Debug("renormalized collection", zap.String("collection", kind.Collection()), zap.Int("changed", n))
	}
	return changed, nil
}
