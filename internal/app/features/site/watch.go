package site

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	"github.com/dalemusser/reelsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reelsite/internal/app/system/mediaurl"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type watchData struct {
	viewdata.BaseVM
	Item        models.MediaItem
	Embed       mediaurl.Embedding
	Description template.HTML
	BackHref    string
	BackText    string
}

// Watch renders /watch/{kind}/{id}: the stored item played in an iframe,
// a native <video>, or the unplayable notice.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseMediaKind(chi.URLParam(r, "kind"))
	if !ok {
		h.errs.NotFound(w, r)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	item, err := h.store(kind).GetByID(ctx, id)
	if err != nil || !item.Published {
		if err != nil && !errors.Is(err, mediastore.ErrNotFound) {
			h.logger.Warn("watch lookup failed", zap.Error(err), zap.String("id", id.Hex()))
		}
		h.errs.NotFound(w, r)
		return
	}

	back := "Back to portfolio"
	if kind == models.MediaVideos {
		back = "Back to videos"
	}
	templates.Render(w, r, "site/watch", watchData{
		BaseVM:      viewdata.New(r, item.Title),
		Item:        *item,
		Embed:       mediaurl.Embed(item.VideoURL, network.Origin(r)),
		Description: htmlsanitize.PrepareForDisplay(item.Description),
		BackHref:    "/" + kind.Collection(),
		BackText:    back,
	})
}
