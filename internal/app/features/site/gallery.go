package site

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/reelsite/internal/app/system/catalog"
	"github.com/dalemusser/reelsite/internal/app/system/mediaurl"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// cardVM is one tile in a gallery. EmbedKind and EmbedURL feed the
// in-page player; WatchURL is empty for built-in sample items.
type cardVM struct {
	Title       string
	Category    string
	Image       string
	Description string
	EmbedKind   string
	EmbedURL    string
	WatchURL    string
}

type filterVM struct {
	Label  string
	Href   string
	Active bool
}

type galleryData struct {
	viewdata.BaseVM
	Heading   string
	Kind      string
	Filters   []filterVM
	Selected  string
	Items     []cardVM
	IsSample  bool
	ShowEmpty bool
}

func categoryOf(it models.MediaItem) string { return it.Category }

// publishedOrDefault returns the published items of kind, or the built-in
// sample items when the store fails or has nothing published. usedDefault
// reports which happened.
func (h *Handler) publishedOrDefault(r *http.Request, kind models.MediaKind) (items []models.MediaItem, usedDefault bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	items, err := h.store(kind).ListPublished(ctx, h.listLimit)
	if err != nil {
		h.logger.Warn("gallery load failed; showing built-in items",
			zap.Error(err),
			zap.String("collection", kind.Collection()),
			zap.String("path", r.URL.Path))
		return viewdata.Dataset().Items(kind), true
	}
	if len(items) == 0 {
		return viewdata.Dataset().Items(kind), true
	}
	return items, false
}

func cards(r *http.Request, kind models.MediaKind, items []models.MediaItem) []cardVM {
	origin := network.Origin(r)
	out := make([]cardVM, len(items))
	for i, it := range items {
		e := mediaurl.Embed(it.VideoURL, origin)
		c := cardVM{
			Title:       it.Title,
			Category:    it.Category,
			Image:       mediaurl.DriveImageURL(it.Image),
			Description: it.Description,
			EmbedKind:   string(e.Kind),
			EmbedURL:    e.URL,
		}
		if !it.ID.IsZero() {
			c.WatchURL = "/watch/" + kind.Collection() + "/" + it.ID.Hex()
		}
		out[i] = c
	}
	return out
}

// Portfolio renders /portfolio?category=.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	h.gallery(w, r, models.MediaPortfolio, "Portfolio", "Selected Work")
}

// Videos renders /videos?category=.
func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	h.gallery(w, r, models.MediaVideos, "Videos", "Showcase Videos")
}

func (h *Handler) gallery(w http.ResponseWriter, r *http.Request, kind models.MediaKind, title, heading string) {
	items, usedDefault := h.publishedOrDefault(r, kind)

	categories := catalog.Categories(items, categoryOf)
	selected := catalog.Selected(normalize.Category(query.Get(r, "category")), categories)
	visible := catalog.Filter(items, selected, categoryOf)

	base := "/" + kind.Collection()
	filters := make([]filterVM, len(categories))
	for i, c := range categories {
		href := base
		if c != catalog.All {
			href = base + "?category=" + url.QueryEscape(c)
		}
		filters[i] = filterVM{Label: c, Href: href, Active: c == selected}
	}

	templates.Render(w, r, "site/gallery", galleryData{
		BaseVM:    viewdata.New(r, title),
		Heading:   heading,
		Kind:      kind.Collection(),
		Filters:   filters,
		Selected:  selected,
		Items:     cards(r, kind, visible),
		IsSample:  usedDefault,
		ShowEmpty: len(visible) == 0,
	})
}
