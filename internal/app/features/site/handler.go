// Package site renders the public portfolio site: the static pages built
// from the site dataset, the portfolio and video galleries, the player
// page, the contact form, and the theme switch.
package site

import (
	"net/http"

	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	contactstore "github.com/dalemusser/reelsite/internal/app/store/contacts"
	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	"github.com/dalemusser/reelsite/internal/app/system/contactform"
	"github.com/dalemusser/reelsite/internal/app/system/prefs"
	"github.com/dalemusser/reelsite/internal/app/system/sitedata"
	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// featuredCount is how many portfolio items the home page shows.
const featuredCount = 3

// Handler serves the public pages.
type Handler struct {
	portfolio *mediastore.Store
	videos    *mediastore.Store
	contacts  *contactstore.Store
	prefs     *prefs.Manager
	errs      *errorsfeature.Handler
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
	listLimit int64
	notifier  contactform.Notifier
}

// NewHandler creates the public site handler. listLimit caps gallery
// queries; zero or less uses the store default.
func NewHandler(
	db *mongo.Database,
	prefsMgr *prefs.Manager,
	errs *errorsfeature.Handler,
	errLog *errorsfeature.ErrorLogger,
	listLimit int64,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		portfolio: mediastore.New(db, models.MediaPortfolio),
		videos:    mediastore.New(db, models.MediaVideos),
		contacts:  contactstore.New(db),
		prefs:     prefsMgr,
		errs:      errs,
		errLog:    errLog,
		logger:    logger,
		listLimit: listLimit,
	}
}

// SetNotifier registers n to hear about contact form submissions.
func (h *Handler) SetNotifier(n contactform.Notifier) {
	h.notifier = n
}

func (h *Handler) store(kind models.MediaKind) *mediastore.Store {
	if kind == models.MediaVideos {
		return h.videos
	}
	return h.portfolio
}

type homeData struct {
	viewdata.BaseVM
	Featured []cardVM
	Services []sitedata.Service
	Reasons  []sitedata.Reason
	Tools    []sitedata.Tool
}

// Home renders / with the newest published portfolio items.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ds := viewdata.Dataset()
	items, _ := h.publishedOrDefault(r, models.MediaPortfolio)
	if len(items) > featuredCount {
		items = items[:featuredCount]
	}

	templates.Render(w, r, "site/home", homeData{
		BaseVM:   viewdata.New(r, ds.Profile.Title),
		Featured: cards(r, models.MediaPortfolio, items),
		Services: ds.Services,
		Reasons:  ds.WhyChooseMe,
		Tools:    ds.Tools,
	})
}

type aboutData struct {
	viewdata.BaseVM
	Tools   []sitedata.Tool
	Reasons []sitedata.Reason
}

// About renders /about.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	ds := viewdata.Dataset()
	templates.Render(w, r, "site/about", aboutData{
		BaseVM:  viewdata.New(r, "About"),
		Tools:   ds.Tools,
		Reasons: ds.WhyChooseMe,
	})
}

type servicesData struct {
	viewdata.BaseVM
	Services []sitedata.Service
}

// Services renders /services.
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "site/services", servicesData{
		BaseVM:   viewdata.New(r, "Services"),
		Services: viewdata.Dataset().Services,
	})
}

type pricingData struct {
	viewdata.BaseVM
	Tiers []sitedata.Tier
}

// Pricing renders /pricing.
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "site/pricing", pricingData{
		BaseVM: viewdata.New(r, "Pricing"),
		Tiers:  viewdata.Dataset().Pricing,
	})
}
