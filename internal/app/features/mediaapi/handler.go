// Package mediaapi serves the JSON API for the two media sections,
// portfolio and videos. One Handler is created per section; both share the
// same behavior and differ only in collection and labels.
package mediaapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	mediastore "github.com/dalemusser/reelsite/internal/app/store/media"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reelsite/internal/app/system/jsonutil"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgTitleCategory = "Title and category are required"
	msgVideoURL      = "Video URL is required"
)

// Handler serves one media section.
type Handler struct {
	store     *mediastore.Store
	kind      models.MediaKind
	audit     *auditlog.Logger
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
	listLimit int64
}

// NewHandler creates a handler for kind. listLimit caps list results; zero
// or less uses the store default.
func NewHandler(db *mongo.Database, kind models.MediaKind, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, listLimit int64, logger *zap.Logger) *Handler {
	return &Handler{
		store:     mediastore.New(db, kind),
		kind:      kind,
		audit:     audit,
		errLog:    errLog,
		logger:    logger,
		listLimit: listLimit,
	}
}

// itemInput is the request body for create and update. Pointer fields
// distinguish "omitted" from "set to empty" on update.
type itemInput struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	Published   *bool   `json:"published"`
}

func blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cleanDescription(p *string) *string {
	if p == nil {
		return nil
	}
	s := htmlsanitize.StripTags(*p)
	return &s
}

// ListPublished handles GET /. Only published items are returned.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	items, err := h.store.ListPublished(ctx, h.listLimit)
	if err != nil {
		h.errLog.LogWithFields(r, "media list failed", err, zap.String("collection", h.kind.Collection()))
		jsonutil.InternalError(w, "Error fetching "+h.kind.Collection())
		return
	}
	jsonutil.List(w, items, len(items))
}

// ListAll handles GET /all/list?q=.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	items, err := h.store.Search(ctx, q, h.listLimit)
	if err != nil {
		h.errLog.LogWithFields(r, "media list all failed", err,
			zap.String("collection", h.kind.Collection()), zap.String("q", q))
		jsonutil.InternalError(w, "Error fetching "+h.kind.Collection())
		return
	}
	jsonutil.List(w, items, len(items))
}

// Get handles GET /{id}. Anonymous callers cannot see unpublished items.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	item, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if !item.Published && !isAdmin(r) {
		h.notFound(w)
		return
	}
	jsonutil.OK(w, item)
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in itemInput
	if err := jsonutil.Decode(r, &in); err != nil && !errors.Is(err, jsonutil.ErrEmptyBody) {
		jsonutil.BadRequest(w, "Invalid JSON body")
		return
	}
	if blank(in.Title) || blank(in.Category) {
		jsonutil.BadRequest(w, msgTitleCategory)
		return
	}
	if blank(in.VideoURL) {
		jsonutil.BadRequest(w, msgVideoURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	item, err := h.store.Create(ctx, mediastore.CreateInput{
		Title:       *in.Title,
		Category:    *in.Category,
		Image:       deref(in.Image),
		Description: deref(cleanDescription(in.Description)),
		VideoURL:    *in.VideoURL,
		Published:   in.Published,
	})
	if err != nil {
		h.errLog.LogWithFields(r, "media insert failed", err, zap.String("collection", h.kind.Collection()))
		jsonutil.InternalError(w, "Error creating "+strings.ToLower(h.kind.Label()))
		return
	}

	h.audit.MediaCreated(ctx, r, actorID(r), item.ID, h.kind.Collection(), item.Title)
	jsonutil.Created(w, h.kind.Label()+" created", item)
}

// Update handles PUT /{id}. Only fields present in the body change;
// published keeps its stored value when omitted.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var in itemInput
	if err := jsonutil.Decode(r, &in); err != nil && !errors.Is(err, jsonutil.ErrEmptyBody) {
		jsonutil.BadRequest(w, "Invalid JSON body")
		return
	}
	if (in.Title != nil && blank(in.Title)) || (in.Category != nil && blank(in.Category)) {
		jsonutil.BadRequest(w, msgTitleCategory)
		return
	}
	if in.VideoURL != nil && blank(in.VideoURL) {
		jsonutil.BadRequest(w, msgVideoURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	item, err := h.store.Update(ctx, id, mediastore.UpdateInput{
		Title:       in.Title,
		Category:    in.Category,
		Image:       in.Image,
		Description: cleanDescription(in.Description),
		VideoURL:    in.VideoURL,
		Published:   in.Published,
	})
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.audit.MediaUpdated(ctx, r, actorID(r), item.ID, h.kind.Collection(), item.Title)
	jsonutil.JSON(w, http.StatusOK, jsonutil.Envelope{
		Success: true,
		Message: h.kind.Label() + " updated",
		Data:    item,
	})
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	item, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.audit.MediaDeleted(ctx, r, actorID(r), id, h.kind.Collection(), item.Title)
	jsonutil.Message(w, http.StatusOK, h.kind.Label()+" deleted")
}

func (h *Handler) notFound(w http.ResponseWriter) {
	jsonutil.NotFound(w, h.kind.Label()+" not found")
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, mediastore.ErrNotFound) {
		h.notFound(w)
		return
	}
	h.errLog.LogWithFields(r, "media store error", err, zap.String("collection", h.kind.Collection()))
	jsonutil.InternalError(w, "Server error")
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w)
		return primitive.NilObjectID, false
	}
	return id, true
}

func isAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && normalize.Role(u.Role) == models.RoleAdmin
}

func actorID(r *http.Request) primitive.ObjectID {
	if u, ok := auth.CurrentUser(r); ok {
		return u.UserID()
	}
	return primitive.NilObjectID
}
