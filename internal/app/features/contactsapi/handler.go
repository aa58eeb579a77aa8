// Package contactsapi serves the contact-lead JSON API: the public form
// submission and the admin inbox operations.
package contactsapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/reelsite/internal/app/features/errors"
	contactstore "github.com/dalemusser/reelsite/internal/app/store/contacts"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/auth"
	"github.com/dalemusser/reelsite/internal/app/system/contactform"
	"github.com/dalemusser/reelsite/internal/app/system/inputval"
	"github.com/dalemusser/reelsite/internal/app/system/jsonutil"
	"github.com/dalemusser/reelsite/internal/app/system/network"
	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves /api/contacts.
type Handler struct {
	store     *contactstore.Store
	audit     *auditlog.Logger
	errLog    *errorsfeature.ErrorLogger
	logger    *zap.Logger
	listLimit int64
	notifier  contactform.Notifier
}

// NewHandler creates a contacts API handler. listLimit caps List results;
// zero or less uses the store default.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, listLimit int64, logger *zap.Logger) *Handler {
	return &Handler{
		store:     contactstore.New(db),
		audit:     audit,
		errLog:    errLog,
		logger:    logger,
		listLimit: listLimit,
	}
}

// SetNotifier registers n to hear about new submissions.
func (h *Handler) SetNotifier(n contactform.Notifier) {
	h.notifier = n
}

// submitted is the data returned for a new submission.
type submitted struct {
	ID          primitive.ObjectID `json:"id"`
	Email       string             `json:"email"`
	SubmittedAt time.Time          `json:"submittedAt"`
}

// Submit handles POST /api/contacts.
//
// Request body:
//
//	{"name": "...", "email": "...", "projectType": "wedding", "budget": "500-1000", "message": "..."}
//
// Response (201 Created):
//
//	{"success": true, "message": "Contact form submitted successfully",
//	 "data": {"id": "...", "email": "...", "submittedAt": "..."}}
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in contactform.Input
	if err := jsonutil.Decode(r, &in); err != nil && !errors.Is(err, jsonutil.ErrEmptyBody) {
		jsonutil.BadRequest(w, "Invalid JSON body")
		return
	}

	clean, msg, ok := contactform.Check(in)
	if !ok {
		jsonutil.BadRequest(w, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	c, err := h.store.Create(ctx, clean.StoreInput(network.GetClientIP(r), r.UserAgent()))
	if err != nil {
		h.errLog.Log(r, "contact insert failed", err)
		jsonutil.InternalError(w, "Error submitting contact form")
		return
	}

	h.logger.Info("contact submitted",
		zap.String("contact_id", c.ID.Hex()),
		zap.String("project_type", c.ProjectType),
		zap.String("budget", c.Budget))
	if h.notifier != nil {
		h.notifier.NotifyInquiry(c)
	}

	jsonutil.Created(w, "Contact form submitted successfully", submitted{
		ID:          c.ID,
		Email:       c.Email,
		SubmittedAt: c.CreatedAt,
	})
}

// List handles GET /api/contacts?status=&projectType=&sort=asc|desc.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := contactstore.ListFilter{
		Status:      normalize.Status(q.Get("status")),
		ProjectType: normalize.ProjectType(q.Get("projectType")),
		Ascending:   normalize.SortOrder(q.Get("sort")) == "asc",
		Limit:       h.listLimit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	contacts, err := h.store.List(ctx, f)
	if err != nil {
		h.errLog.Log(r, "contact list failed", err)
		jsonutil.InternalError(w, "Error fetching contacts")
		return
	}
	jsonutil.List(w, contacts, len(contacts))
}

// Get handles GET /api/contacts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
	defer cancel()

	c, err := h.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contactstore.ErrNotFound) {
			jsonutil.NotFound(w, "Contact not found")
			return
		}
		h.errLog.Log(r, "contact fetch failed", err)
		jsonutil.InternalError(w, "Error fetching contact")
		return
	}
	jsonutil.OK(w, c)
}

type statusInput struct {
	Status string `json:"status" validate:"required,contactstatus" label:"Status"`
}

// UpdateStatus handles PATCH /api/contacts/{id} with body {"status": "..."}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}

	var in statusInput
	if err := jsonutil.Decode(r, &in); err != nil && !errors.Is(err, jsonutil.ErrEmptyBody) {
		jsonutil.BadRequest(w, "Invalid JSON body")
		return
	}
	in.Status = normalize.Status(in.Status)
	if in.Status == "" {
		jsonutil.BadRequest(w, "Please provide a status")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.BadRequest(w, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	before, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, err, "Error updating contact")
		return
	}
	c, err := h.store.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		h.writeStoreError(w, r, err, "Error updating contact")
		return
	}

	h.audit.ContactStatusChanged(ctx, r, actorID(r), id, before.Status, c.Status)
	jsonutil.JSON(w, http.StatusOK, jsonutil.Envelope{
		Success: true,
		Message: "Contact status updated",
		Data:    c,
	})
}

// Delete handles DELETE /api/contacts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Write())
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.writeStoreError(w, r, err, "Error deleting contact")
		return
	}
	h.audit.ContactDeleted(ctx, r, actorID(r), id)
	jsonutil.Message(w, http.StatusOK, "Contact deleted successfully")
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, contactstore.ErrNotFound):
		jsonutil.NotFound(w, "Contact not found")
	case errors.Is(err, contactstore.ErrBadStatus):
		jsonutil.BadRequest(w, "Please provide a valid status")
	default:
		h.errLog.Log(r, "contact store error", err)
		jsonutil.InternalError(w, msg)
	}
}

// contactID parses the {id} URL parameter. A malformed ID cannot name a
// stored contact, so it is answered as not found.
func contactID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "Contact not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

func actorID(r *http.Request) primitive.ObjectID {
	if u, ok := auth.CurrentUser(r); ok {
		return u.UserID()
	}
	return primitive.NilObjectID
}
