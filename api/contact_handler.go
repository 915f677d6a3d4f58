package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/models"
	"github.com/rpupo63/quickdialer/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	validator   *validation.Validator
	contactRepo *database.ContactRepo
	maxPageSize int
}

func newContactHandler(contactRepo *database.ContactRepo, validator *validation.Validator, maxPageSize int) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		validator:   validator,
		contactRepo: contactRepo,
		maxPageSize: maxPageSize,
	}
}

// listContacts returns one page of contacts matching q
// @Summary List contacts
// @Tags Contacts
// @Produce json
// @Param q query string false "Substring of name or contact"
// @Param pageIndex query int false "Zero based page"
// @Param pageSize query int false "Page size"
// @Success 201 {object} ContactListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contact [get]
func (h contactHandler) listContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		params := parseListParams(r, h.maxPageSize)

		page, err := h.contactRepo.List(r.Context(), params.Query, params.PageIndex, params.PageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "contacts", err))
			return
		}

		items := make([]ContactListItem, 0, len(page.Contacts))
		for _, c := range page.Contacts {
			items = append(items, newContactListItem(c))
		}

		h.responder.WriteJSON(w, http.StatusCreated, ContactListResponse{
			Contacts:  items,
			PageCount: page.PageCount,
		})
	}
}

// getContact returns one contact with all its tags
// @Summary Get contact
// @Tags Contacts
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 200 {object} DataResponse[models.Contact]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/contact/{contactID} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "contactID", "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contactRepo.FindByID(r.Context(), id)
		if err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFound("Contact"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "contact", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, DataResponse[*models.Contact]{Data: contact})
	}
}

// createContact creates a contact attached to existing tags
// @Summary Create contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact body ContactRequest true "Contact data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Contact not created!"
// @Router /api/contact [post]
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		contact, err := h.contactRepo.Create(r.Context(), req.Name, req.Contact, req.Tags)
		if err != nil {
			h.responder.WriteError(w, errs.NewNotCreated("Contact", err))
			return
		}

		h.logger.Debug().Str("contactID", contact.ID.String()).Msg("contact created")
		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgCreated})
	}
}

// updateContact overwrites name and contact and attaches the given tags
// @Summary Update contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Param contact body ContactRequest true "Contact data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Contact not found or Tag not found"
// @Router /api/contact/{contactID} [put]
func (h contactHandler) updateContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "contactID", "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req ContactRequest
		if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		_, err = h.contactRepo.UpdateByID(r.Context(), id, req.Name, req.Contact, req.Tags)
		switch {
		case err == nil:
		case errors.Is(err, database.ErrUnknownTag):
			apiErr := errs.NewNotFound("Tag")
			apiErr.Cause = err
			h.responder.WriteError(w, apiErr)
			return
		case errs.IsNotFound(err):
			h.responder.WriteError(w, errs.NewNotFound("Contact"))
			return
		default:
			h.responder.WriteError(w, wrapDatabaseError("update", "contact", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgUpdated})
	}
}

// deleteContact removes a contact and its tag links
// @Summary Delete contact
// @Tags Contacts
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/contact/{contactID} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "contactID", "Contact")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.contactRepo.DeleteByID(r.Context(), id); err != nil {
			if errs.IsNotFound(err) {
				h.responder.WriteError(w, errs.NewNotFound("Contact"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "contact", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgDeleted})
	}
}
