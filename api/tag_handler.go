package api

import (
	"net/http"

	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/models"
	"github.com/rpupo63/quickdialer/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder   Responder
	logger      zerolog.Logger
	validator   *validation.Validator
	tagRepo     *database.TagRepo
	maxPageSize int
}

func newTagHandler(tagRepo *database.TagRepo, validator *validation.Validator, maxPageSize int) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		validator:   validator,
		tagRepo:     tagRepo,
		maxPageSize: maxPageSize,
	}
}

// listAllTags returns every tag with its contact count
// @Summary List tags with counts
// @Tags Tags
// @Produce json
// @Success 201 {object} DataResponse[[]models.TagSummary]
// @Failure 500 {object} ErrorResponse
// @Router /api/tags [get]
func (h tagHandler) listAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		tags, err := h.tagRepo.ListAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "tags", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, DataResponse[[]models.TagSummary]{Data: tags})
	}
}

// listTags returns one page of tags whose slug contains q
// @Summary List tags
// @Tags Tags
// @Produce json
// @Param q query string false "Substring of slug"
// @Param pageIndex query int false "Zero based page"
// @Param pageSize query int false "Page size"
// @Success 201 {object} TagListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/tag [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.responder.CheckContextTimeout(w, r) {
			return
		}

		params := parseListParams(r, h.maxPageSize)

		page, err := h.tagRepo.List(r.Context(), params.Query, params.PageIndex, params.PageSize)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "tags", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, TagListResponse{
			Tags:      page.Tags,
			PageCount: page.PageCount,
		})
	}
}

// createTag creates a tag
// @Summary Create tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body TagRequest true "Tag data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Tag not created!"
// @Router /api/tag [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TagRequest
		if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.tagRepo.Create(r.Context(), req.Slug, *req.Color); err != nil {
			h.responder.WriteError(w, errs.NewNotCreated("Tag", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgCreated})
	}
}

// updateTag sets the slug and color of a tag
// @Summary Update tag
// @Tags Tags
// @Accept json
// @Produce json
// @Param tagID path string true "Tag ID" format(uuid)
// @Param tag body TagRequest true "Tag data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Slug already taken"
// @Router /api/tag/{tagID} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "tagID", "Tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req TagRequest
		if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.tagRepo.UpdateByID(r.Context(), id, req.Slug, *req.Color); err != nil {
			switch {
			case errs.IsNotFound(err):
				h.responder.WriteError(w, errs.NewNotFound("Tag"))
			case errs.IsUniqueConstraintViolationError(err):
				h.responder.WriteError(w, errs.NewUniqueConstraintViolationError("tag", "slug", err))
			default:
				h.responder.WriteError(w, wrapDatabaseError("update", "tag", err))
			}
			return
		}

		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgUpdated})
	}
}

// deleteTag detaches a tag from every contact and deletes it
// @Summary Delete tag
// @Tags Tags
// @Produce json
// @Param tagID path string true "Tag ID" format(uuid)
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Transaction failed"
// @Router /api/tag/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "tagID", "Tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		detached, err := h.tagRepo.DeleteByID(r.Context(), id)
		if err != nil {
			switch {
			case errs.IsTransactionFailedError(err):
				h.responder.WriteError(w, errs.NewTransactionFailedError("delete tag", err))
			case errs.IsNotFound(err):
				h.responder.WriteError(w, errs.NewNotFound("Tag"))
			default:
				h.responder.WriteError(w, wrapDatabaseError("delete", "tag", err))
			}
			return
		}

		h.logger.Info().Str("tagID", id.String()).Int("detached", detached).Msg("tag deleted")
		h.responder.WriteJSON(w, http.StatusCreated, MessageResponse{Message: msgDeleted})
	}
}
