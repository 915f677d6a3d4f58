package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/validation"
)

const maxBodyBytes = 1 << 20

// listParams are the q, pageIndex and pageSize query parameters.
type listParams struct {
	Query     string
	PageIndex int
	PageSize  int
}

// parseListParams never fails: a bad pageIndex becomes 0 and a bad pageSize
// becomes the default, capped at maxPageSize.
func parseListParams(r *http.Request, maxPageSize int) listParams {
	values := r.URL.Query()

	params := listParams{
		Query:     values.Get("q"),
		PageIndex: 0,
		PageSize:  database.DefaultPageSize,
	}

	if n, err := strconv.Atoi(values.Get("pageIndex")); err == nil && n >= 0 {
		params.PageIndex = n
	}
	if n, err := strconv.Atoi(values.Get("pageSize")); err == nil && n > 0 {
		params.PageSize = n
	}
	if maxPageSize > 0 && params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	return params
}

// parseID reads a uuid path parameter, reporting "<Entity> id is not valid".
func parseID(r *http.Request, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, errs.NewInvalidIDError(entity)
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return v.Validate(dst)
}
