package mux

import (
	"errors"
	"net/http"

	"headsup-server/pkg/model"
)

type insufficientFundsResponse struct {
	errorResponse
	Balance int64 `json:"balance"`
	Ante    int64 `json:"ante"`
}

// writeError maps the domain errors onto HTTP responses
func writeError(w http.ResponseWriter, err error) {
	var fundsErr *model.InsufficientFundsError
	var userErr model.UserError

	switch {
	case errors.As(err, &fundsErr):
		writeJSON(w, http.StatusBadRequest, insufficientFundsResponse{
			errorResponse: errorResponse{
				Message:    fundsErr.Error(),
				StatusCode: http.StatusBadRequest,
			},
			Balance: fundsErr.Balance,
			Ante:    fundsErr.Ante,
		})
	case errors.Is(err, model.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, nil)
	case errors.Is(err, model.ErrInvalidState):
		writeJSONError(w, http.StatusConflict, err)
	case errors.Is(err, model.ErrDuplicateKey):
		writeJSONError(w, http.StatusBadRequest, errors.New("that value is already taken"))
	case errors.As(err, &userErr):
		writeJSONError(w, http.StatusBadRequest, userErr)
	default:
		writeJSONError(w, http.StatusInternalServerError, err)
	}
}

// writeDuplicateKeyError is writeError with a specific message for a duplicate key
func writeDuplicateKeyError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, model.ErrDuplicateKey) {
		writeJSONError(w, http.StatusBadRequest, errors.New(msg))
		return
	}

	writeError(w, err)
}
