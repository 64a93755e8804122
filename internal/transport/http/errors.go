package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidPublisher   = "invalid_publisher"
	codePublisherExists    = "publisher_already_exists"
	codePublisherInvalid   = "publisher_details_invalid"
	codeGameExists         = "game_already_exists"
	codeGameInvalid        = "game_details_invalid"
	codeGameNotFound       = "game_not_found"
	codeOrderPlaced        = "order_already_placed"
	codeOrderNotFound      = "order_not_found"
	codeFundsUnavailable   = "funds_unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, Code: code})
}

// writeDomainError переводит доменную ошибку в HTTP-статус и код.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPublisher):
		writeError(w, http.StatusForbidden, codeInvalidPublisher, err.Error())
	case errors.Is(err, domain.ErrPublisherAlreadyExists):
		writeError(w, http.StatusConflict, codePublisherExists, err.Error())
	case errors.Is(err, domain.ErrPublisherDetailsInvalid):
		writeError(w, http.StatusBadRequest, codePublisherInvalid, err.Error())
	case errors.Is(err, domain.ErrGameAlreadyExists):
		writeError(w, http.StatusConflict, codeGameExists, err.Error())
	case errors.Is(err, domain.ErrGameDetailsInvalid):
		writeError(w, http.StatusBadRequest, codeGameInvalid, err.Error())
	case errors.Is(err, domain.ErrGameNotFound):
		writeError(w, http.StatusNotFound, codeGameNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderAlreadyPlaced):
		writeError(w, http.StatusConflict, codeOrderPlaced, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrFundsUnavailable):
		writeError(w, http.StatusConflict, codeFundsUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
