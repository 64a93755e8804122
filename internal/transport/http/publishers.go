package http

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// PublisherRegistrar — минимальный интерфейс регистрации издателя.
type PublisherRegistrar interface {
	Register(publisherID string, details domain.PublisherDetails) error
}

type registerPublisherRequest struct {
	PublisherID string `json:"publisher_id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
}

// HandleRegisterPublisher возвращает обработчик регистрации издателя.
func HandleRegisterPublisher(svc PublisherRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req registerPublisherRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.Register(req.PublisherID, domain.PublisherDetails{
			Name: req.Name,
			URL:  req.URL,
		}); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"publisher_id": req.PublisherID,
			"status":       "registered",
		})
	}
}
