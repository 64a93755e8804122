package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// ListingAdder — минимальный интерфейс публикации игры.
type ListingAdder interface {
	AddListing(publisherID string, gameID domain.GameID, details domain.GameDetails) error
}

// ListingGetter — минимальный интерфейс чтения листинга.
type ListingGetter interface {
	GetListing(publisherID string, gameID domain.GameID) (domain.GameDetails, error)
}

type addListingRequest struct {
	PublisherID string         `json:"publisher_id"`
	GameID      uint16         `json:"game_id"`
	Name        string         `json:"name"`
	Tags        []domain.TagID `json:"tags,omitempty"`
	PriceMinor  int64          `json:"price_minor"`
}

type listingResponse struct {
	PublisherID string         `json:"publisher_id"`
	GameID      uint16         `json:"game_id"`
	Name        string         `json:"name"`
	Tags        []domain.TagID `json:"tags,omitempty"`
	PriceMinor  int64          `json:"price_minor"`
}

// HandleAddListing возвращает обработчик публикации игры.
func HandleAddListing(svc ListingAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req addListingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		details := domain.GameDetails{
			Name:       req.Name,
			Tags:       req.Tags,
			PriceMinor: req.PriceMinor,
		}
		if err := svc.AddListing(req.PublisherID, domain.GameID(req.GameID), details); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(listingResponse{
			PublisherID: req.PublisherID,
			GameID:      req.GameID,
			Name:        req.Name,
			Tags:        req.Tags,
			PriceMinor:  req.PriceMinor,
		})
	}
}

// HandleGetListing возвращает обработчик чтения листинга по пути
// /v1/listings/{publisher_id}/{game_id}.
func HandleGetListing(svc ListingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		publisherID, gameID, ok := parseListingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		details, err := svc.GetListing(publisherID, gameID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listingResponse{
			PublisherID: publisherID,
			GameID:      uint16(gameID),
			Name:        details.Name,
			Tags:        details.Tags,
			PriceMinor:  details.PriceMinor,
		})
	}
}

func parseListingPath(path string) (string, domain.GameID, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", 0, false
	}
	if parts[0] != "v1" || parts[1] != "listings" || parts[2] == "" {
		return "", 0, false
	}
	id, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return "", 0, false
	}
	return parts[2], domain.GameID(id), true
}
