package http

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// OrderPlacer — минимальный интерфейс размещения заказа.
type OrderPlacer interface {
	PlaceOrder(buyerID, publisherID string, gameID domain.GameID) error
}

// OrderFulfiller — минимальный интерфейс исполнения заказа.
type OrderFulfiller interface {
	FulfillOrder(publisherID string, gameID domain.GameID, buyerID string) error
}

type placeOrderRequest struct {
	BuyerID     string `json:"buyer_id"`
	PublisherID string `json:"publisher_id"`
	GameID      uint16 `json:"game_id"`
}

type fulfillOrderRequest struct {
	PublisherID string `json:"publisher_id"`
	GameID      uint16 `json:"game_id"`
	BuyerID     string `json:"buyer_id"`
}

// HandlePlaceOrder возвращает обработчик размещения заказа.
func HandlePlaceOrder(svc OrderPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req placeOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.PlaceOrder(req.BuyerID, req.PublisherID, domain.GameID(req.GameID)); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "placed"})
	}
}

// HandleFulfillOrder возвращает обработчик исполнения заказа.
func HandleFulfillOrder(svc OrderFulfiller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req fulfillOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		if err := svc.FulfillOrder(req.PublisherID, domain.GameID(req.GameID), req.BuyerID); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "fulfilled"})
	}
}
