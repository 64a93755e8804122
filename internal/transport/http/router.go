package http

import "net/http"

// MarketAPI объединяет операции магазина, которые обслуживает HTTP API.
type MarketAPI interface {
	ListingAdder
	ListingGetter
	OrderPlacer
	OrderFulfiller
}

// NewRouter собирает маршруты API.
func NewRouter(market MarketAPI, publishers PublisherRegistrar) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/v1/publishers", HandleRegisterPublisher(publishers))
	mux.Handle("/v1/listings", HandleAddListing(market))
	mux.Handle("/v1/listings/", HandleGetListing(market))
	mux.Handle("/v1/orders", HandlePlaceOrder(market))
	mux.Handle("/v1/orders/fulfill", HandleFulfillOrder(market))
	return mux
}
