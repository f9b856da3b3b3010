package server

// Route path constants
const (
	// Page routes
	RouteIndex     = "/{$}"
	RouteIndexHTML = "/index.html"
	RouteLogout    = "/logout"
	RouteRefresh   = "/refresh"
	RouteHealth    = "/health"

	// Backend route that redeems authorization codes and refresh tokens
	RouteTokenExchange = "/" + tokenExchangePath
)

const tokenExchangePath = "jwt-get"
