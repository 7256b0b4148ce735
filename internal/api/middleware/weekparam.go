// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mwerner-fin/divtracker-backend/internal/api/response"
	"github.com/mwerner-fin/divtracker-backend/internal/validation"
)

// ValidateSymbolMiddleware validates that the symbol URL parameter is present
// and is a well-formed ticker symbol. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{symbol}", func(r chi.Router) {
//	    r.Use(middleware.ValidateSymbolMiddleware)
//	    r.Get("/", handler.GetSymbol)
//	})
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateWeekMiddleware validates that the week URL parameter parses as an
// ISO week key in the path-safe "WW-YYYY" form. Returns 400 Bad Request if
// the parameter is missing or malformed.
func ValidateWeekMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		week := chi.URLParam(r, "week")

		if week == "" {
			response.RespondError(w, http.StatusBadRequest, "week parameter is required", "")
			return
		}

		if _, err := validation.ParseWeekParam(week); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid week format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
