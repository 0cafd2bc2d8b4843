package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cardvault/token-system/tokens-service/application"
	"github.com/go-chi/chi/v5"
)

// TokenHandlers contains card token HTTP handlers
type TokenHandlers struct {
	validateCardToken *application.ValidateCardToken
	registerCardToken *application.RegisterCardToken
	getCardToken      *application.GetCardToken
	revokeCardToken   *application.RevokeCardToken
}

// NewTokenHandlers creates new token handlers
func NewTokenHandlers(
	validateCardToken *application.ValidateCardToken,
	registerCardToken *application.RegisterCardToken,
	getCardToken *application.GetCardToken,
	revokeCardToken *application.RevokeCardToken,
) *TokenHandlers {
	return &TokenHandlers{
		validateCardToken: validateCardToken,
		registerCardToken: registerCardToken,
		getCardToken:      getCardToken,
		revokeCardToken:   revokeCardToken,
	}
}

// ValidateToken handles validation-only requests
func (h *TokenHandlers) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var cmd application.ValidateCardTokenCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.validateCardToken.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterToken handles token registration requests
func (h *TokenHandlers) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var cmd application.RegisterCardTokenCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.registerCardToken.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !response.Valid {
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(response)
}

// GetToken handles stored token retrieval requests
func (h *TokenHandlers) GetToken(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "id")
	if tokenID == "" {
		http.Error(w, "Token ID is required", http.StatusBadRequest)
		return
	}

	query := &application.GetCardTokenQuery{
		TokenID: tokenID,
	}

	response, err := h.getCardToken.Execute(r.Context(), query)
	if err != nil {
		if err.Error() == "token registration not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RevokeToken handles token revocation requests
func (h *TokenHandlers) RevokeToken(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "id")
	if tokenID == "" {
		http.Error(w, "Token ID is required", http.StatusBadRequest)
		return
	}

	cmd := &application.RevokeCardTokenCommand{
		TokenID: tokenID,
	}

	if err := h.revokeCardToken.Execute(r.Context(), cmd); err != nil {
		if err.Error() == "token registration not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers token routes
func (h *TokenHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/tokens", func(r chi.Router) {
		r.Post("/validate", h.ValidateToken)
		r.Post("/", h.RegisterToken)
		r.Get("/{id}", h.GetToken)
		r.Delete("/{id}", h.RevokeToken)
	})
}
