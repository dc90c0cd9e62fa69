package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accesserrors "bazaar/contexts/identity-access/access-control/domain/errors"
	accesshttp "bazaar/contexts/identity-access/access-control/transport/http"
	"bazaar/internal/shared/chain"
)

func (s *Server) handleGrantArtistRole(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req accesshttp.GrantArtistRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.access.Handler.GrantArtistRoleHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasRole(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	account := r.PathValue("account")

	resp, err := s.access.Handler.HasRoleHandler(r.Context(), role, chain.Address(account))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrNotAdmin):
		writeAccessError(w, http.StatusForbidden, "not_admin", err.Error())
	case errors.Is(err, accesserrors.ErrNotArtist):
		writeAccessError(w, http.StatusForbidden, "not_artist", err.Error())
	case errors.Is(err, accesserrors.ErrInvalidAccount):
		writeAccessError(w, http.StatusBadRequest, "invalid_account", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
