package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	catalogerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	cataloghttp "bazaar/contexts/catalog/collection-service/transport/http"
	accesserrors "bazaar/contexts/identity-access/access-control/domain/errors"
	"bazaar/internal/shared/chain"
)

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeCatalogError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req cataloghttp.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateCollectionHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUintPath(r, "collection_id")
	if !ok {
		writeCatalogError(w, http.StatusBadRequest, "invalid_collection_id", "collection_id must be an integer")
		return
	}

	resp, err := s.catalog.Handler.GetCollectionHandler(r.Context(), collectionID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeCatalogError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req cataloghttp.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.catalog.Handler.CreateItemHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseUintPath(r, "token_id")
	if !ok {
		writeCatalogError(w, http.StatusBadRequest, "invalid_token_id", "token_id must be an integer")
		return
	}

	resp, err := s.catalog.Handler.GetItemHandler(r.Context(), tokenID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrUnknownCollection):
		writeCatalogError(w, http.StatusNotFound, "collection_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrUnknownItem):
		writeCatalogError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrNotCollectionCreator):
		writeCatalogError(w, http.StatusForbidden, "not_collection_creator", err.Error())
	case errors.Is(err, catalogerrors.ErrInvalidName),
		errors.Is(err, catalogerrors.ErrInvalidURI):
		writeCatalogError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accesserrors.ErrNotArtist):
		writeCatalogError(w, http.StatusForbidden, "not_artist", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
