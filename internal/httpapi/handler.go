package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"homeflow/api/internal/auth"
	"homeflow/api/internal/store"
)

// ListingSearcher covers the filtered queries that bypass the cache.
type ListingSearcher interface {
	SearchNearby(ctx context.Context, lat, lon string) ([]json.RawMessage, error)
	SearchByPostalCode(ctx context.Context, postalCode string) ([]json.RawMessage, error)
}

// LatestListings is the cached default query.
type LatestListings interface {
	GetOrRefresh(ctx context.Context, limit int) []json.RawMessage
}

type Handler struct {
	store     store.Store
	search    ListingSearcher
	latest    LatestListings
	tokens    auth.TokenCodec
	uploadDir string
}

type Options struct {
	Store     store.Store
	Search    ListingSearcher
	Latest    LatestListings
	Tokens    auth.TokenCodec
	UploadDir string
}

func NewHandler(options Options) *Handler {
	tokens := options.Tokens
	if tokens == nil {
		tokens = auth.IdentityTokens{}
	}
	return &Handler{
		store:     options.Store,
		search:    options.Search,
		latest:    options.Latest,
		tokens:    tokens,
		uploadDir: options.UploadDir,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/listings", h.handleListings)
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
	mux.HandleFunc("/workflows", h.requireUser(h.handleWorkflow))
	mux.HandleFunc("/workflows/select", h.requireUser(h.handleSelectProperty))
	mux.HandleFunc("/workflows/", h.requireUser(h.handleUpload))
	mux.HandleFunc("/documents", h.requireUser(h.handleDocuments))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir))))
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.store.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": userInfo{ID: user.ID, Email: user.Email},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	user, err := h.store.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userInfo{ID: user.ID, Email: user.Email},
	})
}

func (h *Handler) handleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	lat := strings.TrimSpace(query.Get("lat"))
	lon := strings.TrimSpace(query.Get("lon"))
	postalCode := strings.TrimSpace(query.Get("postal_code"))

	var (
		results []json.RawMessage
		err     error
	)
	switch {
	case lat != "" && lon != "":
		results, err = h.search.SearchNearby(r.Context(), lat, lon)
	case postalCode != "":
		results, err = h.search.SearchByPostalCode(r.Context(), postalCode)
	default:
		limit := 0
		if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
			limit, _ = strconv.Atoi(raw)
		}
		results = h.latest.GetOrRefresh(r.Context(), limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *Handler) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}

	workflow, err := h.store.GetWorkflow(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"workflow": workflow})
}

func (h *Handler) handleSelectProperty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}

	var req struct {
		Property json.RawMessage `json:"property"`
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if len(req.Property) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "property is required")
		return
	}

	workflow, err := h.store.SelectProperty(r.Context(), user.ID, req.Property)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"workflow": workflow,
	})
}

func (h *Handler) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := userFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing user")
		return
	}

	documents, err := h.store.ListDocuments(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": documents})
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request", "email and password are required"
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusBadRequest, "email_taken", "email already registered"
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusUnauthorized, "unauthorized", "unknown user"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
