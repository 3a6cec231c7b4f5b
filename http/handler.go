package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/keepsake-io/keepsake"
)

type Service interface {
	SaveBinary(ctx context.Context, req keepsake.NewBinary) (keepsake.BinaryReceipt, error)
	SaveText(ctx context.Context, req keepsake.NewText) (keepsake.TextReceipt, error)
	EditText(ctx context.Context, req keepsake.EditText) (keepsake.TextReceipt, error)
	EditTitle(ctx context.Context, req keepsake.EditTitle) error
	List(ctx context.Context, ownerID string) ([]keepsake.Item, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	SessionSecret string
	MaxUploadSize int64
	CORS          CORSConfig
	// Objects, when set, is mounted under /objects/ to serve stored
	// payloads. Used with the filesystem store; S3 locators resolve
	// directly against the bucket's public base URL.
	Objects http.Handler
}

// Handler provides the HTTP API over the vault service.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with all API routes configured. Every
// /api/v1 route requires a valid session token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	if h.config.Objects != nil {
		r.Method(http.MethodGet, "/objects/*", http.StripPrefix("/objects/", h.config.Objects))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireSession(h.config.SessionSecret))
		r.Get("/items", h.handleList)
		r.Post("/items/files", h.handleUpload)
		r.Post("/items/text", h.handleText)
		r.Patch("/items/{id}/title", h.handleEditTitle)
	})

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), OwnerID(r.Context()))
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, ListResponse{Success: true, Files: items})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	payload, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		WriteError(w, http.StatusBadRequest, "could not read file")
		return
	}

	receipt, err := h.service.SaveBinary(r.Context(), keepsake.NewBinary{
		OwnerID:     OwnerID(r.Context()),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Payload:     payload,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, UploadResponse{
		Success:    true,
		ID:         receipt.ID,
		StorageURL: receipt.Locator,
	})
}

type textRequest struct {
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

// handleText saves a new text snippet, or edits an existing one when the
// request carries an item id.
func (h *Handler) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerID := OwnerID(r.Context())

	var receipt keepsake.TextReceipt
	var err error
	if req.ID == "" {
		receipt, err = h.service.SaveText(r.Context(), keepsake.NewText{
			OwnerID: ownerID,
			Text:    req.Text,
			Title:   req.Title,
		})
	} else {
		receipt, err = h.service.EditText(r.Context(), keepsake.EditText{
			OwnerID: ownerID,
			ItemID:  req.ID,
			Text:    req.Text,
			Title:   req.Title,
		})
	}
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, TextResponse{
		Success:    true,
		ID:         receipt.ID,
		StorageURL: receipt.Locator,
		Text:       receipt.Body,
		Title:      receipt.Title,
	})
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleEditTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.EditTitle(r.Context(), keepsake.EditTitle{
		OwnerID: OwnerID(r.Context()),
		ItemID:  chi.URLParam(r, "id"),
		Title:   req.Title,
	})
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, OKResponse{Success: true})
}
