package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/keepsake-io/keepsake"
)

// ListResponse is the envelope for the item listing.
type ListResponse struct {
	Success bool            `json:"success"`
	Files   []keepsake.Item `json:"files"`
}

// UploadResponse is the envelope for a stored binary upload.
type UploadResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	StorageURL string `json:"storageUrl"`
}

// TextResponse is the envelope for a saved or edited text item.
type TextResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	StorageURL string `json:"storageUrl"`
	Text       string `json:"text"`
	Title      string `json:"title"`
}

// OKResponse is the envelope for operations with no payload.
type OKResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, message string) {
	if err := WriteJSON(w, code, ErrorResponse{Success: false, Error: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if errors.Is(err, keepsake.ErrMissingField) {
		WriteError(w, http.StatusBadRequest, "missing required field")
		return
	}

	if errors.Is(err, keepsake.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "item not found")
		return
	}

	if errors.Is(err, ErrUnauthorized) {
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	// Storage and repository failures surface uniformly
	WriteError(w, http.StatusInternalServerError, "internal server error")
}
