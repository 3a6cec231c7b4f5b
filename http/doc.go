// Package http provides the HTTP API for the keepsake vault.
//
// The API lives under /api/v1 and every route requires a Bearer session
// token signed with the configured session secret. The token's "sub" claim
// identifies the owner; items are always scoped to that owner.
//
// # Routes
//
//   - GET    /api/v1/items            list the owner's items
//   - POST   /api/v1/items/files      upload a binary file (multipart field "file")
//   - POST   /api/v1/items/text       save a text snippet, or edit one when "id" is set
//   - PATCH  /api/v1/items/{id}/title rename an item
//
// Responses use a {"success": ...} envelope; failures carry an "error"
// message. Missing input maps to 400, unknown items to 404, and backend
// failures to 500.
//
// # Usage
//
// Create a handler with HandlerConfig:
//
//	handlerCfg := http.HandlerConfig{
//	    SessionSecret: secret,
//	    MaxUploadSize: 32 << 20,
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8080", handler.Router())
//
// The service parameter must implement the Service interface with
// SaveBinary, SaveText, EditText, EditTitle, and List methods.
package http
