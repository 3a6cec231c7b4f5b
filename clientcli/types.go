package clientcli

import "time"

// UploadOptions configures a binary upload.
type UploadOptions struct {
	LocalPath   string
	ContentType string // optional, auto-detect if empty
}

// UploadResult represents the result of uploading a file.
type UploadResult struct {
	LocalPath  string `json:"local_path"`
	ID         string `json:"id"`
	StorageURL string `json:"storage_url"`
	Size       int64  `json:"size_bytes"`
}

// SaveTextOptions configures a first-time text save.
type SaveTextOptions struct {
	Text  string
	Title string // optional, server derives one from the body when empty
}

// EditTextOptions configures an edit of an existing text item.
type EditTextOptions struct {
	ID    string
	Text  string
	Title string // optional
}

// TextResult represents the result of a text save or edit.
type TextResult struct {
	ID         string `json:"id"`
	StorageURL string `json:"storage_url"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

// RetitleOptions configures a title change.
type RetitleOptions struct {
	ID    string
	Title string
}

// ListResult contains the caller's saved items.
type ListResult struct {
	Items []ItemInfo `json:"items"`
}

// ItemInfo represents metadata for a single saved item.
type ItemInfo struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	MediaType  string    `json:"media_type"`
	Size       int64     `json:"size_bytes"`
	StorageURL string    `json:"storage_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// serverItem mirrors the item JSON returned by the server.
type serverItem struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	MediaType  string    `json:"mediaType"`
	SizeBytes  int64     `json:"sizeBytes"`
	StorageURL string    `json:"storageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// serverListResponse mirrors the list envelope from the server.
type serverListResponse struct {
	Success bool         `json:"success"`
	Files   []serverItem `json:"files"`
}

// serverUploadResponse mirrors the upload envelope from the server.
type serverUploadResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	StorageURL string `json:"storageUrl"`
}

// serverTextResponse mirrors the text envelope from the server.
type serverTextResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	StorageURL string `json:"storageUrl"`
	Text       string `json:"text"`
	Title      string `json:"title"`
}

// serverErrorResponse mirrors the error envelope from the server.
type serverErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// textRequest is the body for text save and edit requests.
type textRequest struct {
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

// titleRequest is the body for title change requests.
type titleRequest struct {
	Title string `json:"title"`
}
