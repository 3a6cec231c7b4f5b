package keepsake

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ItemKind discriminates how an item's payload is stored and rendered.
type ItemKind string

const (
	KindBinary ItemKind = "binary"
	KindText   ItemKind = "text"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case KindBinary, KindText:
		return true
	default:
		return false
	}
}

// Item is one saved unit of content: a metadata record plus a reference
// to its payload in the object store.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Kind        ItemKind  `json:"kind"`
	Title       string    `json:"title"`
	MediaType   string    `json:"mediaType"`
	ContentType string    `json:"contentType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes,omitempty"`
	StorageKey  string    `json:"-"`
	Locator     string    `json:"storageUrl"`
	Body        string    `json:"text,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewBinary is a first-time binary upload.
type NewBinary struct {
	OwnerID     string
	FileName    string
	ContentType string
	Payload     []byte
}

// NewText is a first-time text save.
type NewText struct {
	OwnerID string
	Text    string
	// Title, when set, suppresses derivation from the body prefix.
	Title string
}

// EditText replaces the body of an existing text item.
type EditText struct {
	OwnerID string
	ItemID  string
	Text    string
	Title   string
}

// EditTitle renames an existing item without touching its payload.
type EditTitle struct {
	OwnerID string
	ItemID  string
	Title   string
}

// BinaryReceipt is the result of a successful binary upload.
type BinaryReceipt struct {
	ID      string
	Locator string
}

// TextReceipt is the result of a successful text save or edit.
type TextReceipt struct {
	ID      string
	Locator string
	Title   string
	Body    string
}

// ItemUpdate is a partial update applied by ItemRepo.UpdateFields.
// Nil fields are left untouched; UpdatedAt is always written.
type ItemUpdate struct {
	Title     *string
	Body      *string
	UpdatedAt time.Time
}

// ObjectInfo describes one object found in the store, as seen by Sweep.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// MediaTypeFor maps a declared MIME type to the coarse category the
// client uses for filtering.
func MediaTypeFor(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch {
	case strings.HasPrefix(ct, "image/"):
		return "image"
	case strings.HasPrefix(ct, "video/"):
		return "video"
	case strings.HasPrefix(ct, "audio/"):
		return "audio"
	case ct == "text/plain":
		return "text"
	default:
		return "document"
	}
}

// Tables holds configurable table/collection names for metadata storage.
// This allows multi-tenant deployments to use different table names.
type Tables struct {
	Items string `mapstructure:"items"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Items == "" {
		return errors.New("validate tables: items table name cannot be empty")
	}

	if !IsValidTableName(t.Items) {
		return fmt.Errorf("validate tables: invalid items table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Items)
	}

	return nil
}
