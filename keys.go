package keepsake

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// BinaryKey builds the object-store key for a binary upload:
// the owner's namespace followed by the original file name.
// Only the base name is kept, so a client-supplied path cannot
// escape the owner's prefix.
func BinaryKey(ownerID, fileName string) string {
	return ownerID + "/" + path.Base(strings.ReplaceAll(fileName, "\\", "/"))
}

// TextKey builds a fresh time-qualified key for a first-time text save.
// Edits never call this; they overwrite the item's persisted key.
func TextKey(ownerID string, now time.Time) string {
	return fmt.Sprintf("%s/text-%d.txt", ownerID, now.UnixMilli())
}

// IsValidKey validates an object-store key. It checks that the key:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/") and does not end with "/"
//   - does not contain ".." (path traversal) or "//" (empty segments)
//   - does not contain invalid characters: \ ? # ~
//   - is valid UTF-8
//   - does not contain "." segments
//   - does not contain null bytes, control characters, or DEL
//
// Spaces are allowed: original file names keep them.
func IsValidKey(k string) bool {
	if k == "" || k == "/" || k == "." {
		return false
	}

	if k[0] == '/' {
		return false
	}

	if strings.HasSuffix(k, "/") {
		return false
	}

	if strings.Contains(k, "..") {
		return false
	}

	if strings.Contains(k, "//") {
		return false
	}

	if strings.ContainsAny(k, `\?#~`) {
		return false
	}

	if !utf8.ValidString(k) {
		return false
	}

	if strings.HasPrefix(k, "./") || strings.Contains(k, "/./") || strings.HasSuffix(k, "/.") {
		return false
	}

	for _, r := range k {
		if r == 0 || r < 0x20 || r == 0x7f || (unicode.IsSpace(r) && r != ' ') {
			return false
		}
	}

	return true
}
