package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-io/keepsake/clientcli"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		f := clientcli.NewFormatter(true, false)
		_, ok := f.(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human output", func(t *testing.T) {
		f := clientcli.NewFormatter(false, true)
		hf, ok := f.(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	t.Run("prints id and url", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatUpload(&buf, &clientcli.UploadResult{
			LocalPath:  "./photo.jpg",
			ID:         "item-1",
			StorageURL: "http://localhost:8484/objects/owner-1/photo.jpg",
			Size:       2048,
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Uploaded: ./photo.jpg (2.0 KB)")
		assert.Contains(t, out, "item-1")
		assert.Contains(t, out, "http://localhost:8484/objects/owner-1/photo.jpg")
	})

	t.Run("quiet suppresses output", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{Quiet: true}

		err := f.FormatUpload(&buf, &clientcli.UploadResult{ID: "item-1"})
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestHumanFormatter_FormatText(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	err := f.FormatText(&buf, &clientcli.TextResult{
		ID:    "item-2",
		Title: "Shopping li",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Saved: Shopping li")
	assert.Contains(t, buf.String(), "item-2")
}

func TestHumanFormatter_FormatList(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatList(&buf, &clientcli.ListResult{})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No items found")
	})

	t.Run("items with summary", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatList(&buf, &clientcli.ListResult{
			Items: []clientcli.ItemInfo{
				{
					ID:        "11111111-1111-1111-1111-111111111111",
					Kind:      "binary",
					Title:     "photo.jpg",
					Size:      2048,
					UpdatedAt: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
				},
				{
					ID:        "22222222-2222-2222-2222-222222222222",
					Kind:      "text",
					Title:     "Shopping li",
					Size:      64,
					UpdatedAt: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC),
				},
			},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "photo.jpg")
		assert.Contains(t, out, "2025-01-02 15:04:05")
		assert.Contains(t, out, "2 item(s) (2.1 KB total)")
	})

	t.Run("long title truncated", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatList(&buf, &clientcli.ListResult{
			Items: []clientcli.ItemInfo{
				{ID: "item-1", Title: strings.Repeat("x", 80)},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), strings.Repeat("x", 37)+"...")
	})
}

func TestJSONFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	err := f.FormatList(&buf, &clientcli.ListResult{
		Items: []clientcli.ItemInfo{
			{ID: "item-1", Kind: "binary", Title: "photo.jpg", Size: 2048},
		},
	})
	require.NoError(t, err)

	var decoded clientcli.ListResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "photo.jpg", decoded.Items[0].Title)
}

func TestJSONFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.JSONFormatter{}

	err := f.FormatError(&buf, errors.New("something broke"))
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "something broke", decoded["error"])
}

func TestHumanFormatter_FormatProfileList(t *testing.T) {
	var buf bytes.Buffer
	f := &clientcli.HumanFormatter{}

	profiles := []clientcli.Profile{
		{Name: "dev", Endpoint: "http://localhost:8484", Token: "short"},
		{Name: "prod", Endpoint: "https://keepsake.example.com", Token: "a-much-longer-token-value"},
	}

	err := f.FormatProfileList(&buf, profiles, "prod", false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "* prod")
	assert.Contains(t, out, "********")
	assert.Contains(t, out, "a-mu...alue")
	assert.NotContains(t, out, "a-much-longer-token-value")
}

func TestHumanFormatter_FormatProfileShow(t *testing.T) {
	t.Run("masked by default", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatProfileShow(&buf, clientcli.Profile{
			Name:     "prod",
			Endpoint: "https://keepsake.example.com",
			Token:    "a-much-longer-token-value",
		}, true, false)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "prod (default)")
		assert.NotContains(t, out, "a-much-longer-token-value")
	})

	t.Run("show secrets", func(t *testing.T) {
		var buf bytes.Buffer
		f := &clientcli.HumanFormatter{}

		err := f.FormatProfileShow(&buf, clientcli.Profile{
			Name:  "prod",
			Token: "a-much-longer-token-value",
		}, false, true)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "a-much-longer-token-value")
	})
}
