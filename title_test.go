package keepsake_test

import (
	"testing"

	"github.com/keepsake-io/keepsake"
	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	t.Run("long body truncates to ten characters", func(t *testing.T) {
		assert.Equal(t, "Hello worl", keepsake.DeriveTitle("Hello world, this is long"))
	})

	t.Run("short body is kept whole", func(t *testing.T) {
		assert.Equal(t, "note", keepsake.DeriveTitle("note"))
	})

	t.Run("exactly ten characters", func(t *testing.T) {
		assert.Equal(t, "0123456789", keepsake.DeriveTitle("0123456789"))
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, "", keepsake.DeriveTitle(""))
	})

	t.Run("multibyte text counts runes not bytes", func(t *testing.T) {
		assert.Equal(t, "日本語のメモです、長", keepsake.DeriveTitle("日本語のメモです、長いテキスト"))
	})
}
