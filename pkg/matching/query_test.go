package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	t.Run("empty and whitespace yield nil", func(t *testing.T) {
		assert.Nil(t, ParseQuery(""))
		assert.Nil(t, ParseQuery("   "))
		assert.Nil(t, ParseQuery(" .,- "))
	})

	t.Run("one word parses as single token", func(t *testing.T) {
		q := ParseQuery("Stal")
		single, ok := q.(SingleToken)
		require.True(t, ok)
		assert.Equal(t, "stal", string(single))
		assert.Equal(t, "stal", q.Text())
	})

	t.Run("two words parse as multi token", func(t *testing.T) {
		q := ParseQuery("Vladimir Lenin")
		multi, ok := q.(MultiToken)
		require.True(t, ok)
		assert.Equal(t, "vladimir", multi.First())
		assert.Equal(t, "lenin", multi.Last())
		assert.Equal(t, "vladimir lenin", q.Text())
	})

	t.Run("punctuated initials split into tokens", func(t *testing.T) {
		q := ParseQuery("V. Lenin")
		multi, ok := q.(MultiToken)
		require.True(t, ok)
		assert.Equal(t, "v", multi.First())
		assert.Equal(t, "lenin", multi.Last())
	})

	t.Run("accents are folded before splitting", func(t *testing.T) {
		q := ParseQuery("José Martí")
		require.IsType(t, MultiToken{}, q)
		assert.Equal(t, "jose marti", q.Text())
	})
}
