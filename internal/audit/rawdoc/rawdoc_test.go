package rawdoc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftCasingDuality(t *testing.T) {
	assert.True(t, Document{"isDraft": true}.Draft())
	assert.True(t, Document{"isdraft": true}.Draft())
	assert.False(t, Document{"isDraft": false}.Draft())
	assert.False(t, Document{}.Draft())
	// A stray string value is not a draft marker.
	assert.False(t, Document{"isDraft": "true"}.Draft())
}

func TestTimeShapes(t *testing.T) {
	want := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("plain ISO string", func(t *testing.T) {
		got, ok := Document{"expectedStart": "2026-01-01T09:00:00Z"}.Time("expectedStart")
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("wrapped $date string", func(t *testing.T) {
		got, ok := Document{"expectedStart": map[string]any{"$date": "2026-01-01T09:00:00Z"}}.Time("expectedStart")
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("wrapped $date millis", func(t *testing.T) {
		got, ok := Document{"expectedStart": map[string]any{"$date": float64(want.UnixMilli())}}.Time("expectedStart")
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("epoch millis number", func(t *testing.T) {
		got, ok := Document{"expectedStart": float64(want.UnixMilli())}.Time("expectedStart")
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("garbage never parses and never panics", func(t *testing.T) {
		for _, v := range []any{"not-a-date", map[string]any{"$date": "nope"}, []any{"x"}, nil, true} {
			_, ok := Document{"expectedStart": v}.Time("expectedStart")
			assert.False(t, ok, "value %v", v)
		}
	})
}

func TestIDUnwrapsOID(t *testing.T) {
	id, ok := Document{"companyId": map[string]any{"$oid": "65a1b2c3d4e5f6a7b8c9d0e1"}}.ID("companyId")
	require.True(t, ok)
	assert.Equal(t, "65a1b2c3d4e5f6a7b8c9d0e1", id)

	id, ok = Document{"companyId": "plain-id"}.ID("companyId")
	require.True(t, ok)
	assert.Equal(t, "plain-id", id)

	_, ok = Document{"companyId": map[string]any{"$oid": ""}}.ID("companyId")
	assert.False(t, ok)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"reference": `))
	require.Error(t, err)
}

func TestHasTracksPresenceNotValidity(t *testing.T) {
	doc := Document{"actualStart": nil}
	assert.True(t, doc.Has("actualStart"))
	_, ok := doc.Time("actualStart")
	assert.False(t, ok)
	assert.False(t, doc.Has("actualEnd"))
}
