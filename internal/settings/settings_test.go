package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	for _, k := range Keys {
		assert.True(t, s.Enabled(k), "%s should default to enabled", k)
	}
	assert.Equal(t, PositionInline, s.Position())
	assert.Empty(t, s.Disabled())
}

func TestZeroSettingsBehaveLikeDefaults(t *testing.T) {
	var s Settings
	assert.True(t, s.Enabled(BusinessEmail))
	assert.Equal(t, PositionInline, s.Position())
}

func TestNewAppliesOverridesOnly(t *testing.T) {
	s := New(map[Key]bool{BusinessEmail: false, "bogus": false}, PositionHeader)
	assert.False(t, s.Enabled(BusinessEmail))
	assert.True(t, s.Enabled(SubscriberCount), "absent key keeps default")
	assert.Equal(t, PositionHeader, s.Position())
	assert.Equal(t, []string{"businessEmail"}, s.Disabled())
	assert.NotContains(t, s.Values(), Key("bogus"))
}

func TestAnyEnabled(t *testing.T) {
	s := New(map[Key]bool{LatestVideo: false, LatestShorts: false}, "")
	assert.False(t, s.AnyEnabled(LatestVideo, LatestShorts))
	assert.True(t, s.AnyEnabled(LatestVideo, LatestLivestream))
	assert.False(t, s.AnyEnabled())
}

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition("header")
	require.NoError(t, err)
	assert.Equal(t, PositionHeader, p)

	_, err = ParsePosition("sidebar")
	assert.Error(t, err)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreEmptyLoadsDefaults(t *testing.T) {
	st := openTestStore(t)
	s, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults().Values(), s.Values())
	assert.Equal(t, PositionInline, s.Position())
}

func TestStoreSaveLoad(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, map[Key]bool{BusinessEmail: false, Playlists: false}, PositionHeader))
	require.NoError(t, st.Save(ctx, map[Key]bool{Playlists: true}, ""))

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Enabled(BusinessEmail))
	assert.True(t, s.Enabled(Playlists), "second save overwrites")
	assert.True(t, s.Enabled(Description), "never-stored key uses default")
	assert.Equal(t, PositionHeader, s.Position())
}

func TestStoreRejectsUnknown(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	assert.Error(t, st.Save(ctx, map[Key]bool{"bogus": true}, ""))
	assert.Error(t, st.Save(ctx, nil, "sidebar"))
}

func TestStoreIgnoresCorruptRows(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	_, err := st.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('description', 'maybe'), ('infoPosition', 'sidebar')`)
	require.NoError(t, err)

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.True(t, s.Enabled(Description))
	assert.Equal(t, PositionInline, s.Position())
}
