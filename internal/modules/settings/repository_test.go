package settings

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	monitesting "github.com/moni-app/moni/internal/testing"
)

func newTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	db, cleanup := monitesting.NewTestDB(t, "config")
	return NewRepository(db.Conn(), zerolog.Nop()), cleanup
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	value, err := repo.Get("does_not_exist")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSetAndGet(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Set("port", "9090", nil))

	value, err := repo.Get("port")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "9090", *value)

	// Overwrite updates in place.
	require.NoError(t, repo.Set("port", "8081", nil))
	value, err = repo.Get("port")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "8081", *value)
}

func TestDelete(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.Set("transient", "x", nil))
	require.NoError(t, repo.Delete("transient"))

	value, err := repo.Get("transient")
	require.NoError(t, err)
	assert.Nil(t, value)

	// Deleting again is not an error.
	require.NoError(t, repo.Delete("transient"))
}

func TestGetAll(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	desc := "snapshot cadence"
	require.NoError(t, repo.Set("snapshot_schedule", "@hourly", &desc))
	require.NoError(t, repo.Set("stream_interval_seconds", "30", nil))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"snapshot_schedule":       "@hourly",
		"stream_interval_seconds": "30",
	}, all)
}

func TestTypedGetters(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	require.NoError(t, repo.SetFloat("threshold", 1.5))
	f, err := repo.GetFloat("threshold", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	require.NoError(t, repo.SetInt("keep", 12))
	i, err := repo.GetInt("keep", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	// "12.0" strings still parse as int.
	require.NoError(t, repo.Set("keep", "12.0", nil))
	i, err = repo.GetInt("keep", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, i)

	require.NoError(t, repo.SetBool("enabled", true))
	b, err := repo.GetBool("enabled", false)
	require.NoError(t, err)
	assert.True(t, b)

	require.NoError(t, repo.Set("enabled", "on", nil))
	b, err = repo.GetBool("enabled", false)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestTypedGettersDefaults(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	f, err := repo.GetFloat("missing", 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	require.NoError(t, repo.Set("garbage", "not-a-number", nil))
	i, err := repo.GetInt("garbage", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, i)
}
