package seed

import (
	"testing"

	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSeedTracks(t *testing.T) {
	db, err := utils.OpenDB(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	require.NoError(t, err)

	for _, title := range []string{"Two Sum", "Valid Anagram", "Climbing Stairs"} {
		require.NoError(t, db.Create(&models.Problem{Title: title}).Error)
	}

	n, err := SeedTracks(db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Seeding again refreshes the same track instead of duplicating it.
	require.NoError(t, db.Create(&models.Problem{Title: "House Robber"}).Error)
	n, err = SeedTracks(db)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var tracks []models.Track
	require.NoError(t, db.Preload("TrackProblems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).Preload("TrackProblems.Problem").Find(&tracks).Error)
	require.Len(t, tracks, 1)
	assert.Equal(t, DefaultTrackName, tracks[0].Name)
	assert.Equal(t, "leetcode-75", tracks[0].Slug)

	require.Len(t, tracks[0].TrackProblems, 4)
	for i, tp := range tracks[0].TrackProblems {
		assert.Equal(t, uint(i+1), tp.Order)
	}
	assert.Equal(t, "Two Sum", tracks[0].TrackProblems[0].Problem.Title)
	assert.Equal(t, "House Robber", tracks[0].TrackProblems[3].Problem.Title)
}

func TestSeedTracksWithoutProblems(t *testing.T) {
	db, err := utils.OpenDB(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	require.NoError(t, err)

	n, err := SeedTracks(db)
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	db.Model(&models.Track{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
