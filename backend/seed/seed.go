// Package seed fills the database with the default curated track.
package seed

import (
	"fmt"

	"dsatracker/backend/models"
	"dsatracker/backend/utils"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DefaultTrackName        = "LeetCode 75"
	DefaultTrackDescription = "Core set"
)

// SeedTracks creates the default track if needed and replaces its problems
// with every problem in id order. It returns how many problems were placed.
func SeedTracks(db *gorm.DB) (int, error) {
	var seeded int
	err := db.Transaction(func(tx *gorm.DB) error {
		track := models.Track{
			Name:        DefaultTrackName,
			Description: DefaultTrackDescription,
			Slug:        utils.Slugify(DefaultTrackName),
		}
		if err := tx.Where(models.Track{Name: DefaultTrackName}).FirstOrCreate(&track).Error; err != nil {
			return fmt.Errorf("find or create track: %w", err)
		}

		var ids []uint
		if err := tx.Model(&models.Problem{}).Order("id").Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("list problems: %w", err)
		}

		if err := models.ReplaceTrackProblems(tx, track.ID, ids); err != nil {
			return fmt.Errorf("replace track problems: %w", err)
		}
		seeded = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Str("track", DefaultTrackName).Int("problems", seeded).Msg("seeded track")
	return seeded, nil
}
