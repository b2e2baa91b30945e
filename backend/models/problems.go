package models

import "gorm.io/gorm"

const (
	DifficultyEasy   = "E"
	DifficultyMedium = "M"
	DifficultyHard   = "H"
)

type Problem struct {
	gorm.Model
	Title      string `gorm:"size:200;unique;not null"`
	Difficulty string `gorm:"size:1;default:E"` // E, M, H
}

// DifficultyLabel returns the display name for a difficulty code.
func DifficultyLabel(code string) string {
	switch code {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return ""
	}
}

type Track struct {
	gorm.Model
	Name          string `gorm:"size:120;unique;not null"`
	Description   string
	Slug          string         `gorm:"size:140;unique"`
	TrackProblems []TrackProblem `gorm:"constraint:OnDelete:CASCADE"`
}

// TrackProblem places a problem at a 1-based position inside a track.
// (track, problem) and (track, order) are both unique.
type TrackProblem struct {
	ID        uint `gorm:"primarykey"`
	TrackID   uint `gorm:"not null;uniqueIndex:idx_track_problem;uniqueIndex:idx_track_order"`
	ProblemID uint `gorm:"not null;uniqueIndex:idx_track_problem"`
	Order     uint `gorm:"column:position;not null;uniqueIndex:idx_track_order"`
	Problem   Problem
}

// ReplaceTrackProblems drops every problem of the track and inserts ids at
// positions 1..n. Callers run it inside a transaction.
func ReplaceTrackProblems(tx *gorm.DB, trackID uint, problemIDs []uint) error {
	if err := tx.Where("track_id = ?", trackID).Delete(&TrackProblem{}).Error; err != nil {
		return err
	}
	if len(problemIDs) == 0 {
		return nil
	}

	rows := make([]TrackProblem, 0, len(problemIDs))
	for i, pid := range problemIDs {
		rows = append(rows, TrackProblem{TrackID: trackID, ProblemID: pid, Order: uint(i + 1)})
	}
	return tx.Create(&rows).Error
}
