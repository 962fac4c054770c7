// Package index provides IndexReader/IndexWriter implementations over
// SQLite and Postgres, plus a Redis read-through cache decorator, for the
// sonar library's posting-list storage boundary.
package index

import "time"

// trackRow is the catalogue row for one ingested recording.
type trackRow struct {
	ID        uint32 `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"index:idx_track_name"`
	Artist    string `gorm:"index:idx_track_artist"`
	Duration  int64  // nanoseconds
	CreatedAt time.Time
}

// postingRow is a single (hash -> track, anchor time) entry.
type postingRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Hash       uint64 `gorm:"index:idx_hash"`
	TrackID    uint32 `gorm:"index:idx_posting_track"`
	AnchorTime uint32
}
