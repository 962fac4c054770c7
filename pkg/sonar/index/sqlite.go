package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sondar/sondar/pkg/sonar"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func upsertTrackClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "artist", "duration"}),
	}
}

// batchSize bounds how many posting rows are sent to the database in a
// single INSERT, avoiding huge memory spikes on long tracks.
const batchSize = 500

// SQLite is the default, embedded IndexWriter/IndexReader/catalogue,
// backed by a pure-Go SQLite driver so the repository needs no cgo.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if necessary) a SQLite database at path and
// migrates its schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&trackRow{}, &postingRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertTrack atomically replaces trackID's postings with records, inside a
// single transaction: either every posting becomes visible to Lookup, or
// none do. The catalogue row is left untouched; see AddTrackMetadata.
func (s *SQLite) InsertTrack(trackID uint32, records []sonar.HashRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", trackID).Delete(&postingRow{}).Error; err != nil {
			return fmt.Errorf("clearing existing postings: %w", err)
		}

		rows := make([]postingRow, 0, batchSize)
		for _, r := range records {
			rows = append(rows, postingRow{Hash: r.Hash, TrackID: r.TrackID, AnchorTime: r.AnchorTime})
			if len(rows) >= batchSize {
				if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
					return fmt.Errorf("inserting postings: %w", err)
				}
				rows = rows[:0]
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
				return fmt.Errorf("inserting final postings: %w", err)
			}
		}
		return nil
	})
}

// Lookup returns every posting recorded against hash, in no particular
// order.
func (s *SQLite) Lookup(hash uint64) ([]sonar.IndexEntry, error) {
	var rows []postingRow
	if err := s.db.Where("hash = ?", hash).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying postings: %w", err)
	}
	entries := make([]sonar.IndexEntry, len(rows))
	for i, r := range rows {
		entries[i] = sonar.IndexEntry{TrackID: r.TrackID, AnchorTime: r.AnchorTime}
	}
	return entries, nil
}

// AddTrackMetadata upserts the catalogue row for trackID. It is never
// consulted by the matcher; it exists purely for presentation.
func (s *SQLite) AddTrackMetadata(trackID uint32, name, artist string, duration time.Duration) error {
	row := trackRow{ID: trackID, Name: name, Artist: artist, Duration: int64(duration)}
	return s.db.Clauses(upsertTrackClause()).Create(&row).Error
}

// GetTrack retrieves catalogue metadata for trackID.
func (s *SQLite) GetTrack(trackID uint32) (*sonar.Track, error) {
	var row trackRow
	if err := s.db.First(&row, trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("track %d: %w", trackID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("querying track: %w", err)
	}
	return rowToTrack(row), nil
}

// ListTracks returns every catalogued track.
func (s *SQLite) ListTracks() ([]sonar.Track, error) {
	var rows []trackRow
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	tracks := make([]sonar.Track, len(rows))
	for i, r := range rows {
		tracks[i] = *rowToTrack(r)
	}
	return tracks, nil
}

// DeleteTrack removes a track's catalogue row and all of its postings in a
// single transaction.
func (s *SQLite) DeleteTrack(trackID uint32) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", trackID).Delete(&postingRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trackRow{}, trackID).Error
	})
}

func rowToTrack(r trackRow) *sonar.Track {
	return &sonar.Track{
		ID:        r.ID,
		Name:      r.Name,
		Artist:    r.Artist,
		Duration:  time.Duration(r.Duration),
		CreatedAt: r.CreatedAt,
	}
}
