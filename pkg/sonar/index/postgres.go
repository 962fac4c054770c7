package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/sondar/sondar/pkg/sonar"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres is an alternative IndexWriter/IndexReader/catalogue backend for
// deployments that already run Postgres for other services. It exposes the
// same surface as SQLite over the same two-table schema.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the schema.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&trackRow{}, &postingRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertTrack atomically replaces trackID's postings with records.
func (p *Postgres) InsertTrack(trackID uint32, records []sonar.HashRecord) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
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

// Lookup returns every posting recorded against hash.
func (p *Postgres) Lookup(hash uint64) ([]sonar.IndexEntry, error) {
	var rows []postingRow
	if err := p.db.Where("hash = ?", hash).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying postings: %w", err)
	}
	entries := make([]sonar.IndexEntry, len(rows))
	for i, r := range rows {
		entries[i] = sonar.IndexEntry{TrackID: r.TrackID, AnchorTime: r.AnchorTime}
	}
	return entries, nil
}

// AddTrackMetadata upserts the catalogue row for trackID.
func (p *Postgres) AddTrackMetadata(trackID uint32, name, artist string, duration time.Duration) error {
	row := trackRow{ID: trackID, Name: name, Artist: artist, Duration: int64(duration)}
	return p.db.Clauses(upsertTrackClause()).Create(&row).Error
}

// GetTrack retrieves catalogue metadata for trackID.
func (p *Postgres) GetTrack(trackID uint32) (*sonar.Track, error) {
	var row trackRow
	if err := p.db.First(&row, trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("track %d: %w", trackID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("querying track: %w", err)
	}
	return rowToTrack(row), nil
}

// ListTracks returns every catalogued track.
func (p *Postgres) ListTracks() ([]sonar.Track, error) {
	var rows []trackRow
	if err := p.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	tracks := make([]sonar.Track, len(rows))
	for i, r := range rows {
		tracks[i] = *rowToTrack(r)
	}
	return tracks, nil
}

// DeleteTrack removes a track's catalogue row and all of its postings.
func (p *Postgres) DeleteTrack(trackID uint32) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("track_id = ?", trackID).Delete(&postingRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trackRow{}, trackID).Error
	})
}
