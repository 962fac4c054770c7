package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sondar/sondar/pkg/sonar"
	"github.com/stretchr/testify/require"
)

func setupTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sqlite3")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteInsertAndLookup(t *testing.T) {
	s := setupTestSQLite(t)

	records := []sonar.HashRecord{
		{Hash: 1, TrackID: 42, AnchorTime: 0},
		{Hash: 1, TrackID: 42, AnchorTime: 5},
		{Hash: 2, TrackID: 42, AnchorTime: 10},
	}
	require.NoError(t, s.InsertTrack(42, records))

	entries, err := s.Lookup(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = s.Lookup(999)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSQLiteInsertTrackReplacesExisting(t *testing.T) {
	s := setupTestSQLite(t)

	require.NoError(t, s.InsertTrack(1, []sonar.HashRecord{{Hash: 10, TrackID: 1, AnchorTime: 0}}))
	require.NoError(t, s.InsertTrack(1, []sonar.HashRecord{{Hash: 20, TrackID: 1, AnchorTime: 0}}))

	entries, err := s.Lookup(10)
	require.NoError(t, err)
	require.Empty(t, entries, "re-ingesting a track should replace its old postings")

	entries, err = s.Lookup(20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSQLiteTrackMetadataCRUD(t *testing.T) {
	s := setupTestSQLite(t)

	require.NoError(t, s.AddTrackMetadata(1, "Song A", "Artist A", 3*time.Minute))
	require.NoError(t, s.AddTrackMetadata(2, "Song B", "Artist B", 2*time.Minute))

	tracks, err := s.ListTracks()
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	track, err := s.GetTrack(1)
	require.NoError(t, err)
	require.Equal(t, "Song A", track.Name)

	require.NoError(t, s.InsertTrack(1, []sonar.HashRecord{{Hash: 5, TrackID: 1, AnchorTime: 0}}))
	require.NoError(t, s.DeleteTrack(1))

	_, err = s.GetTrack(1)
	require.Error(t, err)

	entries, err := s.Lookup(5)
	require.NoError(t, err)
	require.Empty(t, entries)
}
