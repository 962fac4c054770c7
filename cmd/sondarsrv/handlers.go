package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sondar/sondar/pkg/sonar"
	"github.com/sondar/sondar/pkg/sonar/audio"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) respondError(c *gin.Context, status int, err error) {
	s.log.Warnf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, errorResponse{Error: err.Error()})
}

func (s *server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

type trackDTO struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
}

func (s *server) handleListTracks(c *gin.Context) {
	tracks, err := s.store.ListTracks()
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	dtos := make([]trackDTO, len(tracks))
	for i, t := range tracks {
		dtos[i] = trackDTO{ID: t.ID, Name: t.Name, Artist: t.Artist, Duration: t.Duration.String()}
	}
	c.JSON(http.StatusOK, gin.H{"tracks": dtos, "count": len(dtos)})
}

func (s *server) handleIngestTrack(c *gin.Context) {
	trackIDStr := c.PostForm("track_id")
	trackID64, err := strconv.ParseUint(trackIDStr, 10, 32)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("invalid or missing track_id: %w", err))
		return
	}
	trackID := uint32(trackID64)
	name := c.PostForm("name")
	artist := c.PostForm("artist")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("audio file is required: %w", err))
		return
	}
	defer file.Close()

	tempFile := filepath.Join(s.cfg.tempDir, fmt.Sprintf("ingest_%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	out, err := os.Create(tempFile)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	defer os.Remove(tempFile)
	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	out.Close()

	samples, err := decodeUploadedAudio(c, s.cfg.tempDir, s.sampleRate, tempFile)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	if err := s.lib.Ingest(trackID, samples); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sonar.ErrInputTooShort) {
			status = http.StatusUnprocessableEntity
		}
		s.respondError(c, status, err)
		return
	}

	duration := time.Duration(len(samples)) * time.Second / time.Duration(s.sampleRate)
	if err := s.store.AddTrackMetadata(trackID, name, artist, duration); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, trackDTO{ID: trackID, Name: name, Artist: artist, Duration: duration.String()})
}

func (s *server) handleDeleteTrack(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := s.store.DeleteTrack(uint32(id64)); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id64})
}

type matchDTO struct {
	TrackID uint32  `json:"track_id"`
	Name    string  `json:"name,omitempty"`
	Artist  string  `json:"artist,omitempty"`
	Score   float32 `json:"score"`
	Offset  int32   `json:"offset"`
}

func (s *server) handleIdentify(c *gin.Context) {
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("audio file is required: %w", err))
		return
	}
	defer file.Close()

	tempFile := filepath.Join(s.cfg.tempDir, fmt.Sprintf("query_%s_%s", uuid.NewString(), filepath.Base(header.Filename)))
	out, err := os.Create(tempFile)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	defer os.Remove(tempFile)
	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	out.Close()

	samples, err := decodeUploadedAudio(c, s.cfg.tempDir, s.sampleRate, tempFile)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	matches, err := s.lib.Identify(samples)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]matchDTO, len(matches))
	for i, m := range matches {
		dto := matchDTO{TrackID: m.TrackID, Score: m.Score, Offset: m.Offset}
		if track, err := s.store.GetTrack(m.TrackID); err == nil {
			dto.Name, dto.Artist = track.Name, track.Artist
		}
		dtos[i] = dto
	}
	c.JSON(http.StatusOK, gin.H{"matches": dtos, "count": len(dtos)})
}

func decodeUploadedAudio(c *gin.Context, tempDir string, sampleRate int, path string) ([]float32, error) {
	switch filepath.Ext(path) {
	case ".wav":
		samples, _, err := audio.ReadWAV(path)
		return samples, err
	case ".mp3":
		samples, _, err := audio.ReadMP3(path)
		return samples, err
	case ".flac":
		samples, _, err := audio.ReadFLAC(path)
		return samples, err
	default:
		wavPath, err := audio.ConvertToMonoWAV(c.Request.Context(), path, tempDir, sampleRate)
		if err != nil {
			return nil, err
		}
		defer os.Remove(wavPath)
		samples, _, err := audio.ReadWAV(wavPath)
		return samples, err
	}
}
