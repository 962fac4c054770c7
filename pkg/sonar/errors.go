package sonar

import "errors"

// ErrInputTooShort is returned when an audio clip has fewer samples than one
// analysis window and cannot be fingerprinted.
var ErrInputTooShort = errors.New("sonar: input shorter than one analysis window")

// ErrIndexWrite wraps a failure from an IndexWriter during ingest.
var ErrIndexWrite = errors.New("sonar: index write failed")

// ErrIndexRead wraps a failure from an IndexReader during identify.
var ErrIndexRead = errors.New("sonar: index read failed")

// ErrConfigInvalid is returned by New when the assembled Config fails
// validation. It is never returned once a Library has been constructed.
var ErrConfigInvalid = errors.New("sonar: invalid configuration")
