// Package rid generates the opaque, uuid-based IDs the engine assigns to
// things the caller's composition doesn't already name — audio segments,
// render jobs.
package rid

import "github.com/google/uuid"

// New returns a fresh random ID string.
func New() string {
	return uuid.NewString()
}

// NewSegmentID names one audio segment for logging/tracing.
func NewSegmentID() string {
	return "seg_" + uuid.NewString()
}

// NewJobID names one render job.
func NewJobID() string {
	return "job_" + uuid.NewString()
}
