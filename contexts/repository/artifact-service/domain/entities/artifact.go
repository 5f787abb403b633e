package entities

import "time"

// Artifact is the metadata record of one uploaded file. The payload itself
// lives in the blob store, addressed by its SHA1; several artifacts may
// share one blob.
type Artifact struct {
	ArtifactID string
	ModuleID   string
	Filename   string
	SHA1       string
	MD5        string
	SizeBytes  int64
	CreatedAt  time.Time
}
