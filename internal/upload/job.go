package upload

import "github.com/google/uuid"

// ClipJob carries everything one upload attempt needs. It is built
// when the operator chooses to upload and thrown away afterwards;
// nothing about it is persisted.
type ClipJob struct {
	ID            string
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus string
	SourcePath    string
	ClipPath      string
}

// GamingCategoryID is the YouTube category used for every upload,
// matching the recordings this tool manages.
const GamingCategoryID = "20"

// NewClipJob fills in the generated ID and category.
func NewClipJob(title, description string, tags []string, privacy, sourcePath string) ClipJob {
	return ClipJob{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		Tags:          tags,
		CategoryID:    GamingCategoryID,
		PrivacyStatus: privacy,
		SourcePath:    sourcePath,
	}
}
