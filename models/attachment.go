package models

import "fmt"

const (
	// MaxAttachmentsPerOwner caps attachments per task or assignment. The
	// backend enforces this too; the client rejects before uploading.
	MaxAttachmentsPerOwner = 5

	// MaxAttachmentBytes is the per-file size cap (10 MiB).
	MaxAttachmentBytes = 10485760
)

type Attachment struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	FilePath string `json:"file_path"`
}

// PendingFile is a locally selected file that has not been uploaded yet.
type PendingFile struct {
	Name string
	Size int64
	Data []byte
}

// CheckAttachmentAdd validates adding files against an owner that already
// holds `existing` attachments. Runs before any upload request.
func CheckAttachmentAdd(existing int, files []PendingFile) error {
	if existing+len(files) > MaxAttachmentsPerOwner {
		return fmt.Errorf("maximum %d files allowed", MaxAttachmentsPerOwner)
	}
	for _, f := range files {
		if f.Size > MaxAttachmentBytes {
			return fmt.Errorf("file %q exceeds the 10MB size limit", f.Name)
		}
	}
	return nil
}
