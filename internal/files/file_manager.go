package files

import (
	"context"
)

// FileManager moves chat attachments to and from local storage.
type FileManager interface {
	// DownloadToTemp stores the attachment fileID under the temp directory.
	// cleanup removes the stored copy.
	DownloadToTemp(ctx context.Context, fileID string) (localPath string, cleanup func(), err error)

	// Remove deletes a file produced from a downloaded attachment.
	Remove(path string)
}
