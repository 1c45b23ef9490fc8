package images

import "io"

// CreatePendingInput models the multipart payload for registering an original
// upload in "pendiente" state.
type CreatePendingInput struct {
	UserID      int64
	ScaleOption string
	Metadata    string
	FileName    string
	File        io.Reader
	Size        int64
}

// UploadProcessedInput models the multipart payload that completes the
// workflow. ScaleOption and Metadata are pointers: nil keeps the stored value,
// non-nil replaces it.
type UploadProcessedInput struct {
	ImageID     int64
	ScaleOption *string
	Metadata    *string
	FileName    string
	File        io.Reader
	Size        int64
}
