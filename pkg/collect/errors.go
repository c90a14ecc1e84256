package collect

import "fmt"

// MissingImageInputError reports an image feature submitted without a file.
// It is raised before any network call is made.
type MissingImageInputError struct {
	Feature string
}

func (e *MissingImageInputError) Error() string {
	return fmt.Sprintf("Please select an image for %s", e.Feature)
}

// UploadTooLargeError reports a request body over the configured upload limit.
type UploadTooLargeError struct {
	Limit int64
}

func (e *UploadTooLargeError) Error() string {
	return fmt.Sprintf("Upload exceeds the %d byte limit", e.Limit)
}
