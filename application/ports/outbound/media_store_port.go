package outbound

import (
	"context"
	"fmt"
)

type MediaKind string

const (
	AudioMedia          MediaKind = "audio"
	ColoredImageMedia   MediaKind = "image_colored"
	GrayscaleImageMedia MediaKind = "image_grayscale"
)

type UploadParams struct {
	StoryID     string
	SceneNumber int
	Kind        MediaKind
	Data        []byte
	ContentType string
}

// MediaStorePort uploads one media blob and returns its public URL. The
// implementation must verify the object exists before reporting success.
type MediaStorePort interface {
	Upload(ctx context.Context, params UploadParams) (string, error)
}

// UploadError carries the scene context of a failed upload for logging.
type UploadError struct {
	StoryID     string
	SceneNumber int
	Kind        MediaKind
	Path        string
	Err         error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s for story %s scene %d (%s) failed: %v",
		e.Kind, e.StoryID, e.SceneNumber, e.Path, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
