package outbound

import (
	"context"
	"errors"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

// ErrStoryNotFound is returned when no document exists for the story id.
var ErrStoryNotFound = errors.New("story not found")

// StoryStorePort persists story manifests and the per-user story id index.
// SaveStory upserts the manifest document and unions the id into the user's
// index, so repeating it for the same story id is safe.
type StoryStorePort interface {
	SaveStory(ctx context.Context, manifest *domain.StoryManifest) error
	GetStory(ctx context.Context, storyID string) (*domain.StoryManifest, error)
	ListStories(ctx context.Context, userID string, limit int, offset int) (*domain.StoryPage, error)
	DeleteStory(ctx context.Context, storyID string, userID string) error
}
