package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type StoryStatus string

const (
	StatusProcessing      StoryStatus = "processing"
	StatusGeneratingMedia StoryStatus = "generating_media"
	StatusCompleted       StoryStatus = "completed"
	StatusFailed          StoryStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s StoryStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type VoiceGender string

const (
	VoiceFemale VoiceGender = "female"
	VoiceMale   VoiceGender = "male"
)

// ParseVoiceGender normalizes a requested narration voice. Anything other
// than "male" narrates with the female voice.
func ParseVoiceGender(s string) VoiceGender {
	if strings.EqualFold(strings.TrimSpace(s), string(VoiceMale)) {
		return VoiceMale
	}
	return VoiceFemale
}

type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// MaxDimension bounds requested image sides. Device screens stop well below
// this, and the resize and placeholder paths allocate width*height pixels, so
// an unbounded request body must not pick the allocation size.
const MaxDimension = 2600

// ParseDimensions parses a "WxH" string such as "932x430". Anything that does
// not parse to two positive integers within MaxDimension falls back to the
// given default.
func ParseDimensions(s string, fallback Dimensions) Dimensions {
	parts := strings.SplitN(strings.TrimSpace(s), "x", 2)
	if len(parts) != 2 {
		return fallback
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || width <= 0 || width > MaxDimension {
		return fallback
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || height <= 0 || height > MaxDimension {
		return fallback
	}
	return Dimensions{Width: width, Height: height}
}

// SceneDraft is one narrative beat as produced by the script generator,
// before any media exists for it. Never mutated after creation.
type SceneDraft struct {
	SceneNumber   int
	Text          string
	VisualPrompt  string
	IncludesChild bool
}

type SceneScript struct {
	Title  string
	Scenes []SceneDraft
}

// SceneAudio is the synthesized narration for one scene. Placeholder marks a
// stub clip substituted after the provider gave up.
type SceneAudio struct {
	SceneNumber int
	Data        []byte
	Placeholder bool
}

// SceneImages holds the colored illustration and its grayscale derivation.
type SceneImages struct {
	SceneNumber int
	Colored     []byte
	Grayscale   []byte
	Placeholder bool
}

type SceneRecord struct {
	SceneNumber     int    `json:"scene_number"`
	Text            string `json:"text"`
	VisualPrompt    string `json:"visual_prompt"`
	AudioURL        string `json:"audio_url"`
	ImageURL        string `json:"image_url"`
	ColoredImageURL string `json:"colored_image_url"`
	StartTimeMs     int64  `json:"start_time_ms"`
	DurationMs      int64  `json:"duration_ms"`
}

type StoryManifest struct {
	StoryID         string        `json:"story_id"`
	UserID          string        `json:"user_id"`
	Title           string        `json:"title"`
	UserPrompt      string        `json:"user_prompt"`
	TotalScenes     int           `json:"total_scenes"`
	TotalDurationMs int64         `json:"total_duration_ms"`
	Scenes          []SceneRecord `json:"scenes"`
	Status          StoryStatus   `json:"status"`
	Error           string        `json:"error,omitempty"`
	ThumbnailURL    string        `json:"thumbnail_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// UserStoryIndex is the per-user ordered list of story ids, kept so a user's
// stories can be paginated without scanning the whole story collection.
type UserStoryIndex struct {
	UserID     string
	StoryIDs   []string
	StoryCount int
}

// Union appends the id if it is not already present and reports whether the
// index changed. Safe to repeat on at-least-once retries.
func (u *UserStoryIndex) Union(storyID string) bool {
	for _, id := range u.StoryIDs {
		if id == storyID {
			u.StoryCount = len(u.StoryIDs)
			return false
		}
	}
	u.StoryIDs = append(u.StoryIDs, storyID)
	u.StoryCount = len(u.StoryIDs)
	return true
}

// Remove deletes the id from the index, preserving the order of the rest.
func (u *UserStoryIndex) Remove(storyID string) bool {
	for i, id := range u.StoryIDs {
		if id == storyID {
			u.StoryIDs = append(u.StoryIDs[:i], u.StoryIDs[i+1:]...)
			u.StoryCount = len(u.StoryIDs)
			return true
		}
	}
	u.StoryCount = len(u.StoryIDs)
	return false
}

// NewestFirst returns the ids in reverse insertion order for display.
func (u *UserStoryIndex) NewestFirst() []string {
	out := make([]string, len(u.StoryIDs))
	for i, id := range u.StoryIDs {
		out[len(u.StoryIDs)-1-i] = id
	}
	return out
}

type StorySummary struct {
	StoryID      string      `json:"story_id"`
	Title        string      `json:"title"`
	UserPrompt   string      `json:"user_prompt"`
	TotalScenes  int         `json:"total_scenes"`
	Status       StoryStatus `json:"status"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

type StoryPage struct {
	Stories    []StorySummary `json:"stories"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
}
