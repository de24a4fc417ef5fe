package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/inbound"
	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/Sukhman-Singh-Narula/STServer/infrastructure/adapters"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	lastParams inbound.LaunchStoryParams
	storyID    string
	err        error
}

func (f *fakeOrchestrator) Launch(_ context.Context, params inbound.LaunchStoryParams) (string, error) {
	f.lastParams = params
	if f.err != nil {
		return "", f.err
	}
	return f.storyID, nil
}

type fakeVerifier struct {
	users map[string]string
}

func (f *fakeVerifier) Verify(_ context.Context, idToken string) (string, error) {
	if userID, ok := f.users[idToken]; ok {
		return userID, nil
	}
	return "", errors.New("invalid token")
}

type fakeStoryStore struct {
	stories map[string]*domain.StoryManifest
	page    *domain.StoryPage
	deleted []string
}

func (f *fakeStoryStore) SaveStory(_ context.Context, manifest *domain.StoryManifest) error {
	f.stories[manifest.StoryID] = manifest
	return nil
}

func (f *fakeStoryStore) GetStory(_ context.Context, storyID string) (*domain.StoryManifest, error) {
	manifest, ok := f.stories[storyID]
	if !ok {
		return nil, outbound.ErrStoryNotFound
	}
	return manifest, nil
}

func (f *fakeStoryStore) ListStories(_ context.Context, _ string, _ int, _ int) (*domain.StoryPage, error) {
	if f.page != nil {
		return f.page, nil
	}
	return &domain.StoryPage{Stories: []domain.StorySummary{}}, nil
}

func (f *fakeStoryStore) DeleteStory(_ context.Context, storyID string, _ string) error {
	if _, ok := f.stories[storyID]; !ok {
		return outbound.ErrStoryNotFound
	}
	delete(f.stories, storyID)
	f.deleted = append(f.deleted, storyID)
	return nil
}

type controllerFixture struct {
	router       *gin.Engine
	orchestrator *fakeOrchestrator
	store        *fakeStoryStore
}

func newControllerFixture() *controllerFixture {
	gin.SetMode(gin.TestMode)

	orchestrator := &fakeOrchestrator{storyID: "story_ab12cd34"}
	store := &fakeStoryStore{stories: make(map[string]*domain.StoryManifest)}
	verifier := &fakeVerifier{users: map[string]string{"good-token": "user-1"}}

	pipelineConfig := &config.PipelineConfig{
		DefaultDimensions: domain.Dimensions{Width: 1024, Height: 1024},
	}

	controller := NewStoriesController(adapters.NewZerologWrapper(), orchestrator, store, verifier, pipelineConfig)

	router := gin.New()
	controller.RegisterRoutes(router)

	return &controllerFixture{router: router, orchestrator: orchestrator, store: store}
}

func (f *controllerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateStory(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodPost, "/stories/generate", gin.H{
		"firebase_token": "good-token",
		"prompt":         "a story about a turtle",
		"voice_gender":   "male",
		"dimensions":     "932x430",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "story_ab12cd34", resp["story_id"])
	assert.Equal(t, "processing", resp["status"])

	assert.Equal(t, "user-1", f.orchestrator.lastParams.UserID)
	assert.Equal(t, domain.VoiceMale, f.orchestrator.lastParams.VoiceGender)
	assert.Equal(t, domain.Dimensions{Width: 932, Height: 430}, f.orchestrator.lastParams.Dimensions)
}

func TestGenerateStoryDefaultsVoiceAndDimensions(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodPost, "/stories/generate", gin.H{
		"firebase_token": "good-token",
		"prompt":         "a story about a turtle",
		"dimensions":     "not-a-size",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.VoiceFemale, f.orchestrator.lastParams.VoiceGender)
	assert.Equal(t, domain.Dimensions{Width: 1024, Height: 1024}, f.orchestrator.lastParams.Dimensions)
}

func TestGenerateStoryRejectsMalformedBody(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodPost, "/stories/generate", gin.H{"prompt": "missing token"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateStoryRejectsBadToken(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodPost, "/stories/generate", gin.H{
		"firebase_token": "forged",
		"prompt":         "a story",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFetchStoryInProgressIsNotAnError(t *testing.T) {
	f := newControllerFixture()
	f.store.stories["story_ab12cd34"] = &domain.StoryManifest{
		StoryID: "story_ab12cd34",
		Status:  domain.StatusGeneratingMedia,
	}

	rec := f.do(t, http.MethodGet, "/stories/fetch/story_ab12cd34", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "generating_media", resp["status"])
	assert.Nil(t, resp["story"], "an unfinished story must not ship a partial manifest")
}

func TestFetchStoryCompletedIncludesManifest(t *testing.T) {
	f := newControllerFixture()
	f.store.stories["story_ab12cd34"] = &domain.StoryManifest{
		StoryID: "story_ab12cd34",
		Title:   "The Turtle",
		Status:  domain.StatusCompleted,
		Scenes: []domain.SceneRecord{
			{SceneNumber: 1, AudioURL: "https://media/scene_1.mp3"},
		},
	}

	rec := f.do(t, http.MethodGet, "/stories/fetch/story_ab12cd34", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                  `json:"success"`
		Status  string                `json:"status"`
		Story   *domain.StoryManifest `json:"story"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Story)
	assert.Equal(t, "The Turtle", resp.Story.Title)
	require.Len(t, resp.Story.Scenes, 1)
}

func TestFetchStoryFailedCarriesError(t *testing.T) {
	f := newControllerFixture()
	f.store.stories["story_ab12cd34"] = &domain.StoryManifest{
		StoryID: "story_ab12cd34",
		Status:  domain.StatusFailed,
		Error:   "script generation failed",
	}

	rec := f.do(t, http.MethodGet, "/stories/fetch/story_ab12cd34", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp["status"])
	assert.Equal(t, "script generation failed", resp["error"])
}

func TestFetchStoryUnknownIs404(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodGet, "/stories/fetch/story_00000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserStories(t *testing.T) {
	f := newControllerFixture()
	f.store.page = &domain.StoryPage{
		Stories: []domain.StorySummary{
			{StoryID: "story_ab12cd34", Title: "The Turtle"},
		},
		TotalCount: 7,
		HasMore:    true,
	}

	rec := f.do(t, http.MethodGet, "/stories/user/good-token?limit=1&offset=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(7), resp["total_count"])
	assert.Equal(t, true, resp["has_more"])
}

func TestUserStoriesRejectsBadToken(t *testing.T) {
	f := newControllerFixture()

	rec := f.do(t, http.MethodGet, "/stories/user/forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteStory(t *testing.T) {
	f := newControllerFixture()
	f.store.stories["story_ab12cd34"] = &domain.StoryManifest{
		StoryID: "story_ab12cd34",
		UserID:  "user-1",
		Status:  domain.StatusCompleted,
	}

	rec := f.do(t, http.MethodDelete, "/stories/user/good-token/story/story_ab12cd34", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"story_ab12cd34"}, f.store.deleted)

	rec = f.do(t, http.MethodDelete, "/stories/user/good-token/story/story_ab12cd34", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "deleting an already deleted story is a 404")
}
