package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/inbound"
	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/google/uuid"
)

type storyPipelineOrchestrator struct {
	logger          outbound.LoggerPort
	workerPool      outbound.TaskDispatcher
	scriptGenerator outbound.SceneScriptGeneratorPort
	mediaSynth      inbound.SceneMediaSynthesizerPort
	mediaStore      outbound.MediaStorePort
	storyStore      outbound.StoryStorePort
	pipelineConfig  *config.PipelineConfig
}

func NewStoryPipelineOrchestrator(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	scriptGenerator outbound.SceneScriptGeneratorPort, mediaSynth inbound.SceneMediaSynthesizerPort,
	mediaStore outbound.MediaStorePort, storyStore outbound.StoryStorePort,
	pipelineConfig *config.PipelineConfig) inbound.StoryPipelineOrchestratorPort {
	return &storyPipelineOrchestrator{
		logger:          logger,
		workerPool:      workerPool,
		scriptGenerator: scriptGenerator,
		mediaSynth:      mediaSynth,
		mediaStore:      mediaStore,
		storyStore:      storyStore,
		pipelineConfig:  pipelineConfig,
	}
}

// NewStoryID allocates an opaque story token.
func NewStoryID() string {
	id := uuid.New()
	return fmt.Sprintf("story_%x", id[:4])
}

// Launch persists the initial processing manifest, detaches the rest of the
// pipeline into the background and returns the story id immediately. The
// caller observes progress only by polling.
func (o *storyPipelineOrchestrator) Launch(ctx context.Context, params inbound.LaunchStoryParams) (string, error) {
	now := time.Now().UTC()
	manifest := &domain.StoryManifest{
		StoryID:    NewStoryID(),
		UserID:     params.UserID,
		Title:      "Generating...",
		UserPrompt: params.Prompt,
		Scenes:     []domain.SceneRecord{},
		Status:     domain.StatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := o.storyStore.SaveStory(ctx, manifest); err != nil {
		o.logger.ErrorWithFields(err, "Failed to persist initial manifest", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
		return "", err
	}

	// Detached from the request context: the HTTP caller has already been
	// answered by the time this runs. The job gets its own goroutine rather
	// than a pool slot: it blocks on its child tasks, and a pool full of
	// blocked parents can never schedule the children they wait for. The
	// shared pool carries only leaf tasks.
	go o.run(context.Background(), manifest, params)

	return manifest.StoryID, nil
}

func (o *storyPipelineOrchestrator) run(ctx context.Context, manifest *domain.StoryManifest, params inbound.LaunchStoryParams) {
	o.logger.InfoWithFields("Background story generation started", map[string]interface{}{
		"story_id": manifest.StoryID,
		"prompt":   params.Prompt,
	})

	script, err := o.scriptGenerator.Generate(ctx, outbound.GenerateScriptParams{
		Prompt:    params.Prompt,
		ChildName: params.ChildName,
		ChildAge:  params.ChildAge,
		Interests: params.Interests,
		MaxScenes: o.pipelineConfig.MaxScenes,
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "Script generation failed", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
		o.failStory(ctx, manifest, err)
		return
	}

	manifest.Title = script.Title
	manifest.TotalScenes = len(script.Scenes)
	manifest.Status = domain.StatusGeneratingMedia
	manifest.UpdatedAt = time.Now().UTC()
	if err := o.storyStore.SaveStory(ctx, manifest); err != nil {
		// The pipeline keeps going: a transient store failure here only
		// delays the status the poller sees, the final save still happens.
		o.logger.ErrorWithFields(err, "Failed to persist generating_media transition", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
	}

	audioBatch, imageBatch := o.synthesizeMedia(ctx, script.Scenes, params)

	records, err := o.uploadSceneMedia(ctx, manifest.StoryID, script.Scenes, audioBatch, imageBatch)
	if err != nil {
		o.failStory(ctx, manifest, err)
		return
	}

	manifest.TotalDurationMs = AssignStartTimes(records)
	manifest.Scenes = records
	if len(records) > 0 {
		manifest.ThumbnailURL = records[0].ImageURL
	}
	manifest.Status = domain.StatusCompleted
	manifest.UpdatedAt = time.Now().UTC()

	if err := o.storyStore.SaveStory(ctx, manifest); err != nil {
		o.logger.ErrorWithFields(err, "Failed to persist completed manifest", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
		return
	}

	o.logger.InfoWithFields("Story generation completed", map[string]interface{}{
		"story_id":     manifest.StoryID,
		"total_scenes": manifest.TotalScenes,
		"duration_ms":  manifest.TotalDurationMs,
	})
}

// synthesizeMedia runs the audio and image batches concurrently. Each batch
// is internally parallel across scenes and never fails.
func (o *storyPipelineOrchestrator) synthesizeMedia(ctx context.Context, scenes []domain.SceneDraft, params inbound.LaunchStoryParams) ([]domain.SceneAudio, []domain.SceneImages) {
	var audioBatch []domain.SceneAudio
	done := make(chan struct{})

	// Own goroutine, not a pool slot: the batch call blocks on per-scene
	// tasks it submits to the shared pool.
	go func() {
		defer close(done)
		audioBatch = o.mediaSynth.SynthesizeAudioBatch(ctx, scenes, params.VoiceGender)
	}()

	imageBatch := o.mediaSynth.SynthesizeImageBatch(ctx, scenes, params.Dimensions)
	<-done

	return audioBatch, imageBatch
}

type sceneUpload struct {
	sceneIndex int
	kind       outbound.MediaKind
	url        string
	err        error
}

// uploadSceneMedia pushes every blob concurrently and zips the URLs back by
// scene index. Any upload failure fails the whole story: a manifest that
// points at missing media is worse than a failed one.
func (o *storyPipelineOrchestrator) uploadSceneMedia(ctx context.Context, storyID string, scenes []domain.SceneDraft,
	audioBatch []domain.SceneAudio, imageBatch []domain.SceneImages) ([]domain.SceneRecord, error) {

	uploads := make(chan sceneUpload, len(scenes)*3)
	for i := range scenes {
		i := i
		scene := scenes[i]

		dispatch := func(kind outbound.MediaKind, data []byte, contentType string) {
			task := func() {
				url, err := o.mediaStore.Upload(ctx, outbound.UploadParams{
					StoryID:     storyID,
					SceneNumber: scene.SceneNumber,
					Kind:        kind,
					Data:        data,
					ContentType: contentType,
				})
				uploads <- sceneUpload{sceneIndex: i, kind: kind, url: url, err: err}
			}
			if err := o.workerPool.Submit(task); err != nil {
				o.logger.Error(err, "Failed to submit upload to worker pool, running inline")
				task()
			}
		}

		dispatch(outbound.AudioMedia, audioBatch[i].Data, "audio/mpeg")
		dispatch(outbound.ColoredImageMedia, imageBatch[i].Colored, "image/jpeg")
		dispatch(outbound.GrayscaleImageMedia, imageBatch[i].Grayscale, "image/jpeg")
	}

	records := make([]domain.SceneRecord, len(scenes))
	for i, scene := range scenes {
		records[i] = domain.SceneRecord{
			SceneNumber:  scene.SceneNumber,
			Text:         scene.Text,
			VisualPrompt: scene.VisualPrompt,
			DurationMs:   EstimateAudioDurationMs(audioBatch[i], scene.Text),
		}
	}

	for n := 0; n < len(scenes)*3; n++ {
		result := <-uploads
		if result.err != nil {
			return nil, result.err
		}
		switch result.kind {
		case outbound.AudioMedia:
			records[result.sceneIndex].AudioURL = result.url
		case outbound.ColoredImageMedia:
			records[result.sceneIndex].ColoredImageURL = result.url
		case outbound.GrayscaleImageMedia:
			records[result.sceneIndex].ImageURL = result.url
		}
	}

	return records, nil
}

func (o *storyPipelineOrchestrator) failStory(ctx context.Context, manifest *domain.StoryManifest, cause error) {
	manifest.Status = domain.StatusFailed
	manifest.Error = cause.Error()
	manifest.UpdatedAt = time.Now().UTC()

	if err := o.storyStore.SaveStory(ctx, manifest); err != nil {
		o.logger.ErrorWithFields(err, "Failed to persist failed status", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
	}
}
