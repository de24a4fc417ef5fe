package services

import (
	"context"
	"sync"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/inbound"
	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/cenkalti/backoff/v4"
)

type sceneMediaSynthesizer struct {
	logger         outbound.LoggerPort
	audioGenerator outbound.AudioGeneratorPort
	imageGenerator outbound.ImageGeneratorPort
	imageProcessor outbound.ImageProcessorPort
	workerPool     outbound.TaskDispatcher
	breaker        *CircuitBreaker
	pipelineConfig *config.PipelineConfig
}

func NewSceneMediaSynthesizer(logger outbound.LoggerPort, audioGenerator outbound.AudioGeneratorPort,
	imageGenerator outbound.ImageGeneratorPort, imageProcessor outbound.ImageProcessorPort,
	workerPool outbound.TaskDispatcher, breaker *CircuitBreaker,
	pipelineConfig *config.PipelineConfig) inbound.SceneMediaSynthesizerPort {
	return &sceneMediaSynthesizer{
		logger:         logger,
		audioGenerator: audioGenerator,
		imageGenerator: imageGenerator,
		imageProcessor: imageProcessor,
		workerPool:     workerPool,
		breaker:        breaker,
		pipelineConfig: pipelineConfig,
	}
}

// SynthesizeAudioBatch fires one narration request per scene, all at once,
// under the overall audio batch timeout. A scene whose synthesis exhausted
// its retries gets the stub clip instead of failing the batch.
func (s *sceneMediaSynthesizer) SynthesizeAudioBatch(ctx context.Context, scenes []domain.SceneDraft, gender domain.VoiceGender) []domain.SceneAudio {
	batchCtx, cancel := context.WithTimeout(ctx, s.pipelineConfig.AudioBatchTimeout)
	defer cancel()

	results := make([]domain.SceneAudio, len(scenes))
	var wg sync.WaitGroup

	for i := range scenes {
		i := i
		scene := scenes[i]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			data, err := s.generateAudioWithRetry(batchCtx, scene, gender)
			if err != nil {
				s.logger.ErrorWithFields(err, "Audio synthesis failed, substituting placeholder", map[string]interface{}{
					"scene": scene.SceneNumber,
				})
				results[i] = domain.SceneAudio{SceneNumber: scene.SceneNumber, Data: PlaceholderAudio(), Placeholder: true}
				return
			}
			results[i] = domain.SceneAudio{SceneNumber: scene.SceneNumber, Data: data}
		}
		if err := s.workerPool.Submit(task); err != nil {
			s.logger.Error(err, "Failed to submit audio task to worker pool, running inline")
			task()
		}
	}

	wg.Wait()
	return results
}

// SynthesizeImageBatch generates one illustration per scene under a
// semaphore bound, respecting the provider circuit breaker. Output order
// matches input order regardless of completion order.
func (s *sceneMediaSynthesizer) SynthesizeImageBatch(ctx context.Context, scenes []domain.SceneDraft, dims domain.Dimensions) []domain.SceneImages {
	batchCtx, cancel := context.WithTimeout(ctx, s.pipelineConfig.ImageBatchTimeout)
	defer cancel()

	results := make([]domain.SceneImages, len(scenes))
	sem := make(chan struct{}, s.pipelineConfig.ImageConcurrency)
	var wg sync.WaitGroup

	for i := range scenes {
		i := i
		scene := scenes[i]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-batchCtx.Done():
				results[i] = s.placeholderImages(scene.SceneNumber, dims)
				return
			}
			results[i] = s.synthesizeSceneImages(batchCtx, scene, dims)
		}
		if err := s.workerPool.Submit(task); err != nil {
			s.logger.Error(err, "Failed to submit image task to worker pool, running inline")
			task()
		}
	}

	wg.Wait()
	return results
}

func (s *sceneMediaSynthesizer) synthesizeSceneImages(ctx context.Context, scene domain.SceneDraft, dims domain.Dimensions) domain.SceneImages {
	if s.breaker.Open() {
		s.logger.WarnWithFields("Image provider circuit open, substituting placeholder", map[string]interface{}{
			"scene": scene.SceneNumber,
		})
		return s.placeholderImages(scene.SceneNumber, dims)
	}

	raw, err := s.generateImageWithRetry(ctx, scene)
	if err != nil {
		s.logger.ErrorWithFields(err, "Image synthesis failed, substituting placeholder", map[string]interface{}{
			"scene": scene.SceneNumber,
		})
		return s.placeholderImages(scene.SceneNumber, dims)
	}

	colored, grayscale, err := s.imageProcessor.Process(raw, dims)
	if err != nil {
		s.logger.ErrorWithFields(err, "Image post-processing failed, substituting placeholder", map[string]interface{}{
			"scene": scene.SceneNumber,
		})
		return s.placeholderImages(scene.SceneNumber, dims)
	}

	return domain.SceneImages{SceneNumber: scene.SceneNumber, Colored: colored, Grayscale: grayscale}
}

func (s *sceneMediaSynthesizer) generateAudioWithRetry(ctx context.Context, scene domain.SceneDraft, gender domain.VoiceGender) ([]byte, error) {
	var data []byte
	operation := func() error {
		generated, err := s.audioGenerator.Generate(ctx, outbound.GenerateAudioParams{
			Text:        scene.Text,
			VoiceGender: gender,
		})
		if err != nil {
			if outbound.IsNonRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		data = generated
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *sceneMediaSynthesizer) generateImageWithRetry(ctx context.Context, scene domain.SceneDraft) ([]byte, error) {
	var data []byte
	operation := func() error {
		generated, err := s.imageGenerator.Generate(ctx, scene.VisualPrompt)
		if err != nil {
			s.breaker.RecordFailure()
			if outbound.IsNonRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		s.breaker.RecordSuccess()
		data = generated
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *sceneMediaSynthesizer) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	// Overload answers (rate limit, GPU exhaustion) keep doubling up to this
	// cap instead of hammering the provider again right away.
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0

	attempts := s.pipelineConfig.MediaRetries
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(bo, attempts-1)
}

func (s *sceneMediaSynthesizer) placeholderImages(sceneNumber int, dims domain.Dimensions) domain.SceneImages {
	colored, grayscale, err := s.imageProcessor.Placeholder(sceneNumber, dims)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to render placeholder image", map[string]interface{}{
			"scene": sceneNumber,
		})
	}
	return domain.SceneImages{SceneNumber: sceneNumber, Colored: colored, Grayscale: grayscale, Placeholder: true}
}

const mp3FrameSize = 417

// PlaceholderAudio returns a deterministic stub clip: a run of silent CBR
// MP3 frames, so the device always has something decodable to play.
func PlaceholderAudio() []byte {
	header := []byte{0xFF, 0xFB, 0x90, 0x64}
	buf := make([]byte, 0, mp3FrameSize*24)
	for i := 0; i < 24; i++ {
		frame := make([]byte, mp3FrameSize)
		copy(frame, header)
		buf = append(buf, frame...)
	}
	return buf
}
