package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/Sukhman-Singh-Narula/STServer/infrastructure/adapters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task func()) error {
	task()
	return nil
}

type stubAudioGenerator struct {
	calls int32
	fail  bool
}

func (g *stubAudioGenerator) Generate(_ context.Context, params outbound.GenerateAudioParams) ([]byte, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.fail {
		return nil, errors.New("synthesis unavailable")
	}
	return []byte("audio:" + params.Text), nil
}

type stubImageGenerator struct {
	calls int32
	err   error
}

func (g *stubImageGenerator) Generate(_ context.Context, description string) ([]byte, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.err != nil {
		return nil, g.err
	}
	return []byte("raw:" + description), nil
}

type stubImageProcessor struct{}

func (stubImageProcessor) Process(data []byte, _ domain.Dimensions) ([]byte, []byte, error) {
	return append([]byte("colored:"), data...), append([]byte("gray:"), data...), nil
}

func (stubImageProcessor) Placeholder(sceneNumber int, _ domain.Dimensions) ([]byte, []byte, error) {
	tag := []byte(fmt.Sprintf("placeholder:%d", sceneNumber))
	return tag, tag, nil
}

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{
		MaxScenes:         6,
		ImageConcurrency:  2,
		MediaRetries:      1,
		AudioBatchTimeout: 5 * time.Second,
		ImageBatchTimeout: 5 * time.Second,
		DefaultDimensions: domain.Dimensions{Width: 640, Height: 480},
		AudioFormat:       "mp3",
	}
}

func testScenes(n int) []domain.SceneDraft {
	scenes := make([]domain.SceneDraft, n)
	for i := range scenes {
		scenes[i] = domain.SceneDraft{
			SceneNumber:  i + 1,
			Text:         fmt.Sprintf("scene %d text", i+1),
			VisualPrompt: fmt.Sprintf("scene %d illustration", i+1),
		}
	}
	return scenes
}

func newTestSynthesizer(audio outbound.AudioGeneratorPort, image outbound.ImageGeneratorPort,
	breaker *CircuitBreaker) *sceneMediaSynthesizer {
	logger := adapters.NewZerologWrapper()
	if breaker == nil {
		breaker = NewCircuitBreaker(5, 5*time.Minute)
	}
	return NewSceneMediaSynthesizer(logger, audio, image, stubImageProcessor{},
		inlineDispatcher{}, breaker, testPipelineConfig()).(*sceneMediaSynthesizer)
}

func TestSynthesizeAudioBatchPreservesOrder(t *testing.T) {
	synth := newTestSynthesizer(&stubAudioGenerator{}, &stubImageGenerator{}, nil)
	scenes := testScenes(4)

	batch := synth.SynthesizeAudioBatch(context.Background(), scenes, domain.VoiceFemale)

	require.Len(t, batch, len(scenes))
	for i, audio := range batch {
		assert.Equal(t, scenes[i].SceneNumber, audio.SceneNumber)
		assert.False(t, audio.Placeholder)
		assert.Equal(t, []byte("audio:"+scenes[i].Text), audio.Data)
	}
}

func TestSynthesizeAudioBatchSubstitutesPlaceholderOnFailure(t *testing.T) {
	synth := newTestSynthesizer(&stubAudioGenerator{fail: true}, &stubImageGenerator{}, nil)
	scenes := testScenes(3)

	batch := synth.SynthesizeAudioBatch(context.Background(), scenes, domain.VoiceMale)

	require.Len(t, batch, len(scenes))
	for i, audio := range batch {
		assert.Equal(t, scenes[i].SceneNumber, audio.SceneNumber)
		assert.True(t, audio.Placeholder, "failed scene must carry the stub clip")
		assert.Equal(t, PlaceholderAudio(), audio.Data)
	}
}

func TestSynthesizeImageBatchSuccess(t *testing.T) {
	imageGen := &stubImageGenerator{}
	synth := newTestSynthesizer(&stubAudioGenerator{}, imageGen, nil)
	scenes := testScenes(5)

	batch := synth.SynthesizeImageBatch(context.Background(), scenes, domain.Dimensions{Width: 640, Height: 480})

	require.Len(t, batch, len(scenes))
	for i, images := range batch {
		assert.Equal(t, scenes[i].SceneNumber, images.SceneNumber)
		assert.False(t, images.Placeholder)
		assert.Equal(t, []byte("colored:raw:"+scenes[i].VisualPrompt), images.Colored)
		assert.Equal(t, []byte("gray:raw:"+scenes[i].VisualPrompt), images.Grayscale)
	}
}

func TestSynthesizeImageBatchTotalFailureYieldsAllPlaceholders(t *testing.T) {
	imageGen := &stubImageGenerator{err: errors.New("provider down")}
	synth := newTestSynthesizer(&stubAudioGenerator{}, imageGen, nil)
	scenes := testScenes(4)

	batch := synth.SynthesizeImageBatch(context.Background(), scenes, domain.Dimensions{Width: 640, Height: 480})

	require.Len(t, batch, len(scenes), "a failing provider must never shrink the batch")
	for i, images := range batch {
		assert.Equal(t, scenes[i].SceneNumber, images.SceneNumber)
		assert.True(t, images.Placeholder)
		assert.Equal(t, []byte(fmt.Sprintf("placeholder:%d", scenes[i].SceneNumber)), images.Colored)
	}
}

func TestSynthesizeImageBatchSkipsProviderWhenCircuitOpen(t *testing.T) {
	imageGen := &stubImageGenerator{}
	breaker := NewCircuitBreaker(1, 5*time.Minute)
	breaker.RecordFailure()
	breaker.RecordFailure()

	synth := newTestSynthesizer(&stubAudioGenerator{}, imageGen, breaker)
	scenes := testScenes(3)

	batch := synth.SynthesizeImageBatch(context.Background(), scenes, domain.Dimensions{Width: 640, Height: 480})

	assert.Equal(t, int32(0), atomic.LoadInt32(&imageGen.calls), "open circuit must not reach the provider")
	for _, images := range batch {
		assert.True(t, images.Placeholder)
	}
}

func TestGenerateImageWithRetryStopsOnNonRetryable(t *testing.T) {
	imageGen := &stubImageGenerator{err: &outbound.ProviderError{StatusCode: 400, Message: "bad prompt"}}
	synth := newTestSynthesizer(&stubAudioGenerator{}, imageGen, nil)
	synth.pipelineConfig.MediaRetries = 3

	_, err := synth.generateImageWithRetry(context.Background(), testScenes(1)[0])

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&imageGen.calls), "a 4xx answer must not be retried")
}

func TestGenerateAudioWithRetryRetriesTransientErrors(t *testing.T) {
	gen := &stubAudioGenerator{fail: true}
	synth := newTestSynthesizer(gen, &stubImageGenerator{}, nil)
	synth.pipelineConfig.MediaRetries = 3

	_, err := synth.generateAudioWithRetry(context.Background(), testScenes(1)[0], domain.VoiceFemale)

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&gen.calls), "transient failures must use every attempt")
}
