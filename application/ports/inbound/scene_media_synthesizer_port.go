package inbound

import (
	"context"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

// SceneMediaSynthesizerPort fans out audio and image synthesis over the
// scenes of one story. Both batch calls return a slice of the same length
// and order as the input and never fail: a scene whose synthesis exhausted
// its retries carries a deterministic placeholder instead.
type SceneMediaSynthesizerPort interface {
	SynthesizeAudioBatch(ctx context.Context, scenes []domain.SceneDraft, gender domain.VoiceGender) []domain.SceneAudio
	SynthesizeImageBatch(ctx context.Context, scenes []domain.SceneDraft, dims domain.Dimensions) []domain.SceneImages
}
