package outbound

import (
	"context"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

type GenerateAudioParams struct {
	Text        string
	VoiceGender domain.VoiceGender
}

type AudioGeneratorPort interface {
	Generate(ctx context.Context, params GenerateAudioParams) ([]byte, error)
}
