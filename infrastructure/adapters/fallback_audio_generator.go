package adapters

import (
	"context"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
)

// fallbackAudioGenerator tries the primary TTS backend and fails over to the
// secondary on any error. The per-item retry policy sits above this in the
// media synthesizer, so one Generate call here makes at most one attempt per
// backend.
type fallbackAudioGenerator struct {
	logger    outbound.LoggerPort
	primary   outbound.AudioGeneratorPort
	secondary outbound.AudioGeneratorPort
}

func NewFallbackAudioGenerator(logger outbound.LoggerPort, primary outbound.AudioGeneratorPort,
	secondary outbound.AudioGeneratorPort) outbound.AudioGeneratorPort {
	return &fallbackAudioGenerator{
		logger:    logger,
		primary:   primary,
		secondary: secondary,
	}
}

func (f *fallbackAudioGenerator) Generate(ctx context.Context, params outbound.GenerateAudioParams) ([]byte, error) {
	audio, err := f.primary.Generate(ctx, params)
	if err == nil {
		return audio, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	f.logger.ErrorWithFields(err, "Primary TTS backend failed, trying fallback", map[string]interface{}{
		"text_len": len(params.Text),
	})

	return f.secondary.Generate(ctx, params)
}
