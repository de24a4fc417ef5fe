package adapters

import (
	"context"
	"io"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	openai "github.com/sashabaranov/go-openai"
)

type openAITtsGenerator struct {
	logger       outbound.LoggerPort
	client       *openai.Client
	openAIConfig *config.OpenAIConfig
}

func NewOpenAITtsGenerator(logger outbound.LoggerPort, client *openai.Client, openAIConfig *config.OpenAIConfig) outbound.AudioGeneratorPort {
	return &openAITtsGenerator{
		logger:       logger,
		client:       client,
		openAIConfig: openAIConfig,
	}
}

func (g *openAITtsGenerator) Generate(ctx context.Context, params outbound.GenerateAudioParams) ([]byte, error) {
	res, err := g.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(g.openAIConfig.TtsModel),
		Input:          params.Text,
		Voice:          g.voice(params.VoiceGender),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		g.logger.Error(err, "OpenAI speech request failed")
		return nil, err
	}
	defer func() {
		if err := res.Close(); err != nil {
			g.logger.Error(err, "Failed to close the speech response body")
		}
	}()

	audio, err := io.ReadAll(res)
	if err != nil {
		g.logger.Error(err, "Failed to read the speech response body")
		return nil, err
	}

	return audio, nil
}

func (g *openAITtsGenerator) voice(gender domain.VoiceGender) openai.SpeechVoice {
	if gender == domain.VoiceMale {
		return openai.VoiceOnyx
	}
	return openai.VoiceNova
}
