package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/rs/zerolog/log"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsAudioGenerator struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsAudioGenerator(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig) outbound.AudioGeneratorPort {
	return &elevenLabsAudioGenerator{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (a *elevenLabsAudioGenerator) Generate(ctx context.Context, params outbound.GenerateAudioParams) ([]byte, error) {
	req, err := a.getRequest(ctx, params.Text, a.voiceID(params.VoiceGender))
	if err != nil {
		log.Error().Err(err).Str("action", "Fetching Audio").Str("text", params.Text).Msg("Failed to construct the HTTP request for audio fetching")
		return nil, err
	}

	return a.FetchContent(req)
}

func (a *elevenLabsAudioGenerator) voiceID(gender domain.VoiceGender) string {
	if gender == domain.VoiceMale {
		return a.elevenLabsConfig.MaleVoiceID
	}
	return a.elevenLabsConfig.FemaleVoiceID
}

func (a *elevenLabsAudioGenerator) getRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: VoiceSettings{
			Stability:       a.elevenLabsConfig.Stability,
			SimilarityBoost: a.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		log.Error().Err(err).Interface("ElevenLabsRequest", reqBody).Msg("Failed to marshal the request body for ElevenLabs API")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.elevenLabsConfig.ApiUrl+"/"+voiceID, bytes.NewBuffer(jsonPayload))
	if err != nil {
		log.Error().Err(err).Str("URL", a.elevenLabsConfig.ApiUrl+"/"+voiceID).Msg("Failed to create the HTTP POST request")
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":       "audio/mpeg",
		"xi-api-key":   a.elevenLabsConfig.ApiKey,
		"Content-Type": "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}
