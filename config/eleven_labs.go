package config

import (
	"fmt"
	"os"
	"strconv"
)

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	Stability       float64
	SimilarityBoost float64
	FemaleVoiceID   string
	MaleVoiceID     string
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiUrl := os.Getenv("ELEVEN_LABS_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.elevenlabs.io/v1/text-to-speech"
	}
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	modelId := os.Getenv("ELEVEN_LABS_MODEL_ID")
	if modelId == "" {
		modelId = "eleven_monolingual_v1"
	}

	stabilityVal := 0.5
	if stability := os.Getenv("ELEVEN_LABS_STABILITY"); stability != "" {
		parsed, err := strconv.ParseFloat(stability, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse eleven labs stability")
		}
		stabilityVal = parsed
	}
	similarityBoostVal := 0.75
	if similarityBoost := os.Getenv("ELEVEN_LABS_SIMILARITY_BOOST"); similarityBoost != "" {
		parsed, err := strconv.ParseFloat(similarityBoost, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse eleven labs similarity boost")
		}
		similarityBoostVal = parsed
	}

	femaleVoiceID := os.Getenv("ELEVEN_LABS_FEMALE_VOICE_ID")
	if femaleVoiceID == "" {
		femaleVoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	maleVoiceID := os.Getenv("ELEVEN_LABS_MALE_VOICE_ID")
	if maleVoiceID == "" {
		maleVoiceID = "TxGEqnHWrfWFTfGW9XjX"
	}

	return &ElevenLabsConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		ModelId:         modelId,
		Stability:       stabilityVal,
		SimilarityBoost: similarityBoostVal,
		FemaleVoiceID:   femaleVoiceID,
		MaleVoiceID:     maleVoiceID,
	}, nil
}
