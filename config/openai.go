package config

import (
	"fmt"
	"os"
)

type OpenAIConfig struct {
	ApiKey     string
	ChatModel  string
	ImageModel string
	ImageSize  string
	TtsModel   string
}

func GetOpenAIConfig() (*OpenAIConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	chatModel := os.Getenv("OPENAI_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "gpt-4"
	}
	imageModel := os.Getenv("OPENAI_IMAGE_MODEL")
	if imageModel == "" {
		imageModel = "dall-e-3"
	}
	imageSize := os.Getenv("OPENAI_IMAGE_SIZE")
	if imageSize == "" {
		imageSize = "1024x1024"
	}
	ttsModel := os.Getenv("OPENAI_TTS_MODEL")
	if ttsModel == "" {
		ttsModel = "tts-1"
	}

	return &OpenAIConfig{
		ApiKey:     apiKey,
		ChatModel:  chatModel,
		ImageModel: imageModel,
		ImageSize:  imageSize,
		TtsModel:   ttsModel,
	}, nil
}
