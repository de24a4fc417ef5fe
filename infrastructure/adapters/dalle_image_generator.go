package adapters

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	openai "github.com/sashabaranov/go-openai"
)

type dalleImageGenerator struct {
	logger       outbound.LoggerPort
	client       *openai.Client
	openAIConfig *config.OpenAIConfig
}

func NewDalleImageGenerator(logger outbound.LoggerPort, client *openai.Client, openAIConfig *config.OpenAIConfig) outbound.ImageGeneratorPort {
	return &dalleImageGenerator{
		logger:       logger,
		client:       client,
		openAIConfig: openAIConfig,
	}
}

// Generate asks for the image as base64 so the bytes arrive in one response
// instead of through a short-lived download URL.
func (g *dalleImageGenerator) Generate(ctx context.Context, description string) ([]byte, error) {
	prompt := fmt.Sprintf("Children's book illustration style, colorful and friendly, high quality digital art: %s", description)

	res, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.openAIConfig.ImageModel,
		Size:           g.openAIConfig.ImageSize,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		g.logger.Error(err, "Image generation request failed")
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	decoded, err := base64.StdEncoding.DecodeString(res.Data[0].B64JSON)
	if err != nil {
		g.logger.Error(err, "Failed to decode the generated image")
		return nil, err
	}

	return decoded, nil
}
