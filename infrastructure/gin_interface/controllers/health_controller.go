package controllers

import (
	"net/http"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/gin-gonic/gin"
)

type HealthController interface {
	Health(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type healthController struct {
	openAiConfig     *config.OpenAIConfig
	elevenLabsConfig *config.ElevenLabsConfig
	s3Config         *config.S3Config
	dynamoConfig     *config.DynamoConfig
}

func NewHealthController(
	openAiConfig *config.OpenAIConfig,
	elevenLabsConfig *config.ElevenLabsConfig,
	s3Config *config.S3Config,
	dynamoConfig *config.DynamoConfig,
) HealthController {
	return &healthController{
		openAiConfig:     openAiConfig,
		elevenLabsConfig: elevenLabsConfig,
		s3Config:         s3Config,
		dynamoConfig:     dynamoConfig,
	}
}

func (h *healthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"openai":        h.openAiConfig.ApiKey != "",
			"eleven_labs":   h.elevenLabsConfig.ApiKey != "",
			"s3_bucket":     h.s3Config.BucketName,
			"region":        h.s3Config.Region,
			"stories_table": h.dynamoConfig.StoriesTableName,
			"users_table":   h.dynamoConfig.UsersTableName,
		},
	})
}

func (h *healthController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", h.Health)
}
