package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/inbound"
	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/Sukhman-Singh-Narula/STServer/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
)

const defaultPageLimit = 20

type StoriesController interface {
	GenerateStory(c *gin.Context)
	FetchStory(c *gin.Context)
	StoryDetails(c *gin.Context)
	UserStories(c *gin.Context)
	DeleteStory(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type storiesController struct {
	logger         outbound.LoggerPort
	orchestrator   inbound.StoryPipelineOrchestratorPort
	storyStore     outbound.StoryStorePort
	tokenVerifier  outbound.TokenVerifierPort
	pipelineConfig *config.PipelineConfig
}

func NewStoriesController(
	logger outbound.LoggerPort,
	orchestrator inbound.StoryPipelineOrchestratorPort,
	storyStore outbound.StoryStorePort,
	tokenVerifier outbound.TokenVerifierPort,
	pipelineConfig *config.PipelineConfig,
) StoriesController {
	return &storiesController{
		logger:         logger,
		orchestrator:   orchestrator,
		storyStore:     storyStore,
		tokenVerifier:  tokenVerifier,
		pipelineConfig: pipelineConfig,
	}
}

func (s *storiesController) GenerateStory(c *gin.Context) {
	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("firebase_token and prompt are required"))
		return
	}

	userID, err := s.tokenVerifier.Verify(c, req.FirebaseToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid or expired token"))
		return
	}

	storyID, err := s.orchestrator.Launch(c, inbound.LaunchStoryParams{
		UserID:      userID,
		Prompt:      req.Prompt,
		ChildName:   req.ChildName,
		ChildAge:    req.ChildAge,
		Interests:   req.Interests,
		VoiceGender: domain.ParseVoiceGender(req.VoiceGender),
		Dimensions:  domain.ParseDimensions(req.Dimensions, s.pipelineConfig.DefaultDimensions),
	})
	if err != nil {
		s.logger.Error(err, "Failed to launch story pipeline")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to start story generation"))
		return
	}

	c.JSON(http.StatusOK, dto.GenerateStoryResponse{
		Success: true,
		StoryID: storyID,
		Status:  string(domain.StatusProcessing),
		Message: "Story generation started, poll /stories/fetch/" + storyID,
	})
}

// FetchStory is the device polling endpoint. An unfinished story answers 200
// with the current status so the device keeps polling; it is never an error.
func (s *storiesController) FetchStory(c *gin.Context) {
	storyID := c.Param("story_id")

	manifest, err := s.storyStore.GetStory(c, storyID)
	if err != nil {
		s.respondStoreError(c, storyID, err)
		return
	}

	resp := dto.FetchStoryResponse{
		Success: true,
		StoryID: manifest.StoryID,
		Status:  string(manifest.Status),
	}
	switch manifest.Status {
	case domain.StatusCompleted:
		resp.Story = manifest
	case domain.StatusFailed:
		resp.Error = manifest.Error
	}

	c.JSON(http.StatusOK, resp)
}

func (s *storiesController) StoryDetails(c *gin.Context) {
	storyID := c.Param("story_id")

	manifest, err := s.storyStore.GetStory(c, storyID)
	if err != nil {
		s.respondStoreError(c, storyID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"story":   manifest,
	})
}

func (s *storiesController) UserStories(c *gin.Context) {
	userID, err := s.tokenVerifier.Verify(c, c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid or expired token"))
		return
	}

	limit := positiveQueryInt(c, "limit", defaultPageLimit)
	offset := positiveQueryInt(c, "offset", 0)

	page, err := s.storyStore.ListStories(c, userID, limit, offset)
	if err != nil {
		s.logger.Error(err, "Failed to list user stories")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list stories"))
		return
	}

	c.JSON(http.StatusOK, dto.UserStoriesResponse{
		Success:    true,
		Stories:    page.Stories,
		TotalCount: page.TotalCount,
		HasMore:    page.HasMore,
	})
}

func (s *storiesController) DeleteStory(c *gin.Context) {
	userID, err := s.tokenVerifier.Verify(c, c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("invalid or expired token"))
		return
	}

	storyID := c.Param("story_id")
	if err := s.storyStore.DeleteStory(c, storyID, userID); err != nil {
		s.respondStoreError(c, storyID, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteStoryResponse{
		Success: true,
		StoryID: storyID,
		Message: "Story deleted",
	})
}

func (s *storiesController) RegisterRoutes(g *gin.Engine) {
	g.POST("/stories/generate", s.GenerateStory)
	g.GET("/stories/fetch/:story_id", s.FetchStory)
	g.GET("/stories/details/:story_id", s.StoryDetails)
	g.GET("/stories/user/:token", s.UserStories)
	g.DELETE("/stories/user/:token/story/:story_id", s.DeleteStory)
}

func (s *storiesController) respondStoreError(c *gin.Context, storyID string, err error) {
	if errors.Is(err, outbound.ErrStoryNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("story not found"))
		return
	}
	s.logger.ErrorWithFields(err, "Story store request failed", map[string]interface{}{
		"story_id": storyID,
	})
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("storage error"))
}

func positiveQueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
