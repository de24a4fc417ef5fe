package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	openai "github.com/sashabaranov/go-openai"
)

const storytellerSystemPrompt = "You are a creative children's storyteller. Create engaging, age-appropriate stories " +
	"that are educational and fun. Structure your story into clear scenes that can be visualized. Each scene should " +
	"be 2-3 sentences long and paint a vivid picture. Keep the language simple and appropriate for children aged 4-10."

type sceneScriptResponse struct {
	Title  string `json:"title"`
	Scenes []struct {
		SceneNumber   int    `json:"scene_number"`
		Text          string `json:"text"`
		VisualPrompt  string `json:"visual_prompt"`
		IncludesChild bool   `json:"includes_child"`
	} `json:"scenes"`
}

type openAIScriptGenerator struct {
	logger       outbound.LoggerPort
	client       *openai.Client
	openAIConfig *config.OpenAIConfig
}

func NewOpenAIScriptGenerator(logger outbound.LoggerPort, client *openai.Client, openAIConfig *config.OpenAIConfig) outbound.SceneScriptGeneratorPort {
	return &openAIScriptGenerator{
		logger:       logger,
		client:       client,
		openAIConfig: openAIConfig,
	}
}

func (g *openAIScriptGenerator) Generate(ctx context.Context, params outbound.GenerateScriptParams) (*domain.SceneScript, error) {
	res, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.openAIConfig.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: storytellerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: g.buildPrompt(params)},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		g.logger.Error(err, "Chat completion request failed")
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	script, err := g.parseScript(res.Choices[0].Message.Content)
	if err != nil {
		g.logger.ErrorWithFields(err, "Failed to parse scene script", map[string]interface{}{
			"raw": res.Choices[0].Message.Content,
		})
		return nil, err
	}

	return script, nil
}

func (g *openAIScriptGenerator) buildPrompt(params outbound.GenerateScriptParams) string {
	var profile strings.Builder
	if params.ChildName != "" {
		fmt.Fprintf(&profile, "\nThe main listener is a child named %s", params.ChildName)
		if params.ChildAge > 0 {
			fmt.Fprintf(&profile, ", aged %d", params.ChildAge)
		}
		profile.WriteString(". Weave them into the story as a character where it feels natural, and mark those scenes with \"includes_child\": true.")
	}
	if len(params.Interests) > 0 {
		fmt.Fprintf(&profile, "\nThe child loves: %s. Let these interests color the story.", strings.Join(params.Interests, ", "))
	}

	return fmt.Sprintf(`Based on this user request: %q
%s
Write a short illustrated story structured as exactly %d scenes. Each scene should be engaging and age-appropriate.

For each scene, provide the scene text and a detailed visual description for image generation in a children's book illustration style, colorful and friendly.

Format your response as valid JSON:
{
  "title": "Story Title",
  "scenes": [
    {
      "scene_number": 1,
      "text": "Scene text here",
      "visual_prompt": "Detailed visual description for image generation",
      "includes_child": false
    }
  ]
}

Make the story educational and positive.`, params.Prompt, profile.String(), params.MaxScenes)
}

func (g *openAIScriptGenerator) parseScript(raw string) (*domain.SceneScript, error) {
	var parsed sceneScriptResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("scene script is not valid JSON: %w", err)
	}
	if len(parsed.Scenes) == 0 {
		return nil, fmt.Errorf("scene script contains no scenes")
	}

	script := &domain.SceneScript{
		Title:  strings.TrimSpace(parsed.Title),
		Scenes: make([]domain.SceneDraft, len(parsed.Scenes)),
	}
	if script.Title == "" {
		script.Title = "A New Story"
	}

	// The model occasionally drifts on numbering; position is authoritative
	// and the numbers are rewritten to a dense 1..N sequence.
	for i, scene := range parsed.Scenes {
		script.Scenes[i] = domain.SceneDraft{
			SceneNumber:   i + 1,
			Text:          strings.TrimSpace(scene.Text),
			VisualPrompt:  strings.TrimSpace(scene.VisualPrompt),
			IncludesChild: scene.IncludesChild,
		}
	}

	return script, nil
}

func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if start := strings.Index(trimmed, "```json"); start >= 0 {
		trimmed = trimmed[start+len("```json"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
	}
	return strings.TrimSpace(trimmed)
}
