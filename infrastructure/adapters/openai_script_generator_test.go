package adapters

import (
	"testing"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScriptGenerator() *openAIScriptGenerator {
	return NewOpenAIScriptGenerator(NewZerologWrapper(), nil, &config.OpenAIConfig{}).(*openAIScriptGenerator)
}

func TestParseScriptPlainJSON(t *testing.T) {
	generator := newTestScriptGenerator()

	script, err := generator.parseScript(`{
		"title": "The Moon Garden",
		"scenes": [
			{"scene_number": 1, "text": "First scene", "visual_prompt": "a garden", "includes_child": true},
			{"scene_number": 2, "text": "Second scene", "visual_prompt": "the moon", "includes_child": false}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "The Moon Garden", script.Title)
	require.Len(t, script.Scenes, 2)
	assert.Equal(t, 1, script.Scenes[0].SceneNumber)
	assert.True(t, script.Scenes[0].IncludesChild)
	assert.Equal(t, "the moon", script.Scenes[1].VisualPrompt)
}

func TestParseScriptStripsCodeFences(t *testing.T) {
	generator := newTestScriptGenerator()

	script, err := generator.parseScript("Here you go:\n```json\n{\"title\":\"T\",\"scenes\":[{\"scene_number\":1,\"text\":\"a\",\"visual_prompt\":\"b\"}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "T", script.Title)
	require.Len(t, script.Scenes, 1)
}

func TestParseScriptRenumbersScenesDensely(t *testing.T) {
	generator := newTestScriptGenerator()

	// The model drifted: numbers are sparse and out of order. Position wins.
	script, err := generator.parseScript(`{
		"title": "T",
		"scenes": [
			{"scene_number": 4, "text": "first by position", "visual_prompt": "a"},
			{"scene_number": 9, "text": "second by position", "visual_prompt": "b"},
			{"scene_number": 2, "text": "third by position", "visual_prompt": "c"}
		]
	}`)
	require.NoError(t, err)

	for i, scene := range script.Scenes {
		assert.Equal(t, i+1, scene.SceneNumber)
	}
	assert.Equal(t, "first by position", script.Scenes[0].Text)
}

func TestParseScriptDefaultsMissingTitle(t *testing.T) {
	generator := newTestScriptGenerator()

	script, err := generator.parseScript(`{"scenes":[{"scene_number":1,"text":"a","visual_prompt":"b"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "A New Story", script.Title)
}

func TestBuildPromptPersonalizesForChildProfile(t *testing.T) {
	generator := newTestScriptGenerator()

	prompt := generator.buildPrompt(outbound.GenerateScriptParams{
		Prompt:    "a trip to the moon",
		ChildName: "Mira",
		ChildAge:  6,
		Interests: []string{"rockets", "dinosaurs"},
		MaxScenes: 5,
	})

	assert.Contains(t, prompt, "Mira")
	assert.Contains(t, prompt, "aged 6")
	assert.Contains(t, prompt, "rockets, dinosaurs")
	assert.Contains(t, prompt, "exactly 5 scenes")

	plain := generator.buildPrompt(outbound.GenerateScriptParams{Prompt: "a trip to the moon", MaxScenes: 5})
	assert.NotContains(t, plain, "main listener", "no profile means no personalization block")
}

func TestParseScriptRejectsBadPayloads(t *testing.T) {
	generator := newTestScriptGenerator()

	_, err := generator.parseScript("the model rambled instead of answering")
	assert.Error(t, err)

	_, err = generator.parseScript(`{"title":"T","scenes":[]}`)
	assert.Error(t, err, "a script with no scenes is unusable")
}
