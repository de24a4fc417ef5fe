package outbound

import (
	"context"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

type GenerateScriptParams struct {
	Prompt    string
	ChildName string
	ChildAge  int
	Interests []string
	MaxScenes int
}

// SceneScriptGeneratorPort turns a user prompt into a titled list of scene
// drafts with dense 1..N scene numbers.
type SceneScriptGeneratorPort interface {
	Generate(ctx context.Context, params GenerateScriptParams) (*domain.SceneScript, error)
}
