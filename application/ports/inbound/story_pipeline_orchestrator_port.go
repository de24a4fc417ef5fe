package inbound

import (
	"context"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

type LaunchStoryParams struct {
	UserID      string
	Prompt      string
	ChildName   string
	ChildAge    int
	Interests   []string
	VoiceGender domain.VoiceGender
	Dimensions  domain.Dimensions
}

// StoryPipelineOrchestratorPort accepts a generation request, persists the
// initial processing manifest and dispatches the rest of the work to the
// background. The returned story id is immediately fetchable.
type StoryPipelineOrchestratorPort interface {
	Launch(ctx context.Context, params LaunchStoryParams) (string, error)
}
