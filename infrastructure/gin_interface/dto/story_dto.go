package dto

import "github.com/Sukhman-Singh-Narula/STServer/domain"

type GenerateStoryRequest struct {
	FirebaseToken string   `json:"firebase_token" binding:"required"`
	Prompt        string   `json:"prompt" binding:"required"`
	VoiceGender   string   `json:"voice_gender"`
	Dimensions    string   `json:"dimensions"`
	ChildName     string   `json:"child_name"`
	ChildAge      int      `json:"child_age"`
	Interests     []string `json:"interests"`
}

type GenerateStoryResponse struct {
	Success bool   `json:"success"`
	StoryID string `json:"story_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FetchStoryResponse is what the device polls. Story is only present once
// generation has completed.
type FetchStoryResponse struct {
	Success bool                  `json:"success"`
	StoryID string                `json:"story_id"`
	Status  string                `json:"status"`
	Story   *domain.StoryManifest `json:"story,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type UserStoriesResponse struct {
	Success    bool                  `json:"success"`
	Stories    []domain.StorySummary `json:"stories"`
	TotalCount int                   `json:"total_count"`
	HasMore    bool                  `json:"has_more"`
}

type DeleteStoryResponse struct {
	Success bool   `json:"success"`
	StoryID string `json:"story_id"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}
