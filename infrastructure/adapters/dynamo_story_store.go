package adapters

import (
	"context"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

type dynamoSceneItem struct {
	SceneNumber     int    `dynamodbav:"scene_number"`
	Text            string `dynamodbav:"text"`
	VisualPrompt    string `dynamodbav:"visual_prompt"`
	AudioUrl        string `dynamodbav:"audio_url"`
	ImageUrl        string `dynamodbav:"image_url"`
	ColoredImageUrl string `dynamodbav:"colored_image_url"`
	StartTimeMs     int64  `dynamodbav:"start_time_ms"`
	DurationMs      int64  `dynamodbav:"duration_ms"`
}

type dynamoStoryItem struct {
	StoryId         string            `dynamodbav:"story_id"`
	UserId          string            `dynamodbav:"user_id"`
	Title           string            `dynamodbav:"title"`
	UserPrompt      string            `dynamodbav:"user_prompt"`
	TotalScenes     int               `dynamodbav:"total_scenes"`
	TotalDurationMs int64             `dynamodbav:"total_duration_ms"`
	Scenes          []dynamoSceneItem `dynamodbav:"scenes"`
	Status          string            `dynamodbav:"status"`
	Error           string            `dynamodbav:"error,omitempty"`
	ThumbnailUrl    string            `dynamodbav:"thumbnail_url,omitempty"`
	CreatedAt       int64             `dynamodbav:"created_at"`
	UpdatedAt       int64             `dynamodbav:"updated_at"`
}

type dynamoUserIndexItem struct {
	UserId     string   `dynamodbav:"user_id"`
	// Stored as a list, not a set: insertion order is how we know which
	// stories are newest.
	StoryIds   []string `dynamodbav:"story_ids"`
	StoryCount int      `dynamodbav:"story_count"`
}

type dynamoStoryStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

func NewDynamoStoryStore(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.StoryStorePort {
	return &dynamoStoryStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

// SaveStory upserts the manifest document, then unions the story id into the
// user's index. Both writes are idempotent, so re-running for the same story
// id is safe.
func (s *dynamoStoryStore) SaveStory(ctx context.Context, manifest *domain.StoryManifest) error {
	item := storyItemFromManifest(manifest)
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal story item", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
		return err
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.StoriesTableName),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save story item", map[string]interface{}{
			"story_id": manifest.StoryID,
		})
		return err
	}

	return s.unionIntoUserIndex(ctx, manifest.UserID, manifest.StoryID)
}

func (s *dynamoStoryStore) GetStory(ctx context.Context, storyID string) (*domain.StoryManifest, error) {
	out, err := s.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.StoriesTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"story_id": {S: aws.String(storyID)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to fetch story item", map[string]interface{}{
			"story_id": storyID,
		})
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, outbound.ErrStoryNotFound
	}

	var item dynamoStoryItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal story item", map[string]interface{}{
			"story_id": storyID,
		})
		return nil, err
	}

	return manifestFromStoryItem(&item), nil
}

func (s *dynamoStoryStore) ListStories(ctx context.Context, userID string, limit int, offset int) (*domain.StoryPage, error) {
	index, err := s.getUserIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	newestFirst := index.NewestFirst()
	total := len(newestFirst)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := &domain.StoryPage{
		Stories:    make([]domain.StorySummary, 0, end-offset),
		TotalCount: total,
		HasMore:    end < total,
	}

	for _, storyID := range newestFirst[offset:end] {
		manifest, err := s.GetStory(ctx, storyID)
		if err == outbound.ErrStoryNotFound {
			// Dangling index entry, likely from a crashed delete. Skip it
			// rather than failing the whole page.
			s.logger.WarnWithFields("Story in user index has no document", map[string]interface{}{
				"user_id":  userID,
				"story_id": storyID,
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		page.Stories = append(page.Stories, domain.StorySummary{
			StoryID:      manifest.StoryID,
			Title:        manifest.Title,
			UserPrompt:   manifest.UserPrompt,
			TotalScenes:  manifest.TotalScenes,
			Status:       manifest.Status,
			ThumbnailURL: manifest.ThumbnailURL,
			CreatedAt:    manifest.CreatedAt,
		})
	}

	return page, nil
}

// DeleteStory removes the index entry first and the document last, so a
// crash mid-sequence leaves a sweepable orphan document instead of a
// dangling index reference.
func (s *dynamoStoryStore) DeleteStory(ctx context.Context, storyID string, userID string) error {
	manifest, err := s.GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if manifest.UserID != userID {
		return outbound.ErrStoryNotFound
	}

	index, err := s.getUserIndex(ctx, userID)
	if err != nil {
		return err
	}
	index.Remove(storyID)
	if err := s.putUserIndex(ctx, index); err != nil {
		return err
	}

	_, err = s.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.dynamoConfig.StoriesTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"story_id": {S: aws.String(storyID)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to delete story item", map[string]interface{}{
			"story_id": storyID,
		})
		return err
	}

	return nil
}

func (s *dynamoStoryStore) unionIntoUserIndex(ctx context.Context, userID string, storyID string) error {
	index, err := s.getUserIndex(ctx, userID)
	if err != nil {
		return err
	}
	if !index.Union(storyID) {
		return nil
	}
	return s.putUserIndex(ctx, index)
}

func (s *dynamoStoryStore) getUserIndex(ctx context.Context, userID string) (*domain.UserStoryIndex, error) {
	out, err := s.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.dynamoConfig.UsersTableName),
		Key: map[string]*dynamodb.AttributeValue{
			"user_id": {S: aws.String(userID)},
		},
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to fetch user index", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(out.Item) == 0 {
		return &domain.UserStoryIndex{UserID: userID}, nil
	}

	var item dynamoUserIndexItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		s.logger.ErrorWithFields(err, "Failed to unmarshal user index", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return &domain.UserStoryIndex{
		UserID:     item.UserId,
		StoryIDs:   item.StoryIds,
		StoryCount: item.StoryCount,
	}, nil
}

func (s *dynamoStoryStore) putUserIndex(ctx context.Context, index *domain.UserStoryIndex) error {
	av, err := dynamodbattribute.MarshalMap(dynamoUserIndexItem{
		UserId:     index.UserID,
		StoryIds:   index.StoryIDs,
		StoryCount: index.StoryCount,
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to marshal user index", map[string]interface{}{
			"user_id": index.UserID,
		})
		return err
	}

	_, err = s.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(s.dynamoConfig.UsersTableName),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save user index", map[string]interface{}{
			"user_id": index.UserID,
		})
		return err
	}

	return nil
}

func storyItemFromManifest(manifest *domain.StoryManifest) dynamoStoryItem {
	scenes := make([]dynamoSceneItem, len(manifest.Scenes))
	for i, scene := range manifest.Scenes {
		scenes[i] = dynamoSceneItem{
			SceneNumber:     scene.SceneNumber,
			Text:            scene.Text,
			VisualPrompt:    scene.VisualPrompt,
			AudioUrl:        scene.AudioURL,
			ImageUrl:        scene.ImageURL,
			ColoredImageUrl: scene.ColoredImageURL,
			StartTimeMs:     scene.StartTimeMs,
			DurationMs:      scene.DurationMs,
		}
	}
	return dynamoStoryItem{
		StoryId:         manifest.StoryID,
		UserId:          manifest.UserID,
		Title:           manifest.Title,
		UserPrompt:      manifest.UserPrompt,
		TotalScenes:     manifest.TotalScenes,
		TotalDurationMs: manifest.TotalDurationMs,
		Scenes:          scenes,
		Status:          string(manifest.Status),
		Error:           manifest.Error,
		ThumbnailUrl:    manifest.ThumbnailURL,
		CreatedAt:       manifest.CreatedAt.Unix(),
		UpdatedAt:       manifest.UpdatedAt.Unix(),
	}
}

func manifestFromStoryItem(item *dynamoStoryItem) *domain.StoryManifest {
	scenes := make([]domain.SceneRecord, len(item.Scenes))
	for i, scene := range item.Scenes {
		scenes[i] = domain.SceneRecord{
			SceneNumber:     scene.SceneNumber,
			Text:            scene.Text,
			VisualPrompt:    scene.VisualPrompt,
			AudioURL:        scene.AudioUrl,
			ImageURL:        scene.ImageUrl,
			ColoredImageURL: scene.ColoredImageUrl,
			StartTimeMs:     scene.StartTimeMs,
			DurationMs:      scene.DurationMs,
		}
	}
	return &domain.StoryManifest{
		StoryID:         item.StoryId,
		UserID:          item.UserId,
		Title:           item.Title,
		UserPrompt:      item.UserPrompt,
		TotalScenes:     item.TotalScenes,
		TotalDurationMs: item.TotalDurationMs,
		Scenes:          scenes,
		Status:          domain.StoryStatus(item.Status),
		Error:           item.Error,
		ThumbnailURL:    item.ThumbnailUrl,
		CreatedAt:       time.Unix(item.CreatedAt, 0).UTC(),
		UpdatedAt:       time.Unix(item.UpdatedAt, 0).UTC(),
	}
}
