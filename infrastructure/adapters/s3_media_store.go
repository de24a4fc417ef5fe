package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Anything below these sizes is assumed to be a truncated or corrupt blob
// rather than real media.
const (
	minImageBytes = 1000
	minAudioBytes = 500
)

type s3MediaStore struct {
	s3Svc          *s3.S3
	s3Config       *config.S3Config
	pipelineConfig *config.PipelineConfig
}

func NewS3MediaStore(s3Svc *s3.S3, s3Config *config.S3Config, pipelineConfig *config.PipelineConfig) outbound.MediaStorePort {
	return &s3MediaStore{
		s3Svc:          s3Svc,
		s3Config:       s3Config,
		pipelineConfig: pipelineConfig,
	}
}

func (s *s3MediaStore) Upload(ctx context.Context, params outbound.UploadParams) (string, error) {
	itemPath := s.objectPath(params)

	if err := s.checkPlausibleSize(params); err != nil {
		return "", &outbound.UploadError{StoryID: params.StoryID, SceneNumber: params.SceneNumber, Kind: params.Kind, Path: itemPath, Err: err}
	}

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          bytes.NewReader(params.Data),
		ContentLength: aws.Int64(int64(len(params.Data))),
		ContentType:   aws.String(params.ContentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("key", itemPath).
			Msg("Failed to upload object to S3")
		return "", &outbound.UploadError{StoryID: params.StoryID, SceneNumber: params.SceneNumber, Kind: params.Kind, Path: itemPath, Err: err}
	}

	// Confirm the object landed before handing its URL to the manifest.
	_, err = s.s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(itemPath),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("key", itemPath).
			Msg("Upload completed but object verification failed")
		return "", &outbound.UploadError{StoryID: params.StoryID, SceneNumber: params.SceneNumber, Kind: params.Kind, Path: itemPath, Err: err}
	}

	publicUrl := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, itemPath)
	log.Debug().
		Str("url", publicUrl).
		Msg("Successfully uploaded object to S3")

	return publicUrl, nil
}

func (s *s3MediaStore) checkPlausibleSize(params outbound.UploadParams) error {
	minSize := minImageBytes
	if params.Kind == outbound.AudioMedia {
		minSize = minAudioBytes
	}
	if len(params.Data) < minSize {
		return fmt.Errorf("media payload too small: %d bytes", len(params.Data))
	}
	return nil
}

func (s *s3MediaStore) objectPath(params outbound.UploadParams) string {
	switch params.Kind {
	case outbound.AudioMedia:
		return fmt.Sprintf("stories/%s/audio/scene_%d.%s", params.StoryID, params.SceneNumber, s.pipelineConfig.AudioFormat)
	case outbound.ColoredImageMedia:
		return fmt.Sprintf("stories/%s/images/scene_%d_colored.jpg", params.StoryID, params.SceneNumber)
	default:
		return fmt.Sprintf("stories/%s/images/scene_%d_grayscale.jpg", params.StoryID, params.SceneNumber)
	}
}
