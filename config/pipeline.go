package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

// PipelineConfig collects the generation tunables. All timeouts and limits
// live here so the batch policy is stated once instead of drifting per call
// site.
type PipelineConfig struct {
	MaxScenes         int
	ImageConcurrency  int
	MediaRetries      uint64
	AudioBatchTimeout time.Duration
	ImageBatchTimeout time.Duration
	DefaultDimensions domain.Dimensions
	AudioFormat       string
}

func GetPipelineConfig() (*PipelineConfig, error) {
	maxScenes, err := intFromEnv("MAX_SCENES", 6)
	if err != nil {
		return nil, err
	}
	imageConcurrency, err := intFromEnv("IMAGE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	mediaRetries, err := intFromEnv("MEDIA_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	audioTimeoutSecs, err := intFromEnv("AUDIO_BATCH_TIMEOUT_SECONDS", 90)
	if err != nil {
		return nil, err
	}
	imageTimeoutSecs, err := intFromEnv("IMAGE_BATCH_TIMEOUT_SECONDS", 240)
	if err != nil {
		return nil, err
	}

	defaultDims := domain.ParseDimensions(os.Getenv("DEFAULT_IMAGE_DIMENSIONS"), domain.Dimensions{Width: 1024, Height: 1024})

	audioFormat := os.Getenv("AUDIO_FORMAT")
	if audioFormat == "" {
		audioFormat = "mp3"
	}

	return &PipelineConfig{
		MaxScenes:         maxScenes,
		ImageConcurrency:  imageConcurrency,
		MediaRetries:      uint64(mediaRetries),
		AudioBatchTimeout: time.Duration(audioTimeoutSecs) * time.Second,
		ImageBatchTimeout: time.Duration(imageTimeoutSecs) * time.Second,
		DefaultDimensions: defaultDims,
		AudioFormat:       audioFormat,
	}, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s", key)
	}
	return val, nil
}
