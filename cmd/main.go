package main

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/Sukhman-Singh-Narula/STServer/application/services"
	"github.com/Sukhman-Singh-Narula/STServer/config"
	"github.com/Sukhman-Singh-Narula/STServer/infrastructure/adapters"
	"github.com/Sukhman-Singh-Narula/STServer/infrastructure/gin_interface/controllers"
	"github.com/Sukhman-Singh-Narula/STServer/middleware"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

const (
	workerPoolSize          = 120
	breakerFailureThreshold = 5
	breakerWindow           = 5 * time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on process environment")
	}

	openAIConfig, err := config.GetOpenAIConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get openai config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	firebaseConfig, err := config.GetFirebaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get firebase config")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	serverConfig, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get server config")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	// Nonblocking: a saturated pool rejects Submit and the pipeline runs the
	// task inline instead of parking the submitter on a queue.
	workerPool, err := ants.NewPool(workerPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(true))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(s3Config.Region)},
		SharedConfigState: session.SharedConfigEnable,
	}))

	s3Client := s3.New(sess)
	dynamoClient := dynamodb.New(sess)

	openAIClient := openai.NewClient(openAIConfig.ApiKey)

	firebaseApp, err := firebase.NewApp(context.Background(), nil,
		option.WithCredentialsFile(firebaseConfig.CredentialsFile))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize firebase app")
	}
	authClient, err := firebaseApp.Auth(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create firebase auth client")
	}

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	elevenLabsAudio := adapters.NewElevenLabsAudioGenerator(contentFetcher, elevenLabsConfig)
	openAITts := adapters.NewOpenAITtsGenerator(zeroLogger, openAIClient, openAIConfig)
	audioGenerator := adapters.NewFallbackAudioGenerator(zeroLogger, elevenLabsAudio, openAITts)

	imageGenerator := adapters.NewDalleImageGenerator(zeroLogger, openAIClient, openAIConfig)
	imageProcessor := adapters.NewImagingProcessor(zeroLogger)

	scriptGenerator := adapters.NewOpenAIScriptGenerator(zeroLogger, openAIClient, openAIConfig)

	mediaStore := adapters.NewS3MediaStore(s3Client, s3Config, pipelineConfig)
	storyStore := adapters.NewDynamoStoryStore(zeroLogger, dynamoClient, dynamoConfig)
	tokenVerifier := adapters.NewFirebaseTokenVerifier(zeroLogger, authClient)

	imageBreaker := services.NewCircuitBreaker(breakerFailureThreshold, breakerWindow)

	mediaSynthesizer := services.NewSceneMediaSynthesizer(zeroLogger, audioGenerator, imageGenerator,
		imageProcessor, workerPool, imageBreaker, pipelineConfig)

	orchestrator := services.NewStoryPipelineOrchestrator(zeroLogger, workerPool, scriptGenerator,
		mediaSynthesizer, mediaStore, storyStore, pipelineConfig)

	storiesController := controllers.NewStoriesController(zeroLogger, orchestrator, storyStore,
		tokenVerifier, pipelineConfig)
	healthController := controllers.NewHealthController(openAIConfig, elevenLabsConfig, s3Config, dynamoConfig)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies")
	}

	router.Use(middleware.NewCorsMiddleware(serverConfig.CorsOrigins))

	storiesController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	zeroLogger.InfoWithFields("Starting server", map[string]interface{}{
		"port": serverConfig.Port,
	})

	if err := router.Run(":" + serverConfig.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
