package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"travel_dialogue_engine/internal/config"
	"travel_dialogue_engine/src"
	"travel_dialogue_engine/src/conversation"
	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/llm"
	"travel_dialogue_engine/src/llm/advisor"
	"travel_dialogue_engine/src/llm/nlu"
	"travel_dialogue_engine/src/logger"
	"travel_dialogue_engine/src/storage"
	"travel_dialogue_engine/src/travel"
)

const bookingArchiveDir = "data/bookings"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	ctx := context.Background()

	// Load configuration from config.yaml
	yamlConfig, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Printf("Error loading config.yaml: %v\n", err)
		return
	}

	if err := logger.InitLogger(config.BuildLogConfig(yamlConfig)); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return
	}

	secrets, err := src.LoadSecrets()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load secrets")
	}

	modelConfig := config.BuildModelConfig(yamlConfig, secrets.OpenAIAPIKey, secrets.OpenAIBaseURL)
	nluConfig := config.BuildNLUConfig(yamlConfig)
	advisorConfig := config.BuildAdvisorConfig(yamlConfig)
	sessionConfig := config.BuildSessionConfig(yamlConfig)
	travelConfig := config.BuildTravelConfig(yamlConfig)

	chatModel, err := llm.NewChatModel(ctx, modelConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create chat model")
	}

	extractor, err := nlu.NewExtractor(ctx, chatModel, nluConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create NLU extractor")
	}

	var strategy dialogue.Strategy = dialogue.NewRuleStrategy()
	if advisorConfig.Enabled {
		oracle, err := advisor.NewOracle(ctx, chatModel)
		if err != nil {
			logger.Warn().Err(err).Msg("Advisor oracle unavailable, using rule strategy")
		} else {
			strategy = dialogue.NewAdvisorStrategy(oracle, time.Duration(advisorConfig.TimeoutSeconds)*time.Second)
		}
	}

	ttl := time.Duration(sessionConfig.TTLMinutes) * time.Minute

	// Redis when reachable, in-process stores otherwise.
	var sessions conversation.SessionStore
	var repo conversation.Repository
	if redisSessions, err := storage.NewRedisSessionStore(ctx, ttl); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, sessions stay in memory")
		sessions = storage.NewMemorySessionStore(ttl)
		repo = conversation.NewMemoryRepository()
	} else {
		defer redisSessions.Close()
		sessions = redisSessions
		redisRepo, err := conversation.NewRedisRepository(ctx, ttl)
		if err != nil {
			logger.Warn().Err(err).Msg("Falling back to in-memory history")
			repo = conversation.NewMemoryRepository()
		} else {
			repo = redisRepo
		}
	}

	var searcher conversation.TravelSearcher
	if secrets.AmadeusAPIKey != "" && secrets.AmadeusSecret != "" {
		searcher = travel.NewClient(travelConfig, secrets.AmadeusAPIKey, secrets.AmadeusSecret)
	} else {
		logger.Warn().Msg("Amadeus credentials missing, replies skip live results")
	}

	service := conversation.NewService(conversation.ServiceConfig{
		Repository: repo,
		Sessions:   sessions,
		Extractor:  extractor,
		Strategy:   strategy,
		Context:    conversation.NewNLUContextStrategy(sessionConfig.MaxTurns),
		Travel:     searcher,
		Archive:    storage.NewArchive(bookingArchiveDir),
	})

	conversationID := uuid.NewString()
	if customerID := os.Getenv("CUSTOMER_ID"); customerID != "" {
		if err := service.BindCustomer(ctx, conversationID, customerID); err != nil {
			logger.Warn().Err(err).Msg("Failed to bind customer")
		}
	}

	logger.Info().
		Str("conversation_id", conversationID).
		Str("provider", modelConfig.Provider).
		Str("model", modelConfig.Model).
		Msg("Starting conversation")

	fmt.Println("Travel assistant ready. I can book flights, accommodation and activities, or compare two cities.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		result, err := service.ProcessTurn(ctx, conversationID, line)
		if err != nil {
			logger.Error().Err(err).Msg("Turn failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}

		fmt.Println(result.Reply())
		if result.Ended {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Msg("Input error")
	}
}
