package config

import (
	"fmt"
	"os"

	"travel_dialogue_engine/src/model"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of config.yaml
type YAMLConfig struct {
	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		Output     string `yaml:"output"`
		TimeFormat string `yaml:"time_format"`
		FilePath   string `yaml:"file_path"`
	} `yaml:"log"`
	Model struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		BaseURL     string  `yaml:"base_url"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"model"`
	NLU struct {
		TupleDelimiter      string  `yaml:"tuple_delimiter"`
		RecordDelimiter     string  `yaml:"record_delimiter"`
		CompletionDelimiter string  `yaml:"completion_delimiter"`
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
		MaxInputLength      int     `yaml:"max_input_length"`
	} `yaml:"nlu"`
	Advisor struct {
		Enabled        bool `yaml:"enabled"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"advisor"`
	Session struct {
		TTLMinutes int `yaml:"ttl_minutes"`
		MaxTurns   int `yaml:"max_turns"`
	} `yaml:"session"`
	Travel struct {
		BaseURL        string `yaml:"base_url"`
		GeocodeURL     string `yaml:"geocode_url"`
		RadiusKM       int    `yaml:"radius_km"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"travel"`
}

// LoadConfig loads configuration from config.yaml
func LoadConfig(filepath string) (*YAMLConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config YAMLConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	return &config, nil
}

// BuildLogConfig creates LogConfig from YAML config with default values
func BuildLogConfig(yamlConfig *YAMLConfig) model.LogConfig {
	cfg := model.LogConfig{
		Level:      yamlConfig.Log.Level,
		Format:     yamlConfig.Log.Format,
		Output:     yamlConfig.Log.Output,
		TimeFormat: yamlConfig.Log.TimeFormat,
		FilePath:   yamlConfig.Log.FilePath,
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "rfc3339"
	}
	if cfg.FilePath == "" {
		cfg.FilePath = "logs/app.log"
	}
	return cfg
}

// BuildModelConfig creates ChatModelConfig from YAML config and environment variables
func BuildModelConfig(yamlConfig *YAMLConfig, apiKey, baseURL string) model.ChatModelConfig {
	cfg := model.ChatModelConfig{
		Provider:    yamlConfig.Model.Provider,
		Model:       yamlConfig.Model.Model,
		BaseURL:     yamlConfig.Model.BaseURL,
		MaxTokens:   yamlConfig.Model.MaxTokens,
		Temperature: yamlConfig.Model.Temperature,
		APIKey:      apiKey,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-3.5-turbo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	return cfg
}

// BuildNLUConfig creates NLUConfig from YAML config with default values
func BuildNLUConfig(yamlConfig *YAMLConfig) model.NLUConfig {
	cfg := model.NLUConfig{
		TupleDelimiter:      yamlConfig.NLU.TupleDelimiter,
		RecordDelimiter:     yamlConfig.NLU.RecordDelimiter,
		CompletionDelimiter: yamlConfig.NLU.CompletionDelimiter,
		ConfidenceThreshold: yamlConfig.NLU.ConfidenceThreshold,
		MaxInputLength:      yamlConfig.NLU.MaxInputLength,
	}
	if cfg.TupleDelimiter == "" {
		cfg.TupleDelimiter = "<||>"
	}
	if cfg.RecordDelimiter == "" {
		cfg.RecordDelimiter = "##"
	}
	if cfg.CompletionDelimiter == "" {
		cfg.CompletionDelimiter = "<|COMPLETE|>"
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.3
	}
	if cfg.MaxInputLength == 0 {
		cfg.MaxInputLength = 1000
	}
	return cfg
}

// BuildAdvisorConfig creates AdvisorConfig from YAML config with default values
func BuildAdvisorConfig(yamlConfig *YAMLConfig) model.AdvisorConfig {
	cfg := model.AdvisorConfig{
		Enabled:        yamlConfig.Advisor.Enabled,
		TimeoutSeconds: yamlConfig.Advisor.TimeoutSeconds,
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 5
	}
	return cfg
}

// BuildSessionConfig creates SessionConfig from YAML config with default values
func BuildSessionConfig(yamlConfig *YAMLConfig) model.SessionConfig {
	cfg := model.SessionConfig{
		TTLMinutes: yamlConfig.Session.TTLMinutes,
		MaxTurns:   yamlConfig.Session.MaxTurns,
	}
	if cfg.TTLMinutes == 0 {
		cfg.TTLMinutes = 60
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 5
	}
	return cfg
}

// BuildTravelConfig creates TravelConfig from YAML config with default values
func BuildTravelConfig(yamlConfig *YAMLConfig) model.TravelConfig {
	cfg := model.TravelConfig{
		BaseURL:        yamlConfig.Travel.BaseURL,
		GeocodeURL:     yamlConfig.Travel.GeocodeURL,
		RadiusKM:       yamlConfig.Travel.RadiusKM,
		TimeoutSeconds: yamlConfig.Travel.TimeoutSeconds,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://test.api.amadeus.com"
	}
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = "https://nominatim.openstreetmap.org/search"
	}
	if cfg.RadiusKM == 0 {
		cfg.RadiusKM = 1
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 10
	}
	return cfg
}
