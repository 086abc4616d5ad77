package src

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Secrets carries every credential read from the environment. Non-secret
// settings live in config.yaml; nothing here is ever written to logs.
type Secrets struct {
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	AmadeusAPIKey string `envconfig:"AMADEUS_API_KEY"`
	AmadeusSecret string `envconfig:"AMADEUS_API_SECRET"`
}

func LoadSecrets() (*Secrets, error) {
	var secrets Secrets
	err := envconfig.Process("", &secrets)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	return &secrets, nil
}
