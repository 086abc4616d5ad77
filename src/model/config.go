package model

// ----------------------------------------------------
// ================ Logging ================
// LogConfig controls the global zerolog setup
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	TimeFormat string `yaml:"time_format"`
	FilePath   string `yaml:"file_path"`
}

// ----------------------------------------------------
// ================ Chat model ================
// ChatModelConfig selects and tunes the LLM provider. Provider is one of
// openai, ark, deepseek, ollama.
type ChatModelConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	APIKey      string  `yaml:"-"`
}

// ----------------------------------------------------
// ================ NLU ================
// NLUConfig holds configuration for the slot-intent extractor
type NLUConfig struct {
	TupleDelimiter      string  `yaml:"tuple_delimiter"`
	RecordDelimiter     string  `yaml:"record_delimiter"`
	CompletionDelimiter string  `yaml:"completion_delimiter"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MaxInputLength      int     `yaml:"max_input_length"`
}

// ----------------------------------------------------
// ================ Advisor ================
// AdvisorConfig enables the LLM action oracle on top of the rule engine
type AdvisorConfig struct {
	Enabled        bool `yaml:"enabled"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// ----------------------------------------------------
// ================ Session ================
// SessionConfig bounds the per-conversation working set
type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxTurns   int `yaml:"max_turns"`
}

// ----------------------------------------------------
// ================ Travel API ================
// TravelConfig points the search client at the booking and geocoding APIs
type TravelConfig struct {
	BaseURL        string `yaml:"base_url"`
	GeocodeURL     string `yaml:"geocode_url"`
	RadiusKM       int    `yaml:"radius_km"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}
