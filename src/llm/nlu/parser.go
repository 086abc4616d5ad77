package nlu

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"travel_dialogue_engine/src/logger"
	"travel_dialogue_engine/src/model"
)

// Constants for parsing configuration
const (
	DefaultRecordDelimiter     = "##"
	DefaultTupleDelimiter      = "<||>"
	DefaultCompletionDelimiter = "<|COMPLETE|>"
	MaxTupleLength             = 2000
	MaxIntentNameLength        = 100
	MaxSlotNameLength          = 100
	MaxSlotValueLength         = 500
)

// RawTuple represents a parsed tuple with string parts
type RawTuple struct {
	Type  string
	Parts []string
}

// IntentTuple is one extracted intent candidate
type IntentTuple struct {
	Name       string
	Confidence float64
}

// SlotTuple is one extracted slot value
type SlotTuple struct {
	Name       string
	Value      string
	Confidence float64
}

// ParseResult accumulates tuples before reduction into a model.NLUResult
type ParseResult struct {
	Intents []IntentTuple
	Slots   []SlotTuple
}

// TupleParser interface for type-specific parsing
type TupleParser interface {
	Parse(raw *RawTuple) error
	AddToResult(result *ParseResult)
}

// Specific parser implementations
type IntentParser struct {
	*IntentTuple
}

type SlotParser struct {
	*SlotTuple
}

// NLUProcessor handles parsing configuration
type NLUProcessor struct {
	config *ProcessorConfig
}

// ProcessorConfig contains parsing configuration
type ProcessorConfig struct {
	RecordDelimiter     string
	TupleDelimiter      string
	CompletionDelimiter string
	ConfidenceThreshold float64
}

// NewNLUProcessor creates a new NLU processor; a nil config selects defaults
func NewNLUProcessor(nluConfig *model.NLUConfig) *NLUProcessor {
	config := &ProcessorConfig{
		RecordDelimiter:     DefaultRecordDelimiter,
		TupleDelimiter:      DefaultTupleDelimiter,
		CompletionDelimiter: DefaultCompletionDelimiter,
	}
	if nluConfig != nil {
		if nluConfig.RecordDelimiter != "" {
			config.RecordDelimiter = nluConfig.RecordDelimiter
		}
		if nluConfig.TupleDelimiter != "" {
			config.TupleDelimiter = nluConfig.TupleDelimiter
		}
		if nluConfig.CompletionDelimiter != "" {
			config.CompletionDelimiter = nluConfig.CompletionDelimiter
		}
		config.ConfidenceThreshold = nluConfig.ConfidenceThreshold
	}
	return &NLUProcessor{config: config}
}

// Validation utility functions
func validateString(s string, maxLength int, fieldName string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if len(s) > maxLength {
		return fmt.Errorf("%s too long: %d characters (max: %d)", fieldName, len(s), maxLength)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s contains invalid UTF-8 characters", fieldName)
	}
	return nil
}

func parseFloat(s string, fieldName string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", fieldName, s)
	}
	return value, nil
}

// Parser implementations
func (p *IntentParser) Parse(raw *RawTuple) error {
	if len(raw.Parts) < 3 {
		return fmt.Errorf("intent tuple requires at least 3 parts, got %d", len(raw.Parts))
	}

	var err error
	p.Name = strings.ToUpper(strings.TrimSpace(raw.Parts[1]))
	if err = validateString(p.Name, MaxIntentNameLength, "intent name"); err != nil {
		return err
	}

	if p.Confidence, err = parseFloat(raw.Parts[2], "confidence"); err != nil {
		return err
	}

	return nil
}

func (p *IntentParser) AddToResult(result *ParseResult) {
	result.Intents = append(result.Intents, *p.IntentTuple)
}

func (p *SlotParser) Parse(raw *RawTuple) error {
	if len(raw.Parts) < 4 {
		return fmt.Errorf("slot tuple requires at least 4 parts, got %d", len(raw.Parts))
	}

	var err error
	p.Name = strings.ToLower(strings.TrimSpace(raw.Parts[1]))
	if err = validateString(p.Name, MaxSlotNameLength, "slot name"); err != nil {
		return err
	}

	p.Value = strings.TrimSpace(raw.Parts[2])
	if err = validateString(p.Value, MaxSlotValueLength, "slot value"); err != nil {
		return err
	}

	if p.Confidence, err = parseFloat(raw.Parts[3], "confidence"); err != nil {
		return err
	}

	return nil
}

func (p *SlotParser) AddToResult(result *ParseResult) {
	result.Slots = append(result.Slots, *p.SlotTuple)
}

// Factory function to create appropriate parser based on tuple type
func createParser(tupleType string) (TupleParser, error) {
	switch tupleType {
	case "intent":
		return &IntentParser{IntentTuple: &IntentTuple{}}, nil
	case "slot":
		return &SlotParser{SlotTuple: &SlotTuple{}}, nil
	default:
		return nil, fmt.Errorf("unknown tuple type: %s", tupleType)
	}
}

// parseRawTuple converts a tuple string into a structured RawTuple
// Example input: "(intent<||>BOOK_FLIGHT<||>0.95)"
func (n *NLUProcessor) parseRawTuple(tupleStr string) (*RawTuple, error) {
	if err := validateString(tupleStr, MaxTupleLength, "tuple string"); err != nil {
		return nil, err
	}

	// Remove parentheses
	tupleStr = strings.Trim(tupleStr, "()")

	// Split by tuple delimiter
	parts := strings.Split(tupleStr, n.config.TupleDelimiter)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid tuple format: expected at least 3 parts, got %d", len(parts))
	}

	tupleType := strings.TrimSpace(parts[0])
	if tupleType == "" {
		return nil, fmt.Errorf("tuple type cannot be empty")
	}

	return &RawTuple{
		Type:  tupleType,
		Parts: parts,
	}, nil
}

// ParseResponse parses the complete model response into a model.NLUResult.
// Malformed records are skipped with a warning, never fatal.
func (n *NLUProcessor) ParseResponse(content string) (*model.NLUResult, error) {
	result := &ParseResult{}

	// Split by record delimiter
	records := strings.Split(content, n.config.RecordDelimiter)

	for _, record := range records {
		trimmedRecord := strings.TrimSpace(record)
		if n.shouldSkipRecord(trimmedRecord) {
			continue
		}

		if err := n.parseRecord(trimmedRecord, result); err != nil {
			logger.Warn().
				Str("record", trimmedRecord).
				Err(err).
				Msg("Failed to parse NLU tuple")
			continue
		}
	}

	return n.reduce(result), nil
}

// shouldSkipRecord determines if a record should be ignored during parsing
// Skips empty records and completion delimiter markers
func (n *NLUProcessor) shouldSkipRecord(record string) bool {
	return record == "" ||
		record == n.config.CompletionDelimiter ||
		record == DefaultCompletionDelimiter
}

// parseRecord processes a single tuple record and adds it to the result
// Orchestrates: raw parsing -> type-specific parsing -> result integration
func (n *NLUProcessor) parseRecord(record string, result *ParseResult) error {
	rawTuple, err := n.parseRawTuple(record)
	if err != nil {
		return err
	}

	parser, err := createParser(rawTuple.Type)
	if err != nil {
		return err
	}

	if err := parser.Parse(rawTuple); err != nil {
		return err
	}

	parser.AddToResult(result)
	return nil
}

// reduce collapses accumulated tuples into the final result. The highest
// confidence intent wins; duplicate slots keep the higher confidence value.
// Everything below the confidence threshold is dropped.
func (n *NLUProcessor) reduce(result *ParseResult) *model.NLUResult {
	out := &model.NLUResult{
		Slots:  make(map[string]string),
		Source: model.NLUSourceModel,
	}

	for _, intent := range result.Intents {
		if intent.Confidence < n.config.ConfidenceThreshold {
			continue
		}
		if out.Intent == "" || intent.Confidence > out.Confidence {
			out.Intent = intent.Name
			out.Confidence = intent.Confidence
		}
	}

	slotConfidence := make(map[string]float64)
	for _, slot := range result.Slots {
		if slot.Confidence < n.config.ConfidenceThreshold {
			continue
		}
		if prev, seen := slotConfidence[slot.Name]; seen && prev >= slot.Confidence {
			continue
		}
		slotConfidence[slot.Name] = slot.Confidence
		out.Slots[slot.Name] = slot.Value
	}

	return out
}
