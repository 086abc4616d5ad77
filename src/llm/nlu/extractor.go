package nlu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/logger"
	"travel_dialogue_engine/src/model"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Extractor turns an utterance into an NLU reading with an Eino chain
// (template -> chat model), backed by the keyword fallback so a turn always
// yields a usable result.
type Extractor struct {
	config    model.NLUConfig
	processor *NLUProcessor
	chain     compose.Runnable[map[string]any, *schema.Message]
	fallback  *KeywordExtractor
}

// NewExtractor creates the extractor and compiles its chain.
func NewExtractor(ctx context.Context, chatModel einomodel.BaseChatModel, nluConfig model.NLUConfig) (*Extractor, error) {
	template := createNLUTemplate(&nluConfig)

	// Create the Eino chain: Template → ChatModel
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(template).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating Eino chain: %v", err)
	}

	return &Extractor{
		config:    nluConfig,
		processor: NewNLUProcessor(&nluConfig),
		chain:     chain,
		fallback:  NewKeywordExtractor(),
	}, nil
}

// Extract analyzes one utterance against the current dialogue state.
// contextBlock carries recent history formatted by the conversation layer;
// it may be empty. Extract never fails: invalid input, chain errors, and
// empty parses all degrade to the keyword fallback.
func (e *Extractor) Extract(ctx context.Context, utterance string, state *dialogue.State, contextBlock string) *model.NLUResult {
	if err := e.validateUtterance(utterance); err != nil {
		logger.Warn().Err(err).Msg("NLU input rejected, using keyword fallback")
		return e.fallback.Extract(utterance, state)
	}

	analysisStart := time.Now()
	templateVars := map[string]any{
		"dialogue_situation": buildSituation(state),
		"input_text":         wrapInput(utterance, contextBlock),
	}

	out, err := e.chain.Invoke(ctx, templateVars)
	if err != nil {
		logger.Warn().Err(err).Msg("NLU chain failed, using keyword fallback")
		return e.fallback.Extract(utterance, state)
	}

	result, err := e.processor.ParseResponse(out.Content)
	if err != nil || (result.Intent == "" && len(result.Slots) == 0) {
		logger.Warn().Err(err).Msg("NLU parsing produced nothing, using keyword fallback")
		return e.fallback.Extract(utterance, state)
	}

	logger.Debug().
		Str("intent", result.Intent).
		Int("slots", len(result.Slots)).
		Dur("elapsed", time.Since(analysisStart)).
		Msg("NLU analysis completed")

	return result
}

// validateUtterance rejects input the chain must not see: empty or oversized
// text, broken UTF-8, and delimiter injection.
func (e *Extractor) validateUtterance(utterance string) error {
	if strings.TrimSpace(utterance) == "" {
		return errors.New("input text cannot be empty")
	}

	maxLength := e.config.MaxInputLength
	if maxLength <= 0 {
		maxLength = 1000
	}
	if len(utterance) > maxLength {
		return fmt.Errorf("input text too long: %d characters (max: %d)", len(utterance), maxLength)
	}

	if !utf8.ValidString(utterance) {
		return errors.New("input text contains invalid UTF-8 characters")
	}

	for _, delimiter := range []string{e.config.TupleDelimiter, e.config.RecordDelimiter, e.config.CompletionDelimiter} {
		if delimiter != "" && strings.Contains(utterance, delimiter) {
			return fmt.Errorf("input text contains reserved delimiter: %s", delimiter)
		}
	}

	return nil
}

// wrapInput frames the utterance with recent history the way the prompt
// expects it.
func wrapInput(utterance, contextBlock string) string {
	if contextBlock == "" {
		return utterance
	}
	return contextBlock + "\n\n<current_message_to_analyze>\n" + utterance + "\n</current_message_to_analyze>"
}
