package nlu

import (
	"strings"
	"testing"

	"travel_dialogue_engine/src/model"
)

func TestParseResponseBasic(t *testing.T) {
	processor := NewNLUProcessor(nil)
	content := "(intent<||>BOOK_FLIGHT<||>0.95)##" +
		"(slot<||>origin<||>Rome<||>0.9)##" +
		"(slot<||>destination<||>Paris<||>0.92)##" +
		"<|COMPLETE|>"

	result, err := processor.ParseResponse(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Intent != "BOOK_FLIGHT" {
		t.Errorf("Expected intent BOOK_FLIGHT, got %q", result.Intent)
	}
	if result.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %f", result.Confidence)
	}
	if result.Slots["origin"] != "Rome" || result.Slots["destination"] != "Paris" {
		t.Errorf("Expected origin and destination slots, got %v", result.Slots)
	}
	if result.Source != model.NLUSourceModel {
		t.Errorf("Expected source %q, got %q", model.NLUSourceModel, result.Source)
	}
}

func TestParseResponseHighestConfidenceIntentWins(t *testing.T) {
	processor := NewNLUProcessor(nil)
	content := "(intent<||>BOOK_ACTIVITY<||>0.40)##" +
		"(intent<||>BOOK_ACCOMMODATION<||>0.85)##" +
		"(intent<||>COMPARE_CITIES<||>0.20)"

	result, err := processor.ParseResponse(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Intent != "BOOK_ACCOMMODATION" {
		t.Errorf("Expected BOOK_ACCOMMODATION, got %q", result.Intent)
	}
}

func TestParseResponseDuplicateSlotKeepsHigherConfidence(t *testing.T) {
	processor := NewNLUProcessor(nil)

	content := "(slot<||>destination<||>Paris<||>0.6)##(slot<||>destination<||>London<||>0.9)##(intent<||>BOOK_FLIGHT<||>0.8)"
	result, _ := processor.ParseResponse(content)
	if result.Slots["destination"] != "London" {
		t.Errorf("Expected London to win, got %q", result.Slots["destination"])
	}

	// Same pair in the opposite order.
	content = "(slot<||>destination<||>London<||>0.9)##(slot<||>destination<||>Paris<||>0.6)##(intent<||>BOOK_FLIGHT<||>0.8)"
	result, _ = processor.ParseResponse(content)
	if result.Slots["destination"] != "London" {
		t.Errorf("Expected London to win regardless of order, got %q", result.Slots["destination"])
	}
}

func TestParseResponseAppliesThreshold(t *testing.T) {
	processor := NewNLUProcessor(&model.NLUConfig{ConfidenceThreshold: 0.6})
	content := "(intent<||>BOOK_FLIGHT<||>0.4)##(slot<||>origin<||>Rome<||>0.5)##(slot<||>destination<||>Paris<||>0.9)"

	result, _ := processor.ParseResponse(content)
	if result.Intent != "" {
		t.Errorf("Expected the low-confidence intent dropped, got %q", result.Intent)
	}
	if _, ok := result.Slots["origin"]; ok {
		t.Error("Expected the low-confidence slot dropped")
	}
	if result.Slots["destination"] != "Paris" {
		t.Errorf("Expected Paris kept, got %v", result.Slots)
	}
}

func TestParseResponseSkipsMalformedRecords(t *testing.T) {
	processor := NewNLUProcessor(nil)
	content := "(intent<||>BOOK_FLIGHT)##" + // too few parts
		"(wish<||>pony<||>0.9)##" + // unknown type
		"(slot<||>origin<||>Rome<||>abc)##" + // bad confidence
		"(slot<||><||>Rome<||>0.9)##" + // empty slot name
		"(slot<||>destination<||>Paris<||>0.9)##" +
		"(intent<||>BOOK_FLIGHT<||>0.9)"

	result, err := processor.ParseResponse(content)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Intent != "BOOK_FLIGHT" {
		t.Errorf("Expected the valid intent to survive, got %q", result.Intent)
	}
	if len(result.Slots) != 1 || result.Slots["destination"] != "Paris" {
		t.Errorf("Expected only the valid slot, got %v", result.Slots)
	}
}

func TestParseResponseNormalizesCase(t *testing.T) {
	processor := NewNLUProcessor(nil)
	content := "(intent<||>book_flight<||>0.9)##(slot<||>DESTINATION<||>Paris<||>0.9)"

	result, _ := processor.ParseResponse(content)
	if result.Intent != "BOOK_FLIGHT" {
		t.Errorf("Expected uppercased intent, got %q", result.Intent)
	}
	if result.Slots["destination"] != "Paris" {
		t.Errorf("Expected lowercased slot name, got %v", result.Slots)
	}
}

func TestParseResponseEmptyContent(t *testing.T) {
	processor := NewNLUProcessor(nil)
	for _, content := range []string{"", "<|COMPLETE|>", "  ##  ## <|COMPLETE|>"} {
		result, err := processor.ParseResponse(content)
		if err != nil {
			t.Fatalf("Expected no error for %q, got %v", content, err)
		}
		if result.Intent != "" || len(result.Slots) != 0 {
			t.Errorf("Expected an empty result for %q, got %+v", content, result)
		}
	}
}

func TestParseResponseOversizedTupleSkipped(t *testing.T) {
	processor := NewNLUProcessor(nil)
	huge := "(slot<||>destination<||>" + strings.Repeat("x", MaxTupleLength) + "<||>0.9)"
	content := huge + "##(intent<||>BOOK_FLIGHT<||>0.9)"

	result, _ := processor.ParseResponse(content)
	if len(result.Slots) != 0 {
		t.Errorf("Expected the oversized tuple dropped, got %v", result.Slots)
	}
	if result.Intent != "BOOK_FLIGHT" {
		t.Errorf("Expected the intent to survive, got %q", result.Intent)
	}
}

func TestParseResponseCustomDelimiters(t *testing.T) {
	processor := NewNLUProcessor(&model.NLUConfig{
		TupleDelimiter:      "|",
		RecordDelimiter:     ";;",
		CompletionDelimiter: "<END>",
	})
	content := "(intent|BOOK_ACTIVITY|0.9);;(slot|destination|Florence|0.8);;<END>"

	result, _ := processor.ParseResponse(content)
	if result.Intent != "BOOK_ACTIVITY" {
		t.Errorf("Expected BOOK_ACTIVITY, got %q", result.Intent)
	}
	if result.Slots["destination"] != "Florence" {
		t.Errorf("Expected Florence, got %v", result.Slots)
	}
}

func TestValidateString(t *testing.T) {
	if err := validateString("ok", 10, "field"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := validateString("", 10, "field"); err == nil {
		t.Error("Expected an error for empty input")
	}
	if err := validateString("12345678901", 10, "field"); err == nil {
		t.Error("Expected an error for oversized input")
	}
	if err := validateString(string([]byte{0xff, 0xfe}), 10, "field"); err == nil {
		t.Error("Expected an error for invalid UTF-8")
	}
}

func TestParseFloat(t *testing.T) {
	if v, err := parseFloat(" 0.85 ", "confidence"); err != nil || v != 0.85 {
		t.Errorf("Expected 0.85, got %f (%v)", v, err)
	}
	if _, err := parseFloat("high", "confidence"); err == nil {
		t.Error("Expected an error for a non-numeric value")
	}
}
