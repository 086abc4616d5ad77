package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/llm/nlg"
	"travel_dialogue_engine/src/llm/splitter"
	"travel_dialogue_engine/src/logger"
	"travel_dialogue_engine/src/model"
	"travel_dialogue_engine/src/storage"
	"travel_dialogue_engine/src/travel"
)

// ----------------------------------------------------
// Dependencies
// ----------------------------------------------------

// SessionStore is the session persistence the service needs.
type SessionStore interface {
	GetAndTouch(ctx context.Context, sessionID string, dest any) error
	SetSession(ctx context.Context, sessionID string, data any) error
	Delete(ctx context.Context, sessionID string) error
}

// Extractor maps one utterance to an intent and slot values.
type Extractor interface {
	Extract(ctx context.Context, utterance string, state *dialogue.State, contextBlock string) *model.NLUResult
}

// TravelSearcher looks up live inventory for finalized requests.
type TravelSearcher interface {
	SearchActivities(ctx context.Context, city string) ([]travel.Activity, error)
	SearchHotels(ctx context.Context, city, checkIn, checkOut string, guests int, budgetLevel string) ([]travel.HotelOffer, error)
}

// BookingArchive records finalized bookings durably.
type BookingArchive interface {
	Append(customerID, task string, details map[string]string) error
}

// ----------------------------------------------------
// Service
// ----------------------------------------------------

// Service runs whole conversation turns: it loads the session, splits
// compound messages, extracts intents, lets the dialogue strategy decide,
// renders replies, and persists everything back.
type Service struct {
	repo      Repository
	sessions  SessionStore
	extractor Extractor
	strategy  dialogue.Strategy
	context   ContextStrategy
	responder *nlg.Responder
	travel    TravelSearcher
	archive   BookingArchive
}

// ServiceConfig wires the service's collaborators. Travel and Archive are
// optional; Strategy and Context fall back to defaults when nil.
type ServiceConfig struct {
	Repository Repository
	Sessions   SessionStore
	Extractor  Extractor
	Strategy   dialogue.Strategy
	Context    ContextStrategy
	Travel     TravelSearcher
	Archive    BookingArchive
}

func NewService(config ServiceConfig) *Service {
	strategy := config.Strategy
	if strategy == nil {
		strategy = dialogue.NewRuleStrategy()
	}
	contextStrategy := config.Context
	if contextStrategy == nil {
		contextStrategy = NewNLUContextStrategy(0)
	}

	return &Service{
		repo:      config.Repository,
		sessions:  config.Sessions,
		extractor: config.Extractor,
		strategy:  strategy,
		context:   contextStrategy,
		responder: nlg.NewResponder(),
		travel:    config.Travel,
		archive:   config.Archive,
	}
}

// TurnResult is everything one user message produced. Compound messages
// yield one reply and action per segment.
type TurnResult struct {
	Replies []string
	Actions []dialogue.Action
	Ended   bool
}

// Reply joins the per-segment replies into one message.
func (r *TurnResult) Reply() string {
	return strings.Join(r.Replies, "\n\n")
}

// ProcessTurn handles one user message end to end. Queued segments from
// earlier compound messages are drained first; a goodbye stops the drain
// and closes the session.
func (s *Service) ProcessTurn(ctx context.Context, conversationID, utterance string) (*TurnResult, error) {
	started := time.Now()

	snapshot, err := s.loadSession(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	state := snapshot.State
	if state == nil {
		state = dialogue.NewState()
	}

	queue := splitter.NewQueueFrom(snapshot.PendingUtterances)
	segments := splitter.Split(utterance)
	if len(segments) > 1 {
		logger.Debug().
			Str("conversation_id", conversationID).
			Int("segments", len(segments)).
			Msg("Split compound message")
	}
	queue.Add(segments...)

	result := &TurnResult{}
	for {
		segment, ok := queue.Pop()
		if !ok {
			break
		}

		reply, action, err := s.processSegment(ctx, conversationID, snapshot.CustomerID, state, segment)
		if err != nil {
			return result, err
		}
		result.Replies = append(result.Replies, reply)
		result.Actions = append(result.Actions, action)

		if action.Type == dialogue.ActionGoodbye {
			queue.Clear()
			result.Ended = true
			break
		}
	}

	snapshot.State = state
	snapshot.PendingUtterances = queue.Items()
	snapshot.UpdatedAt = time.Now()

	if result.Ended {
		if err := s.sessions.Delete(ctx, conversationID); err != nil {
			logger.Warn().
				Str("conversation_id", conversationID).
				Err(err).
				Msg("Failed to delete finished session")
		}
	} else if err := s.sessions.SetSession(ctx, conversationID, snapshot); err != nil {
		return result, fmt.Errorf("failed to save session: %w", err)
	}

	logger.Info().
		Str("conversation_id", conversationID).
		Int("segments", len(result.Replies)).
		Bool("ended", result.Ended).
		Dur("elapsed", time.Since(started)).
		Msg("Turn processed")

	return result, nil
}

// BindCustomer associates a customer with the conversation's session so
// finalized bookings archive under that customer.
func (s *Service) BindCustomer(ctx context.Context, conversationID, customerID string) error {
	snapshot, err := s.loadSession(ctx, conversationID)
	if err != nil {
		return err
	}
	snapshot.CustomerID = customerID
	snapshot.UpdatedAt = time.Now()
	return s.sessions.SetSession(ctx, conversationID, snapshot)
}

// GetHistory returns the full conversation history.
func (s *Service) GetHistory(ctx context.Context, conversationID string) (*ConversationHistory, error) {
	return s.repo.Load(ctx, conversationID)
}

// ----------------------------------------------------
// Internals
// ----------------------------------------------------

func (s *Service) loadSession(ctx context.Context, conversationID string) (*model.SessionSnapshot, error) {
	var snapshot model.SessionSnapshot
	err := s.sessions.GetAndTouch(ctx, conversationID, &snapshot)
	if err == nil {
		return &snapshot, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return model.NewSessionSnapshot(conversationID), nil
	}
	return nil, fmt.Errorf("failed to load session: %w", err)
}

// processSegment runs one request through extraction, the dialogue
// strategy, and reply rendering, recording both sides in the history.
func (s *Service) processSegment(ctx context.Context, conversationID, customerID string, state *dialogue.State, segment string) (string, dialogue.Action, error) {
	if err := s.repo.AddMessage(ctx, conversationID, schema.UserMessage(segment)); err != nil {
		return "", dialogue.Action{}, fmt.Errorf("failed to record user message: %w", err)
	}

	contextBlock, err := s.repo.GetContextForModel(ctx, conversationID, s.context)
	if err != nil {
		logger.Warn().
			Str("conversation_id", conversationID).
			Err(err).
			Msg("Failed to build conversation context")
		contextBlock = ""
	}

	nluResult := s.extractor.Extract(ctx, segment, state, contextBlock)

	turn := dialogue.TurnInput{
		Intent:    nluResult.Intent,
		Slots:     nluResult.Slots,
		Utterance: segment,
	}
	action := s.strategy.Decide(ctx, state, turn)

	reply := s.responder.Render(action, state)
	reply = s.enrichReply(ctx, reply, action, state)

	s.archiveCompletion(action, state, customerID, conversationID)

	if err := s.repo.AddMessage(ctx, conversationID, schema.AssistantMessage(reply, nil)); err != nil {
		logger.Warn().
			Str("conversation_id", conversationID).
			Err(err).
			Msg("Failed to record assistant message")
	}

	logger.Info().
		Str("conversation_id", conversationID).
		Str("intent", nluResult.Intent).
		Str("source", nluResult.Source).
		Str("action", action.String()).
		Msg("Segment processed")

	return reply, action, nil
}

// enrichReply appends live search results to finalizing replies. Search
// failures keep the base reply; the booking flow never stalls on the API.
func (s *Service) enrichReply(ctx context.Context, reply string, action dialogue.Action, state *dialogue.State) string {
	if s.travel == nil || state == nil || state.Trip == nil {
		return reply
	}

	switch action.Type {
	case dialogue.ActionCompleteActivity:
		record := state.Trip.Activity
		if record == nil || record.Destination == "" {
			return reply
		}
		activities, err := s.travel.SearchActivities(ctx, record.Destination)
		if err != nil {
			logger.Warn().
				Str("city", record.Destination).
				Err(err).
				Msg("Activity search failed")
			return reply
		}
		activities = travel.FilterActivitiesByCategory(activities, record.ActivityCategory)
		return reply + "\n\n" + nlg.FormatActivities(activities)

	case dialogue.ActionCompleteAccommodation:
		record := state.Trip.Accommodation
		if record == nil || record.Destination == "" || record.CheckInDate == "" || record.CheckOutDate == "" {
			return reply
		}
		offers, err := s.travel.SearchHotels(ctx, record.Destination, record.CheckInDate, record.CheckOutDate, record.NumGuests, record.BudgetLevel)
		if err != nil {
			logger.Warn().
				Str("city", record.Destination).
				Err(err).
				Msg("Hotel search failed")
			return reply
		}
		return reply + "\n\n" + nlg.FormatHotels(offers)

	case dialogue.ActionCompareCitiesResult:
		city1 := state.Trip.CompareCities[dialogue.SlotCity1]
		city2 := state.Trip.CompareCities[dialogue.SlotCity2]
		category := state.Trip.CompareCities[dialogue.SlotActivityCategory]
		if city1 == "" || city2 == "" {
			return reply
		}
		activities1, err := s.travel.SearchActivities(ctx, city1)
		if err != nil {
			logger.Warn().Str("city", city1).Err(err).Msg("Activity search failed")
			return reply
		}
		activities2, err := s.travel.SearchActivities(ctx, city2)
		if err != nil {
			logger.Warn().Str("city", city2).Err(err).Msg("Activity search failed")
			return reply
		}
		activities1 = travel.FilterActivitiesByCategory(activities1, category)
		activities2 = travel.FilterActivitiesByCategory(activities2, category)
		return reply + "\n\n" + nlg.FormatComparison(city1, city2, activities1, activities2)
	}

	return reply
}

// archiveCompletion writes a finalized booking to the archive.
func (s *Service) archiveCompletion(action dialogue.Action, state *dialogue.State, customerID, conversationID string) {
	if s.archive == nil || !action.IsCompletion() {
		return
	}
	booking := state.ActiveBooking()
	if booking == nil {
		return
	}

	id := customerID
	if id == "" {
		id = conversationID
	}
	if err := s.archive.Append(id, string(booking.Task()), booking.Summary()); err != nil {
		logger.Warn().
			Str("customer_id", id).
			Err(err).
			Msg("Failed to archive booking")
	}
}
