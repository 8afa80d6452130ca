package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"amazonia/internal/config"
	"amazonia/internal/models/db_models"
	"amazonia/internal/models/request_models"
	"amazonia/internal/models/response_models"
	"amazonia/internal/repositories"
	"amazonia/pkg/assistant"
	"amazonia/pkg/logging"
	"amazonia/pkg/utils"
)

// Replier is satisfied by assistant.Guarded.
type Replier interface {
	Reply(ctx context.Context, req assistant.Request) (text string, provider string, err error)
}

type ChatServiceInterface interface {
	SendMessage(ctx context.Context, userID uuid.UUID, req request_models.ChatMessageRequest) (*response_models.ChatReplyResponse, error)
	History(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, p utils.Pagination) ([]response_models.ChatMessageResponse, int64, error)
	Sessions(ctx context.Context, userID uuid.UUID) ([]response_models.ChatSessionResponse, error)
	DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) (int64, error)
}

type ChatService struct {
	chats         repositories.ChatRepository
	users         repositories.UserRepository
	places        repositories.PlaceRepository
	embeddings    repositories.PlaceEmbeddingRepository
	embedder      assistant.Embedder
	replier       Replier
	historyWindow int
	contextPlaces int
}

func NewChatService(
	chats repositories.ChatRepository,
	users repositories.UserRepository,
	places repositories.PlaceRepository,
	embeddings repositories.PlaceEmbeddingRepository,
	embedder assistant.Embedder,
	replier Replier,
	cfg *config.Config,
) ChatServiceInterface {
	return &ChatService{
		chats:         chats,
		users:         users,
		places:        places,
		embeddings:    embeddings,
		embedder:      embedder,
		replier:       replier,
		historyWindow: cfg.Assistant.HistoryWindow,
		contextPlaces: cfg.Assistant.ContextPlaces,
	}
}

func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, req request_models.ChatMessageRequest) (*response_models.ChatReplyResponse, error) {
	sessionID := uuid.New()
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			return nil, utils.ErrInvalidRequest
		}
		sessionID = parsed
	}
	question := strings.TrimSpace(req.Message)

	recent, err := s.chats.Recent(ctx, userID, sessionID, s.historyWindow)
	if err != nil {
		return nil, storeErr(err)
	}

	userMsg := &db_models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      db_models.ChatRoleUser,
		Content:   question,
	}
	if err := s.chats.Create(ctx, userMsg); err != nil {
		return nil, storeErr(err)
	}

	history := make([]assistant.Message, 0, len(recent))
	for _, m := range recent {
		history = append(history, assistant.Message{Role: m.Role, Content: m.Content})
	}

	text, provider, replyErr := s.replier.Reply(ctx, assistant.Request{
		Question: question,
		History:  history,
		Places:   s.groundingPlaces(ctx, question),
		Language: s.language(ctx, userID),
	})
	if replyErr != nil {
		logging.Ctx(ctx).Warn().Err(replyErr).Str("session_id", sessionID.String()).Msg("assistant reply degraded")
	}

	replyMsg := &db_models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      db_models.ChatRoleAssistant,
		Content:   text,
		Provider:  provider,
	}
	if err := s.chats.Create(ctx, replyMsg); err != nil {
		return nil, storeErr(err)
	}

	return &response_models.ChatReplyResponse{
		SessionID: sessionID.String(),
		Message:   toChatMessageResponse(*userMsg),
		Reply:     toChatMessageResponse(*replyMsg),
	}, nil
}

// groundingPlaces finds the places closest to the question in embedding
// space. Failures only cost grounding, so they are logged and skipped.
func (s *ChatService) groundingPlaces(ctx context.Context, question string) []assistant.Place {
	if s.embedder == nil || s.contextPlaces <= 0 {
		return nil
	}
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to embed chat question")
		return nil
	}
	ids, err := s.embeddings.Nearest(ctx, vector, s.contextPlaces)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to search place embeddings")
		return nil
	}
	places, err := s.places.FindByIDs(ctx, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to load grounding places")
		return nil
	}

	byID := make(map[uuid.UUID]db_models.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}
	out := make([]assistant.Place, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, assistant.Place{
			Name:         p.Name,
			Category:     p.Category,
			Address:      p.Address,
			OpeningHours: p.OpeningHours,
			Description:  p.Description,
		})
	}
	return out
}

func (s *ChatService) language(ctx context.Context, userID uuid.UUID) string {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil || user.Language == "" {
		return defaultLanguage
	}
	return user.Language
}

func (s *ChatService) History(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, p utils.Pagination) ([]response_models.ChatMessageResponse, int64, error) {
	msgs, total, err := s.chats.History(ctx, userID, sessionID, p)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]response_models.ChatMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toChatMessageResponse(m))
	}
	return out, total, nil
}

func (s *ChatService) Sessions(ctx context.Context, userID uuid.UUID) ([]response_models.ChatSessionResponse, error) {
	sessions, err := s.chats.Sessions(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]response_models.ChatSessionResponse, 0, len(sessions))
	for _, ses := range sessions {
		out = append(out, response_models.ChatSessionResponse{
			SessionID:     ses.SessionID.String(),
			MessageCount:  ses.MessageCount,
			LastMessageAt: utils.FormatUnixLocal(ses.LastMessageAt),
			Preview:       ses.Preview,
		})
	}
	return out, nil
}

// DeleteHistory reports ErrChatSessionNotFound when a named session has no messages.
func (s *ChatService) DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) (int64, error) {
	n, err := s.chats.DeleteHistory(ctx, userID, sessionID)
	if err != nil {
		return 0, storeErr(err)
	}
	if sessionID != nil && n == 0 {
		return 0, utils.ErrChatSessionNotFound
	}
	return n, nil
}

func toChatMessageResponse(m db_models.ChatMessage) response_models.ChatMessageResponse {
	return response_models.ChatMessageResponse{
		ID:        m.ID.String(),
		SessionID: m.SessionID.String(),
		Role:      m.Role,
		Content:   m.Content,
		Provider:  m.Provider,
		CreatedAt: utils.FormatUnixLocal(m.CreatedAt),
	}
}
