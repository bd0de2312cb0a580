package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"messaging-service/internal/models"
	"messaging-service/internal/normalize"
	"messaging-service/internal/repositories/gormstore"
)

// MessageStore is one unit of work over stored messages. Staged changes take
// effect only when SaveAll commits them.
type MessageStore interface {
	Add(msg *models.Message) error
	MarkDeleted(msg *models.Message, p models.Participant)
	Delete(msg *models.Message)
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetMessagesForUser(ctx context.Context, params models.MessageParams) (*models.MessagePage, error)
	GetMessageThread(ctx context.Context, current, other string) ([]models.Message, error)
	SaveAll(ctx context.Context) (bool, error)
}

// MessageStoreFactory opens a fresh unit of work per request.
type MessageStoreFactory func() MessageStore

// UserLookup resolves usernames to registered users.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventPublisher receives audit events after a change has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.MessageEvent) error
}

type MessageService struct {
	stores    MessageStoreFactory
	users     UserLookup
	publisher EventPublisher
	now       func() time.Time
}

type MessageServiceOption func(*MessageService)

// WithPublisher sets where audit events go. Without it no events are emitted.
func WithPublisher(p EventPublisher) MessageServiceOption {
	return func(s *MessageService) { s.publisher = p }
}

func WithClock(now func() time.Time) MessageServiceOption {
	return func(s *MessageService) { s.now = now }
}

func NewMessageService(stores MessageStoreFactory, users UserLookup, opts ...MessageServiceOption) *MessageService {
	s := &MessageService{
		stores: stores,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage stores a message from senderUsername to the requested recipient.
// Both usernames are copied onto the message as they are at send time.
func (s *MessageService) SendMessage(ctx context.Context, senderUsername string, req *models.CreateMessageRequest) (*models.MessageResponse, error) {
	if req == nil || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.RecipientUsername) == "" {
		return nil, fmt.Errorf("%w: recipient and content are required", ErrInvalidRequest)
	}
	if normalize.Username(senderUsername) == normalize.Username(req.RecipientUsername) {
		return nil, fmt.Errorf("%w: you cannot send messages to yourself", ErrInvalidRequest)
	}

	sender, err := s.resolveUser(ctx, senderUsername)
	if err != nil {
		return nil, err
	}
	recipient, err := s.resolveUser(ctx, req.RecipientUsername)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           req.Content,
		CreatedAt:         s.now(),
	}

	store := s.stores()
	if err := store.Add(msg); err != nil {
		return nil, fmt.Errorf("%w: failed to send message: %w", ErrOperationFailed, err)
	}
	ok, err := store.SaveAll(ctx)
	if err != nil {
		slog.Error("Failed to send message", "sender", sender.Username, "recipient", recipient.Username, "error", err)
		return nil, fmt.Errorf("%w: failed to send message: %w", ErrOperationFailed, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: failed to send message", ErrOperationFailed)
	}

	slog.Debug("Message sent", "id", msg.ID, "sender", sender.Username, "recipient", recipient.Username)
	s.publish(ctx, models.MessageEvent{
		Type:              models.EventMessageSent,
		MessageID:         msg.ID,
		SenderUsername:    msg.SenderUsername,
		RecipientUsername: msg.RecipientUsername,
		OccurredAt:        msg.CreatedAt,
	})

	resp := models.NewMessageResponse(msg)
	return &resp, nil
}

// ListInbox returns one page of the messages username can still see.
func (s *MessageService) ListInbox(ctx context.Context, username string, params models.MessageParams) (*models.PaginatedMessageResponse, error) {
	params.Username = username
	page, err := s.stores().GetMessagesForUser(ctx, params.Normalized())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list messages: %w", ErrOperationFailed, err)
	}

	return &models.PaginatedMessageResponse{
		Items:       models.NewMessageResponses(page.Items),
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
	}, nil
}

// GetThread returns the conversation between username and other, oldest first.
func (s *MessageService) GetThread(ctx context.Context, username, other string) ([]models.MessageResponse, error) {
	if strings.TrimSpace(other) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	msgs, err := s.stores().GetMessageThread(ctx, username, other)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load thread: %w", ErrOperationFailed, err)
	}
	return models.NewMessageResponses(msgs), nil
}

// DeleteMessage hides the message from username. Once both participants have
// deleted it the row is removed.
func (s *MessageService) DeleteMessage(ctx context.Context, username string, id uint) error {
	store := s.stores()

	msg, err := store.GetByID(ctx, id)
	if errors.Is(err, gormstore.ErrMessageNotFound) {
		// Unknown ids answer exactly like someone else's message so callers
		// cannot probe which ids exist.
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("%w: failed to delete message: %w", ErrOperationFailed, err)
	}

	party := msg.ParticipantOf(username)
	if party == models.ParticipantNone {
		return ErrUnauthorized
	}
	if !msg.MarkDeletedBy(party) {
		return nil
	}

	hard := msg.State() == models.StateFullyDeleted
	if hard {
		store.Delete(msg)
	} else {
		store.MarkDeleted(msg, party)
	}

	if _, err := store.SaveAll(ctx); err != nil {
		slog.Error("Failed to delete message", "id", id, "username", username, "error", err)
		return fmt.Errorf("%w: failed to delete message: %w", ErrOperationFailed, err)
	}

	slog.Debug("Message deleted", "id", id, "by", party.String(), "hard", hard)
	s.publish(ctx, models.MessageEvent{
		Type:              models.EventMessageDeleted,
		MessageID:         msg.ID,
		SenderUsername:    msg.SenderUsername,
		RecipientUsername: msg.RecipientUsername,
		DeletedBy:         party.String(),
		HardDeleted:       hard,
		OccurredAt:        s.now(),
	})
	return nil
}

func (s *MessageService) resolveUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gormstore.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, fmt.Errorf("%w: failed to resolve user: %w", ErrOperationFailed, err)
	}
	return user, nil
}

// publish never fails the caller; the change is already committed.
func (s *MessageService) publish(ctx context.Context, event models.MessageEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish message event", "type", event.Type, "id", event.MessageID, "error", err)
	}
}
