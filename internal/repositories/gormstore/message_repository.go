package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"messaging-service/internal/models"
	"messaging-service/internal/normalize"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrStorage wraps every failure of the underlying database.
	ErrStorage         = errors.New("storage error")
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidMessage  = errors.New("invalid message")
)

// MessageRepository hands out units of work over the messages table.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Begin opens a unit of work. Changes are staged in memory and applied
// together by SaveAll.
func (r *MessageRepository) Begin() *MessageUnitOfWork {
	return &MessageUnitOfWork{db: r.db}
}

type flagChange struct {
	id     uint
	column string
}

// MessageUnitOfWork stages adds, deletion flags and removals for one request.
// It is not safe for concurrent use.
type MessageUnitOfWork struct {
	db      *gorm.DB
	added   []*models.Message
	flagged []flagChange
	removed []uint
}

// Add stages a new message. Only structural fields are checked here.
func (u *MessageUnitOfWork) Add(msg *models.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", ErrInvalidMessage)
	}
	if msg.SenderID == 0 || msg.RecipientID == 0 ||
		msg.SenderUsername == "" || msg.RecipientUsername == "" ||
		strings.TrimSpace(msg.Content) == "" {
		return fmt.Errorf("%w: missing participant or content", ErrInvalidMessage)
	}
	u.added = append(u.added, msg)
	return nil
}

// MarkDeleted stages setting the deletion flag owned by p. On commit the row is
// re-read under lock and removed if the other party's flag is already set.
func (u *MessageUnitOfWork) MarkDeleted(msg *models.Message, p models.Participant) {
	switch p {
	case models.ParticipantSender:
		u.flagged = append(u.flagged, flagChange{id: msg.ID, column: "sender_deleted"})
	case models.ParticipantRecipient:
		u.flagged = append(u.flagged, flagChange{id: msg.ID, column: "recipient_deleted"})
	}
}

// Delete stages physical removal. Removing a row that is already gone is a no-op.
func (u *MessageUnitOfWork) Delete(msg *models.Message) {
	u.removed = append(u.removed, msg.ID)
}

// GetByID returns the stored message regardless of its deletion flags.
func (u *MessageUnitOfWork) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	err := u.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: get message %d: %w", ErrStorage, id, err)
	}
	return &msg, nil
}

// GetMessagesForUser returns one page of the messages params.Username can see,
// newest first, with the size of the whole filtered set.
func (u *MessageUnitOfWork) GetMessagesForUser(ctx context.Context, params models.MessageParams) (*models.MessagePage, error) {
	p := params.Normalized()
	username := normalize.Username(p.Username)

	visible := func(db *gorm.DB) *gorm.DB {
		switch p.Container {
		case models.ContainerInbox:
			return db.Where("recipient_username = ? AND recipient_deleted = ?", username, false)
		case models.ContainerOutbox:
			return db.Where("sender_username = ? AND sender_deleted = ?", username, false)
		default:
			return db.Where("(sender_username = ? AND sender_deleted = ?) OR (recipient_username = ? AND recipient_deleted = ?)",
				username, false, username, false)
		}
	}

	var total int64
	if err := u.db.WithContext(ctx).Model(&models.Message{}).Scopes(visible).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count messages: %w", ErrStorage, err)
	}
	if int64(p.Offset()) >= total {
		return models.NewMessagePage(nil, total, p.PageNumber, p.PageSize), nil
	}

	var items []models.Message
	err := u.db.WithContext(ctx).
		Scopes(visible).
		Order("created_at DESC").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", ErrStorage, err)
	}

	return models.NewMessagePage(items, total, p.PageNumber, p.PageSize), nil
}

// GetMessageThread returns the conversation between current and other, oldest
// first, hiding only the messages current has deleted.
func (u *MessageUnitOfWork) GetMessageThread(ctx context.Context, current, other string) ([]models.Message, error) {
	current = normalize.Username(current)
	other = normalize.Username(other)

	var messages []models.Message
	err := u.db.WithContext(ctx).
		Where("(sender_username = ? AND recipient_username = ? AND sender_deleted = ?) OR (sender_username = ? AND recipient_username = ? AND recipient_deleted = ?)",
			current, other, false, other, current, false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get thread: %w", ErrStorage, err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// SaveAll applies every staged change in one transaction and reports whether
// any row was affected. On error nothing is applied and the staged changes
// are kept so the caller may retry.
func (u *MessageUnitOfWork) SaveAll(ctx context.Context) (bool, error) {
	if len(u.added) == 0 && len(u.flagged) == 0 && len(u.removed) == 0 {
		return false, nil
	}

	var affected int64
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, msg := range u.added {
			res := tx.Create(msg)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}

		for _, change := range u.flagged {
			n, err := applyDeletionFlag(tx, change)
			if err != nil {
				return err
			}
			affected += n
		}

		for _, id := range u.removed {
			res := tx.Delete(&models.Message{}, id)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		for _, msg := range u.added {
			msg.ID = 0
		}
		return false, fmt.Errorf("%w: commit: %w", ErrStorage, err)
	}

	u.added, u.flagged, u.removed = nil, nil, nil
	return affected > 0, nil
}

// applyDeletionFlag sets one party's flag and then checks the freshest row
// state inside the same transaction. A concurrent delete by the other party
// is either visible here or will see this flag in its own check, so the row
// is never left with both flags set.
func applyDeletionFlag(tx *gorm.DB, change flagChange) (int64, error) {
	res := tx.Model(&models.Message{}).Where("id = ?", change.id).Update(change.column, true)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	var current models.Message
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "sender_deleted", "recipient_deleted").
		First(&current, change.id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res.RowsAffected, nil
		}
		return 0, err
	}

	if current.State() == models.StateFullyDeleted {
		if err := tx.Delete(&models.Message{}, change.id).Error; err != nil {
			return 0, err
		}
	}
	return res.RowsAffected, nil
}
