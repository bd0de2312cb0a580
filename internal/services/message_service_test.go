package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"messaging-service/internal/config"
	"messaging-service/internal/database"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.MessageEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.MessageEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Events() []models.MessageEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.MessageEvent(nil), p.events...)
}

// failingStore wraps a real unit of work and injects errors.
type failingStore struct {
	MessageStore
	saveErr error
	listErr error
}

func (f *failingStore) SaveAll(ctx context.Context) (bool, error) {
	if f.saveErr != nil {
		return false, f.saveErr
	}
	return f.MessageStore.SaveAll(ctx)
}

func (f *failingStore) GetMessagesForUser(ctx context.Context, p models.MessageParams) (*models.MessagePage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MessageStore.GetMessagesForUser(ctx, p)
}

func (f *failingStore) GetMessageThread(ctx context.Context, a, b string) ([]models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MessageStore.GetMessageThread(ctx, a, b)
}

type fixture struct {
	db        *gorm.DB
	messages  *gormstore.MessageRepository
	users     *gormstore.UserRepository
	publisher *recordingPublisher
	svc       *MessageService
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newFixture(t *testing.T, opts ...MessageServiceOption) *fixture {
	t.Helper()
	db := openTestDB(t)
	f := &fixture{
		db:        db,
		messages:  gormstore.NewMessageRepository(db),
		users:     gormstore.NewUserRepository(db),
		publisher: &recordingPublisher{},
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, f.users.Create(context.Background(), &models.User{Username: name, Password: "x"}))
	}

	var mu sync.Mutex
	tick := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	opts = append([]MessageServiceOption{WithPublisher(f.publisher), WithClock(clock)}, opts...)
	f.svc = NewMessageService(func() MessageStore { return f.messages.Begin() }, f.users, opts...)
	return f
}

func (f *fixture) send(t *testing.T, from, to, content string) *models.MessageResponse {
	t.Helper()
	msg, err := f.svc.SendMessage(context.Background(), from, &models.CreateMessageRequest{RecipientUsername: to, Content: content})
	require.NoError(t, err)
	return msg
}

func (f *fixture) inboxIDs(t *testing.T, username string) []uint {
	t.Helper()
	page, err := f.svc.ListInbox(context.Background(), username, models.MessageParams{})
	require.NoError(t, err)
	var ids []uint
	for _, m := range page.Items {
		ids = append(ids, m.ID)
	}
	return ids
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&n).Error)
	return n
}

func TestSendMessageToSelfIsRejected(t *testing.T) {
	f := newFixture(t)
	opened := 0
	f.svc.stores = func() MessageStore {
		opened++
		return f.messages.Begin()
	}

	for _, to := range []string{"alice", "ALICE", " Alice "} {
		_, err := f.svc.SendMessage(context.Background(), "alice", &models.CreateMessageRequest{RecipientUsername: to, Content: "hi"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
	assert.Zero(t, opened)
	assert.Zero(t, f.count(t))
}

func TestSendMessageToUnknownRecipient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SendMessage(context.Background(), "alice", &models.CreateMessageRequest{RecipientUsername: "zed", Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.count(t))
	assert.Empty(t, f.publisher.Events())
}

func TestSendMessageStoresResolvedUsernames(t *testing.T) {
	f := newFixture(t)

	msg := f.send(t, "Alice", "BOB", "hello")
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "alice", msg.SenderUsername)
	assert.Equal(t, "bob", msg.RecipientUsername)
	assert.Equal(t, "hello", msg.Content)

	bob, err := f.users.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, msg.RecipientID)

	// Profile edits after the fact leave the stored message untouched.
	require.NoError(t, f.users.UpdateDisplayName(context.Background(), bob.ID, "Robert"))
	stored, err := f.messages.Begin().GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.RecipientUsername)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventMessageSent, events[0].Type)
	assert.Equal(t, msg.ID, events[0].MessageID)
}

func TestSendMessageCommitFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.stores = func() MessageStore {
		return &failingStore{MessageStore: f.messages.Begin(), saveErr: gormstore.ErrStorage}
	}

	_, err := f.svc.SendMessage(context.Background(), "alice", &models.CreateMessageRequest{RecipientUsername: "bob", Content: "hi"})
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.Zero(t, f.count(t))
	assert.Empty(t, f.publisher.Events())
}

func TestSendMessageSurvivesPublisherFailure(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	msg := f.send(t, "alice", "bob", "hi")
	assert.NotZero(t, msg.ID)
	assert.EqualValues(t, 1, f.count(t))
}

func TestDeleteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg := f.send(t, "alice", "bob", "hi")
	assert.Contains(t, f.inboxIDs(t, "bob"), msg.ID)

	require.NoError(t, f.svc.DeleteMessage(ctx, "bob", msg.ID))
	assert.NotContains(t, f.inboxIDs(t, "bob"), msg.ID)
	assert.Contains(t, f.inboxIDs(t, "alice"), msg.ID)

	stored, err := f.messages.Begin().GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateDeletedByRecipient, stored.State())

	require.NoError(t, f.svc.DeleteMessage(ctx, "alice", msg.ID))
	_, err = f.messages.Begin().GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, gormstore.ErrMessageNotFound)

	assert.Empty(t, f.inboxIDs(t, "alice"))
	thread, err := f.svc.GetThread(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Empty(t, thread)

	events := f.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "recipient", events[1].DeletedBy)
	assert.False(t, events[1].HardDeleted)
	assert.Equal(t, "sender", events[2].DeletedBy)
	assert.True(t, events[2].HardDeleted)
}

func TestDeleteTwiceBySamePartyIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := f.send(t, "alice", "bob", "hi")

	require.NoError(t, f.svc.DeleteMessage(ctx, "alice", msg.ID))
	require.NoError(t, f.svc.DeleteMessage(ctx, "Alice", msg.ID))

	stored, err := f.messages.Begin().GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateDeletedBySender, stored.State())
	assert.Len(t, f.publisher.Events(), 2)
}

func TestDeleteByNonParticipantIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := f.send(t, "alice", "bob", "hi")

	err := f.svc.DeleteMessage(ctx, "carol", msg.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, err := f.messages.Begin().GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, stored.SenderDeleted)
	assert.False(t, stored.RecipientDeleted)
}

func TestDeleteUnknownIDIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteMessage(context.Background(), "alice", 4242)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDeleteCommitFailureLeavesFlagsUnset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	msg := f.send(t, "alice", "bob", "hi")

	base := f.svc.stores
	f.svc.stores = func() MessageStore {
		return &failingStore{MessageStore: base(), saveErr: gormstore.ErrStorage}
	}
	err := f.svc.DeleteMessage(ctx, "bob", msg.ID)
	assert.ErrorIs(t, err, ErrOperationFailed)

	stored, err := f.messages.Begin().GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateActive, stored.State())
}

func TestConcurrentDeletesRemoveMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		msg := f.send(t, "alice", "bob", fmt.Sprintf("m%d", i))

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, who := range []string{"alice", "bob"} {
			wg.Add(1)
			go func(u string) {
				defer wg.Done()
				errs <- f.svc.DeleteMessage(ctx, u, msg.ID)
			}(who)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		_, err := f.messages.Begin().GetByID(ctx, msg.ID)
		assert.ErrorIs(t, err, gormstore.ErrMessageNotFound)
	}
}

func TestListInboxPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var sent []uint
	for i := 0; i < 7; i++ {
		sent = append(sent, f.send(t, "bob", "alice", fmt.Sprintf("m%d", i)).ID)
	}
	f.send(t, "bob", "carol", "noise")

	page, err := f.svc.ListInbox(ctx, "alice", models.MessageParams{PageNumber: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.PageSize)
	assert.EqualValues(t, 7, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, sent[3], page.Items[0].ID)

	last, err := f.svc.ListInbox(ctx, "alice", models.MessageParams{PageNumber: 9, PageSize: 3})
	require.NoError(t, err)
	assert.NotNil(t, last.Items)
	assert.Empty(t, last.Items)
}

func TestListAndThreadStorageErrors(t *testing.T) {
	f := newFixture(t)
	f.svc.stores = func() MessageStore {
		return &failingStore{MessageStore: f.messages.Begin(), listErr: gormstore.ErrStorage}
	}

	_, err := f.svc.ListInbox(context.Background(), "alice", models.MessageParams{})
	assert.ErrorIs(t, err, ErrOperationFailed)

	_, err = f.svc.GetThread(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestGetThreadOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.send(t, "alice", "bob", "1")
	f.send(t, "alice", "carol", "other")
	b := f.send(t, "bob", "alice", "2")
	c := f.send(t, "alice", "bob", "3")
	require.NoError(t, f.svc.DeleteMessage(ctx, "bob", c.ID))

	thread, err := f.svc.GetThread(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{thread[0].ID, thread[1].ID, thread[2].ID})

	bobView, err := f.svc.GetThread(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Len(t, bobView, 2)

	_, err = f.svc.GetThread(ctx, "alice", " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
