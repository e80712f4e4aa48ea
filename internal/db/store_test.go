package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Muostafa/Chat-app-system-sub001/internal/db"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func newChat(appID string, number int64) *db.Chat {
	now := time.Now().UTC()
	return &db.Chat{
		ID:            uuid.New().String(),
		ApplicationID: appID,
		Number:        number,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newMessage(chatID string, number int64, body string) *db.Message {
	return &db.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Number:    number,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateAndGetApplication(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, err := database.CreateApplication(ctx, "support")
	if err != nil {
		t.Fatalf("creating application: %v", err)
	}
	if app.Token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := database.GetApplicationByToken(ctx, app.Token)
	if err != nil {
		t.Fatalf("getting application: %v", err)
	}
	if got.Name != "support" {
		t.Errorf("got name %q, want %q", got.Name, "support")
	}
	if got.ChatsCount != 0 {
		t.Errorf("got chats_count %d, want 0", got.ChatsCount)
	}
}

func TestGetApplicationUnknownToken(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.GetApplicationByToken(context.Background(), "no-such-token")
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRenameApplication(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, err := database.CreateApplication(ctx, "old")
	if err != nil {
		t.Fatalf("creating application: %v", err)
	}
	if err := database.RenameApplication(ctx, app.Token, "new"); err != nil {
		t.Fatalf("renaming application: %v", err)
	}

	got, _ := database.GetApplicationByToken(ctx, app.Token)
	if got.Name != "new" {
		t.Errorf("got name %q, want %q", got.Name, "new")
	}

	if err := database.RenameApplication(ctx, "missing", "x"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestInsertChatDuplicateNumber(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, err := database.CreateApplication(ctx, "app")
	if err != nil {
		t.Fatalf("creating application: %v", err)
	}

	if err := database.InsertChat(ctx, newChat(app.ID, 1)); err != nil {
		t.Fatalf("inserting chat: %v", err)
	}
	err = database.InsertChat(ctx, newChat(app.ID, 1))
	if !errors.Is(err, db.ErrDuplicateNumber) {
		t.Errorf("got %v, want ErrDuplicateNumber", err)
	}
}

func TestInsertMessageDuplicateNumber(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")
	chat := newChat(app.ID, 1)
	if err := database.InsertChat(ctx, chat); err != nil {
		t.Fatalf("inserting chat: %v", err)
	}

	if err := database.InsertMessage(ctx, newMessage(chat.ID, 1, "hello")); err != nil {
		t.Fatalf("inserting message: %v", err)
	}
	err := database.InsertMessage(ctx, newMessage(chat.ID, 1, "again"))
	if !errors.Is(err, db.ErrDuplicateNumber) {
		t.Errorf("got %v, want ErrDuplicateNumber", err)
	}
}

func TestMaxNumber(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")
	scope := db.ChatScope(app.ID)

	max, err := database.MaxNumber(ctx, scope)
	if err != nil {
		t.Fatalf("reading max: %v", err)
	}
	if max != 0 {
		t.Errorf("empty scope max = %d, want 0", max)
	}

	database.InsertChat(ctx, newChat(app.ID, 1))
	database.InsertChat(ctx, newChat(app.ID, 3))

	max, err = database.MaxNumber(ctx, scope)
	if err != nil {
		t.Fatalf("reading max: %v", err)
	}
	if max != 3 {
		t.Errorf("max = %d, want 3", max)
	}
}

func TestScopeExists(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")

	ok, err := database.ScopeExists(ctx, db.ChatScope(app.ID))
	if err != nil {
		t.Fatalf("checking scope: %v", err)
	}
	if !ok {
		t.Error("expected chat scope of existing application to exist")
	}

	ok, err = database.ScopeExists(ctx, db.MessageScope("no-such-chat"))
	if err != nil {
		t.Fatalf("checking scope: %v", err)
	}
	if ok {
		t.Error("expected message scope of missing chat to not exist")
	}

	if _, err := database.ScopeExists(ctx, "bogus"); err == nil {
		t.Error("expected error for malformed scope")
	}
}

func TestNumberExists(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")
	database.InsertChat(ctx, newChat(app.ID, 2))

	scope := db.ChatScope(app.ID)
	ok, err := database.NumberExists(ctx, scope, 2)
	if err != nil {
		t.Fatalf("checking number: %v", err)
	}
	if !ok {
		t.Error("expected number 2 to exist")
	}
	ok, _ = database.NumberExists(ctx, scope, 5)
	if ok {
		t.Error("expected number 5 to be absent")
	}
}

func TestSampleScopes(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	a1, _ := database.CreateApplication(ctx, "one")
	a2, _ := database.CreateApplication(ctx, "two")
	chat := newChat(a1.ID, 1)
	database.InsertChat(ctx, chat)

	scopes, err := database.SampleScopes(ctx, 10)
	if err != nil {
		t.Fatalf("sampling scopes: %v", err)
	}
	want := map[string]bool{
		db.ChatScope(a1.ID):      true,
		db.ChatScope(a2.ID):      true,
		db.MessageScope(chat.ID): true,
	}
	if len(scopes) != len(want) {
		t.Fatalf("got %d scopes, want %d: %v", len(scopes), len(want), scopes)
	}
	for _, s := range scopes {
		if !want[s] {
			t.Errorf("unexpected scope %q", s)
		}
	}

	limited, err := database.SampleScopes(ctx, 2)
	if err != nil {
		t.Fatalf("sampling scopes: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d scopes with limit 2, want 2", len(limited))
	}
}

func TestChildCounts(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")
	chat := newChat(app.ID, 1)
	database.InsertChat(ctx, chat)

	if err := database.IncrementChatsCount(ctx, app.ID); err != nil {
		t.Fatalf("incrementing chats_count: %v", err)
	}
	if err := database.IncrementMessagesCount(ctx, chat.ID); err != nil {
		t.Fatalf("incrementing messages_count: %v", err)
	}

	gotApp, _ := database.GetApplicationByToken(ctx, app.Token)
	if gotApp.ChatsCount != 1 {
		t.Errorf("chats_count = %d, want 1", gotApp.ChatsCount)
	}
	gotChat, _ := database.GetChat(ctx, chat.ID)
	if gotChat.MessagesCount != 1 {
		t.Errorf("messages_count = %d, want 1", gotChat.MessagesCount)
	}
}

func TestListMessagesOrderedByNumber(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	app, _ := database.CreateApplication(ctx, "app")
	chat := newChat(app.ID, 1)
	database.InsertChat(ctx, chat)

	database.InsertMessage(ctx, newMessage(chat.ID, 2, "second"))
	database.InsertMessage(ctx, newMessage(chat.ID, 1, "first"))

	msgs, err := database.ListMessages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("listing messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Body != "first" || msgs[1].Body != "second" {
		t.Errorf("messages out of order: %q, %q", msgs[0].Body, msgs[1].Body)
	}
}
