package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const chatColumns = `id, application_id, number, messages_count, created_at, updated_at`

func scanChat(s scanner) (Chat, error) {
	var c Chat
	var createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.ApplicationID, &c.Number, &c.MessagesCount, &createdAt, &updatedAt); err != nil {
		return Chat{}, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// InsertChat persists a chat with an already-chosen number. A collision on the
// (application_id, number) index comes back as ErrDuplicateNumber.
func (d *DB) InsertChat(ctx context.Context, chat *Chat) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO chats (id, application_id, number, messages_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.ApplicationID, chat.Number, chat.MessagesCount,
		chat.CreatedAt.Format(time.RFC3339), chat.UpdatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: chat %d in application %s", ErrDuplicateNumber, chat.Number, chat.ApplicationID)
	}
	if err != nil {
		return fmt.Errorf("inserting chat: %w", err)
	}
	return nil
}

func (d *DB) GetChat(ctx context.Context, id string) (*Chat, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	return &c, nil
}

func (d *DB) GetChatByNumber(ctx context.Context, applicationID string, number int64) (*Chat, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE application_id = ? AND number = ?`,
		applicationID, number)
	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat by number: %w", err)
	}
	return &c, nil
}

func (d *DB) ListChats(ctx context.Context, applicationID string) ([]Chat, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE application_id = ? ORDER BY number`,
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	defer rows.Close()

	chats := make([]Chat, 0, 16)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// IncrementMessagesCount bumps the cached child count. Eventually consistent.
func (d *DB) IncrementMessagesCount(ctx context.Context, chatID string) error {
	_, err := d.conn.ExecContext(ctx,
		`UPDATE chats SET messages_count = messages_count + 1 WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("incrementing messages_count: %w", err)
	}
	return nil
}
