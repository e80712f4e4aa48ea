package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const messageColumns = `id, chat_id, number, body, created_at`

func scanMessage(s scanner) (Message, error) {
	var m Message
	var createdAt string
	if err := s.Scan(&m.ID, &m.ChatID, &m.Number, &m.Body, &createdAt); err != nil {
		return Message{}, err
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return m, nil
}

// InsertMessage persists a message with an already-chosen number. A collision
// on the (chat_id, number) index comes back as ErrDuplicateNumber.
func (d *DB) InsertMessage(ctx context.Context, msg *Message) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO messages (id, chat_id, number, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.Number, msg.Body, msg.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: message %d in chat %s", ErrDuplicateNumber, msg.Number, msg.ChatID)
	}
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (d *DB) GetMessage(ctx context.Context, id string) (*Message, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return &m, nil
}

func (d *DB) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY number`, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]Message, 0, 64)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
