package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

const applicationColumns = `id, token, name, chats_count, created_at, updated_at`

func scanApplication(s scanner) (Application, error) {
	var a Application
	var createdAt, updatedAt string
	if err := s.Scan(&a.ID, &a.Token, &a.Name, &a.ChatsCount, &createdAt, &updatedAt); err != nil {
		return Application{}, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return a, nil
}

func (d *DB) CreateApplication(ctx context.Context, name string) (*Application, error) {
	now := time.Now().UTC()
	app := &Application{
		ID:        uuid.New().String(),
		Token:     uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO applications (id, token, name, chats_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		app.ID, app.Token, app.Name, app.ChatsCount,
		app.CreatedAt.Format(time.RFC3339), app.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return app, nil
}

func (d *DB) GetApplicationByToken(ctx context.Context, token string) (*Application, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE token = ?`, token)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting application: %w", err)
	}
	return &a, nil
}

func (d *DB) ListApplications(ctx context.Context) ([]Application, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	apps := make([]Application, 0, 16)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (d *DB) RenameApplication(ctx context.Context, token, name string) error {
	res, err := d.conn.ExecContext(ctx,
		`UPDATE applications SET name = ?, updated_at = ? WHERE token = ?`,
		name, time.Now().UTC().Format(time.RFC3339), token)
	if err != nil {
		return fmt.Errorf("renaming application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementChatsCount bumps the cached child count. Eventually consistent;
// callers log failures instead of failing the request.
func (d *DB) IncrementChatsCount(ctx context.Context, applicationID string) error {
	_, err := d.conn.ExecContext(ctx,
		`UPDATE applications SET chats_count = chats_count + 1 WHERE id = ?`, applicationID)
	if err != nil {
		return fmt.Errorf("incrementing chats_count: %w", err)
	}
	return nil
}
