package db

import (
	"context"
	"fmt"
)

// ScopeExists reports whether the scope's parent entity is present. Allocation
// against a scope whose parent is gone must fail rather than mint numbers for
// orphan records.
func (d *DB) ScopeExists(ctx context.Context, scope string) (bool, error) {
	kind, parentID, err := splitScope(scope)
	if err != nil {
		return false, err
	}

	var query string
	switch kind {
	case scopeKindChats:
		query = "SELECT COUNT(*) FROM applications WHERE id = ?"
	case scopeKindMessages:
		query = "SELECT COUNT(*) FROM chats WHERE id = ?"
	}

	var count int
	if err := d.conn.QueryRowContext(ctx, query, parentID).Scan(&count); err != nil {
		return false, fmt.Errorf("checking scope %s: %w", scope, err)
	}
	return count > 0, nil
}

// MaxNumber returns the highest assigned sequence number in the scope, 0 if
// the scope has no entities yet. This is the true maximum the reconciler
// raises the counter to.
func (d *DB) MaxNumber(ctx context.Context, scope string) (int64, error) {
	kind, parentID, err := splitScope(scope)
	if err != nil {
		return 0, err
	}

	var query string
	switch kind {
	case scopeKindChats:
		query = "SELECT COALESCE(MAX(number), 0) FROM chats WHERE application_id = ?"
	case scopeKindMessages:
		query = "SELECT COALESCE(MAX(number), 0) FROM messages WHERE chat_id = ?"
	}

	var max int64
	if err := d.conn.QueryRowContext(ctx, query, parentID).Scan(&max); err != nil {
		return 0, fmt.Errorf("reading max number for %s: %w", scope, err)
	}
	return max, nil
}

// NumberExists reports whether (scope, number) is already persisted. Used to
// resolve inserts whose outcome is unknown after a timeout.
func (d *DB) NumberExists(ctx context.Context, scope string, number int64) (bool, error) {
	kind, parentID, err := splitScope(scope)
	if err != nil {
		return false, err
	}

	var query string
	switch kind {
	case scopeKindChats:
		query = "SELECT COUNT(*) FROM chats WHERE application_id = ? AND number = ?"
	case scopeKindMessages:
		query = "SELECT COUNT(*) FROM messages WHERE chat_id = ? AND number = ?"
	}

	var count int
	if err := d.conn.QueryRowContext(ctx, query, parentID, number).Scan(&count); err != nil {
		return false, fmt.Errorf("checking number %d in %s: %w", number, scope, err)
	}
	return count > 0, nil
}

// SampleScopes returns up to limit known scopes, most recently updated parents
// first. Reconciliation and monitoring work over this bounded sample instead
// of a full table scan.
func (d *DB) SampleScopes(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	scopes := make([]string, 0, limit)

	rows, err := d.conn.QueryContext(ctx,
		"SELECT id FROM applications ORDER BY updated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("sampling application scopes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning application scope: %w", err)
		}
		scopes = append(scopes, ChatScope(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(scopes) >= limit {
		return scopes[:limit], nil
	}

	rows, err = d.conn.QueryContext(ctx,
		"SELECT id FROM chats ORDER BY updated_at DESC LIMIT ?", limit-len(scopes))
	if err != nil {
		return nil, fmt.Errorf("sampling chat scopes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chat scope: %w", err)
		}
		scopes = append(scopes, MessageScope(id))
	}
	return scopes, rows.Err()
}
