package db

import (
	"fmt"
	"strings"
)

// Scope kinds. A scope names one numbering domain: the chats of one
// application or the messages of one chat.
const (
	scopeKindChats    = "chats"
	scopeKindMessages = "messages"
)

// ChatScope returns the scope string for chat numbers under an application.
func ChatScope(applicationID string) string {
	return scopeKindChats + ":" + applicationID
}

// MessageScope returns the scope string for message numbers under a chat.
func MessageScope(chatID string) string {
	return scopeKindMessages + ":" + chatID
}

func splitScope(scope string) (kind, parentID string, err error) {
	kind, parentID, ok := strings.Cut(scope, ":")
	if !ok || parentID == "" {
		return "", "", fmt.Errorf("malformed scope %q", scope)
	}
	if kind != scopeKindChats && kind != scopeKindMessages {
		return "", "", fmt.Errorf("unknown scope kind %q", kind)
	}
	return kind, parentID, nil
}
