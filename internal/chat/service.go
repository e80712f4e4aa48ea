package chat

import (
	"context"

	"github.com/Muostafa/Chat-app-system-sub001/internal/db"
)

// Service defines all chat-system operations the request layer consumes.
// Create operations allocate sequence numbers synchronously in the request
// path; list/get operations are plain reads.
type Service interface {
	CreateApplication(ctx context.Context, name string) (*db.Application, error)
	GetApplication(ctx context.Context, token string) (*db.Application, error)
	ListApplications(ctx context.Context) ([]db.Application, error)
	RenameApplication(ctx context.Context, token, name string) error

	CreateChat(ctx context.Context, appToken string) (*db.Chat, error)
	GetChat(ctx context.Context, appToken string, number int64) (*db.Chat, error)
	ListChats(ctx context.Context, appToken string) ([]db.Chat, error)

	CreateMessage(ctx context.Context, appToken string, chatNumber int64, body string) (*db.Message, error)
	ListMessages(ctx context.Context, appToken string, chatNumber int64) ([]db.Message, error)
}
