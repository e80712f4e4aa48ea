package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Muostafa/Chat-app-system-sub001/internal/db"
	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

// LocalService binds the durable store and the sequence allocator.
type LocalService struct {
	db    *db.DB
	alloc *seq.Allocator
}

func NewLocalService(database *db.DB, alloc *seq.Allocator) *LocalService {
	return &LocalService{db: database, alloc: alloc}
}

func (s *LocalService) CreateApplication(ctx context.Context, name string) (*db.Application, error) {
	return s.db.CreateApplication(ctx, name)
}

func (s *LocalService) GetApplication(ctx context.Context, token string) (*db.Application, error) {
	return s.db.GetApplicationByToken(ctx, token)
}

func (s *LocalService) ListApplications(ctx context.Context) ([]db.Application, error) {
	return s.db.ListApplications(ctx)
}

func (s *LocalService) RenameApplication(ctx context.Context, token, name string) error {
	return s.db.RenameApplication(ctx, token, name)
}

func (s *LocalService) CreateChat(ctx context.Context, appToken string) (*db.Chat, error) {
	app, err := s.db.GetApplicationByToken(ctx, appToken)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	chat := &db.Chat{
		ID:            uuid.New().String(),
		ApplicationID: app.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	scope := db.ChatScope(app.ID)
	number, err := s.alloc.Allocate(ctx, scope, func(ctx context.Context, n int64) error {
		chat.Number = n
		if err := s.db.InsertChat(ctx, chat); err != nil {
			if errors.Is(err, db.ErrDuplicateNumber) {
				return fmt.Errorf("%w: %v", seq.ErrDuplicateNumber, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		// An ambiguous commit may still be our row; the id tells us.
		var aerr *seq.AmbiguousCommitError
		if errors.As(err, &aerr) {
			if got, gerr := s.db.GetChat(context.WithoutCancel(ctx), chat.ID); gerr == nil {
				return got, nil
			}
		}
		return nil, err
	}
	chat.Number = number

	if err := s.db.IncrementChatsCount(ctx, app.ID); err != nil {
		logs.Logger.Warningf("updating chats_count for application %s: %v", app.ID, err)
	}
	return chat, nil
}

func (s *LocalService) GetChat(ctx context.Context, appToken string, number int64) (*db.Chat, error) {
	app, err := s.db.GetApplicationByToken(ctx, appToken)
	if err != nil {
		return nil, err
	}
	return s.db.GetChatByNumber(ctx, app.ID, number)
}

func (s *LocalService) ListChats(ctx context.Context, appToken string) ([]db.Chat, error) {
	app, err := s.db.GetApplicationByToken(ctx, appToken)
	if err != nil {
		return nil, err
	}
	return s.db.ListChats(ctx, app.ID)
}

func (s *LocalService) CreateMessage(ctx context.Context, appToken string, chatNumber int64, body string) (*db.Message, error) {
	app, err := s.db.GetApplicationByToken(ctx, appToken)
	if err != nil {
		return nil, err
	}
	chat, err := s.db.GetChatByNumber(ctx, app.ID, chatNumber)
	if err != nil {
		return nil, err
	}

	msg := &db.Message{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	scope := db.MessageScope(chat.ID)
	number, err := s.alloc.Allocate(ctx, scope, func(ctx context.Context, n int64) error {
		msg.Number = n
		if err := s.db.InsertMessage(ctx, msg); err != nil {
			if errors.Is(err, db.ErrDuplicateNumber) {
				return fmt.Errorf("%w: %v", seq.ErrDuplicateNumber, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		var aerr *seq.AmbiguousCommitError
		if errors.As(err, &aerr) {
			if got, gerr := s.db.GetMessage(context.WithoutCancel(ctx), msg.ID); gerr == nil {
				return got, nil
			}
		}
		return nil, err
	}
	msg.Number = number

	if err := s.db.IncrementMessagesCount(ctx, chat.ID); err != nil {
		logs.Logger.Warningf("updating messages_count for chat %s: %v", chat.ID, err)
	}
	return msg, nil
}

func (s *LocalService) ListMessages(ctx context.Context, appToken string, chatNumber int64) ([]db.Message, error) {
	app, err := s.db.GetApplicationByToken(ctx, appToken)
	if err != nil {
		return nil, err
	}
	chat, err := s.db.GetChatByNumber(ctx, app.ID, chatNumber)
	if err != nil {
		return nil, err
	}
	return s.db.ListMessages(ctx, chat.ID)
}
