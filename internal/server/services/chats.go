package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
)

// MessagePageSize is how many of the newest messages a chat listing returns.
const MessagePageSize = 100

type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ChatService {
	return &ChatService{db: db, repomanager: m, logger: logger.With("module", "chats")}
}

// Create opens a chat owned by the identity's user with the named members.
// The owner is always a member. Unknown member names fail the whole call.
func (s *ChatService) Create(ctx context.Context, id *auth.Identity, name string, members []string) (*models.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty chat name", common.ErrorValidation)
	}

	ownerID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}

	memberIDs := []string{ownerID}
	for _, userName := range members {
		if userName == id.UserName {
			continue
		}
		userID, err := s.userID(ctx, userName)
		if err != nil {
			return nil, err
		}
		memberIDs = append(memberIDs, userID)
	}

	var chat *models.Chat
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Chats(tx)

		var err error
		chat, err = repo.Create(ctx, &models.Chat{Name: name, OwnerID: ownerID})
		if err != nil {
			return err
		}
		for _, userID := range memberIDs {
			if err := repo.AddMember(ctx, chat.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating chat: %w", err)
	}
	chat.OwnerName = id.UserName

	s.logger.Info(ctx, "chat created", "chat_id", chat.ID, "members", len(memberIDs), "user", id.UserName)
	return chat, nil
}

// ListMine returns the chats the identity's user belongs to.
func (s *ChatService) ListMine(ctx context.Context, id *auth.Identity) ([]models.Chat, error) {
	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}

	list, err := s.repomanager.Chats(s.db).ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing chats: %w", err)
	}
	return list, nil
}

// AddMember lets the chat owner add another user.
func (s *ChatService) AddMember(ctx context.Context, id *auth.Identity, chatID, userName string) error {
	chat, err := s.getChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.OwnerName != id.UserName {
		return common.ErrorForbidden
	}

	userID, err := s.userID(ctx, userName)
	if err != nil {
		return err
	}
	if err := s.repomanager.Chats(s.db).AddMember(ctx, chatID, userID); err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}

	s.logger.Info(ctx, "chat member added", "chat_id", chatID, "member", userName, "by", id.UserName)
	return nil
}

// Send posts a message to a chat the identity's user belongs to. replyID
// may be empty; otherwise it must name a message of the same chat.
func (s *ChatService) Send(ctx context.Context, id *auth.Identity, chatID, replyID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty message", common.ErrorValidation)
	}

	userID, err := s.member(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Chats(s.db)

	var reply *models.Message
	if replyID != "" {
		reply, err = repo.GetMessage(ctx, replyID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("%w: unknown reply message", common.ErrorValidation)
			}
			return nil, fmt.Errorf("error getting message: %w", err)
		}
		if reply.ChatID != chatID {
			return nil, fmt.Errorf("%w: reply message is in another chat", common.ErrorValidation)
		}
	}

	m, err := repo.CreateMessage(ctx, &models.Message{
		ChatID:   chatID,
		AuthorID: userID,
		ReplyID:  replyID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}
	m.AuthorName = id.UserName
	m.Reply = reply

	s.logger.Debug(ctx, "message sent", "chat_id", chatID, "message_id", m.ID, "user", id.UserName)
	return m, nil
}

// Messages returns the newest messages of the chat in chronological order,
// each with the message it replies to.
func (s *ChatService) Messages(ctx context.Context, id *auth.Identity, chatID string) ([]models.Message, error) {
	if _, err := s.member(ctx, id, chatID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Chats(s.db)
	list, err := repo.ListMessages(ctx, chatID, MessagePageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}

	// newest first from the store; flip to reading order
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}

	byID := make(map[string]*models.Message, len(list))
	for i := range list {
		byID[list[i].ID] = &list[i]
	}
	for i := range list {
		replyID := list[i].ReplyID
		if replyID == "" {
			continue
		}
		if r, ok := byID[replyID]; ok {
			cp := *r
			cp.Reply = nil
			list[i].Reply = &cp
			continue
		}
		// replied-to message is older than the page
		r, err := repo.GetMessage(ctx, replyID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error getting message: %w", err)
		}
		list[i].Reply = r
	}
	return list, nil
}

// member returns the identity's user id if it belongs to the chat.
func (s *ChatService) member(ctx context.Context, id *auth.Identity, chatID string) (string, error) {
	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return "", err
	}
	if _, err := s.getChat(ctx, chatID); err != nil {
		return "", err
	}

	ok, err := s.repomanager.Chats(s.db).IsMember(ctx, chatID, userID)
	if err != nil {
		return "", fmt.Errorf("error checking membership: %w", err)
	}
	if !ok {
		return "", common.ErrorNotMember
	}
	return userID, nil
}

func (s *ChatService) getChat(ctx context.Context, chatID string) (*models.Chat, error) {
	c, err := s.repomanager.Chats(s.db).GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting chat: %w", err)
	}
	return c, nil
}

func (s *ChatService) userID(ctx context.Context, userName string) (string, error) {
	u, err := s.repomanager.Users(s.db).GetUserByName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: unknown user %q", common.ErrorValidation, userName)
		}
		return "", fmt.Errorf("error getting user: %w", err)
	}
	return u.ID, nil
}
