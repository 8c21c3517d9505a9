package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
)

// CensoredContent replaces the text of a censored post.
const CensoredContent = "[removed by a moderator]"

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, logger: logger.With("module", "posts"), now: time.Now}
}

// Create adds a post by the identity's user. parentID may be empty.
func (s *PostService) Create(ctx context.Context, id *auth.Identity, threadID, parentID, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty content", common.ErrorValidation)
	}

	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.openThread(ctx, threadID); err != nil {
		return nil, err
	}

	if parentID != "" {
		parent, err := s.get(ctx, parentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("%w: unknown parent post", common.ErrorValidation)
			}
			return nil, err
		}
		if parent.ThreadID != threadID {
			return nil, fmt.Errorf("%w: parent post is in another thread", common.ErrorValidation)
		}
	}

	p, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		ThreadID: threadID,
		AuthorID: userID,
		ParentID: parentID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	p.AuthorName = id.UserName

	s.logger.Info(ctx, "post created", "post_id", p.ID, "thread_id", threadID, "user", id.UserName)
	return p, nil
}

// Edit replaces the content of the identity's own post.
func (s *PostService) Edit(ctx context.Context, id *auth.Identity, postID, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty content", common.ErrorValidation)
	}

	p, err := s.get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorName != id.UserName {
		return nil, common.ErrorNotAuthor
	}
	if p.Censored {
		return nil, common.ErrorForbidden
	}
	if _, err := s.openThread(ctx, p.ThreadID); err != nil {
		return nil, err
	}

	if err := s.repomanager.Posts(s.db).UpdateContent(ctx, postID, content, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	s.logger.Info(ctx, "post edited", "post_id", postID, "user", id.UserName)
	return s.get(ctx, postID)
}

// Censor replaces a post's content with CensoredContent.
func (s *PostService) Censor(ctx context.Context, moderator *auth.Identity, postID string) (*models.Post, error) {
	if err := s.repomanager.Posts(s.db).Censor(ctx, postID, CensoredContent); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error censoring post: %w", err)
	}

	s.logger.Info(ctx, "post censored", "post_id", postID, "by", moderator.UserName)
	return s.get(ctx, postID)
}

func (s *PostService) ListByThread(ctx context.Context, threadID string) ([]models.Post, error) {
	posts, err := s.repomanager.Posts(s.db).ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) ListByUser(ctx context.Context, userName string) ([]models.Post, error) {
	posts, err := s.repomanager.Posts(s.db).ListByAuthor(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) get(ctx context.Context, postID string) (*models.Post, error) {
	p, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	return p, nil
}

// openThread returns the thread if it still accepts posts.
func (s *PostService) openThread(ctx context.Context, threadID string) (*models.Thread, error) {
	t, err := s.repomanager.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting thread: %w", err)
	}
	switch {
	case t.Archived:
		return nil, common.ErrorThreadArchived
	case t.Locked:
		return nil, common.ErrorThreadLocked
	}
	return t, nil
}
