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

// ThreadPageSize is how many threads a forum listing returns.
const ThreadPageSize = 25

type ThreadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewThreadService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ThreadService {
	return &ThreadService{db: db, repomanager: m, logger: logger.With("module", "threads")}
}

// CreateWithPost opens a thread and its first post atomically.
func (s *ThreadService) CreateWithPost(ctx context.Context, id *auth.Identity, forumID, title, content string) (*models.Thread, *models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}

	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.repomanager.Forums(s.db).GetByID(ctx, forumID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("error getting forum: %w", err)
	}

	var thread *models.Thread
	var post *models.Post

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		thread, err = s.repomanager.Threads(tx).Create(ctx, &models.Thread{
			ForumID:  forumID,
			AuthorID: userID,
			Title:    title,
		})
		if err != nil {
			return err
		}

		post, err = s.repomanager.Posts(tx).Create(ctx, &models.Post{
			ThreadID: thread.ID,
			AuthorID: userID,
			Content:  content,
		})
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error creating thread: %w", err)
	}

	thread.AuthorName = id.UserName
	post.AuthorName = id.UserName

	s.logger.Info(ctx, "thread created", "thread_id", thread.ID, "forum_id", forumID, "user", id.UserName)
	return thread, post, nil
}

func (s *ThreadService) ListByForum(ctx context.Context, forumID string) ([]models.Thread, error) {
	threads, err := s.repomanager.Threads(s.db).ListByForum(ctx, forumID, ThreadPageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing threads: %w", err)
	}
	return threads, nil
}

func (s *ThreadService) Get(ctx context.Context, threadID string) (*models.Thread, error) {
	t, err := s.repomanager.Threads(s.db).GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting thread: %w", err)
	}
	return t, nil
}

func (s *ThreadService) Lock(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error) {
	return s.moderate(ctx, moderator, threadID, "locked", func(ctx context.Context) error {
		return s.repomanager.Threads(s.db).SetLocked(ctx, threadID, true)
	})
}

func (s *ThreadService) Unlock(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error) {
	return s.moderate(ctx, moderator, threadID, "unlocked", func(ctx context.Context) error {
		return s.repomanager.Threads(s.db).SetLocked(ctx, threadID, false)
	})
}

// Archive hides the thread from forum listings. Archived threads cannot be posted to.
func (s *ThreadService) Archive(ctx context.Context, moderator *auth.Identity, threadID string) (*models.Thread, error) {
	return s.moderate(ctx, moderator, threadID, "archived", func(ctx context.Context) error {
		return s.repomanager.Threads(s.db).Archive(ctx, threadID)
	})
}

func (s *ThreadService) moderate(ctx context.Context, moderator *auth.Identity, threadID, action string, apply func(context.Context) error) (*models.Thread, error) {
	if err := apply(ctx); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating thread: %w", err)
	}

	s.logger.Info(ctx, "thread "+action, "thread_id", threadID, "by", moderator.UserName)
	return s.Get(ctx, threadID)
}
