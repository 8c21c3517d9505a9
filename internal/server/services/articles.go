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

// ArticlePageSize is how many articles a listing returns.
const ArticlePageSize = 20

type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ArticleService {
	return &ArticleService{db: db, repomanager: m, logger: logger.With("module", "articles"), now: time.Now}
}

// Create stores an unpublished draft by the identity's user.
func (s *ArticleService) Create(ctx context.Context, id *auth.Identity, title, body string) (*models.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", common.ErrorValidation)
	}

	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}

	a, err := s.repomanager.Articles(s.db).Create(ctx, &models.Article{AuthorID: userID, Title: title, Body: body})
	if err != nil {
		return nil, fmt.Errorf("error creating article: %w", err)
	}
	a.AuthorName = id.UserName

	s.logger.Info(ctx, "article created", "article_id", a.ID, "user", id.UserName)
	return a, nil
}

// Get returns a published article to anyone. A draft is returned only to
// its author or a moderator; everyone else gets common.ErrorNotFound.
// viewer may be nil.
func (s *ArticleService) Get(ctx context.Context, viewer *auth.Identity, articleID string) (*models.Article, error) {
	a, err := s.get(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !a.Published && !canManage(viewer, a.AuthorName) {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (s *ArticleService) ListPublished(ctx context.Context) ([]models.Article, error) {
	list, err := s.repomanager.Articles(s.db).ListPublished(ctx, ArticlePageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	return list, nil
}

// Publish makes the article visible to everyone. Only the author or a moderator may do it.
func (s *ArticleService) Publish(ctx context.Context, id *auth.Identity, articleID string) (*models.Article, error) {
	a, err := s.get(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !canManage(id, a.AuthorName) {
		return nil, common.ErrorNotAuthor
	}

	if err := s.repomanager.Articles(s.db).Publish(ctx, articleID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("error publishing article: %w", err)
	}

	s.logger.Info(ctx, "article published", "article_id", articleID, "by", id.UserName)
	return s.get(ctx, articleID)
}

// Delete removes the article. Only the author or a moderator may do it.
func (s *ArticleService) Delete(ctx context.Context, id *auth.Identity, articleID string) error {
	a, err := s.get(ctx, articleID)
	if err != nil {
		return err
	}
	if !canManage(id, a.AuthorName) {
		return common.ErrorNotAuthor
	}

	if err := s.repomanager.Articles(s.db).Delete(ctx, articleID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting article: %w", err)
	}

	s.logger.Info(ctx, "article deleted", "article_id", articleID, "by", id.UserName)
	return nil
}

func (s *ArticleService) get(ctx context.Context, articleID string) (*models.Article, error) {
	a, err := s.repomanager.Articles(s.db).GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting article: %w", err)
	}
	return a, nil
}

// canManage reports whether id is the author or a moderator.
func canManage(id *auth.Identity, authorName string) bool {
	if id == nil {
		return false
	}
	return (authorName != "" && id.UserName == authorName) || id.HasRole(auth.Moderator)
}
