package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
)

type ForumService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewForumService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ForumService {
	return &ForumService{db: db, repomanager: m, logger: logger.With("module", "forums")}
}

func (s *ForumService) Create(ctx context.Context, title, description string) (*models.Forum, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", common.ErrorValidation)
	}

	f, err := s.repomanager.Forums(s.db).Create(ctx, &models.Forum{Title: title, Description: description})
	if err != nil {
		return nil, fmt.Errorf("error creating forum: %w", err)
	}

	s.logger.Info(ctx, "forum created", "forum_id", f.ID, "title", f.Title)
	return f, nil
}

func (s *ForumService) List(ctx context.Context) ([]models.Forum, error) {
	forums, err := s.repomanager.Forums(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing forums: %w", err)
	}
	return forums, nil
}

func (s *ForumService) Get(ctx context.Context, id string) (*models.Forum, error) {
	f, err := s.repomanager.Forums(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting forum: %w", err)
	}
	return f, nil
}
