package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
)

// QuestionService runs question buckets: users ask, moderators pick
// questions for the floor, and floor questions take answers.
type QuestionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewQuestionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *QuestionService {
	return &QuestionService{db: db, repomanager: m, logger: logger.With("module", "questions")}
}

func (s *QuestionService) CreateBucket(ctx context.Context, moderator *auth.Identity, title string) (*models.Bucket, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", common.ErrorValidation)
	}

	b, err := s.repomanager.Buckets(s.db).Create(ctx, &models.Bucket{Title: title})
	if err != nil {
		return nil, fmt.Errorf("error creating bucket: %w", err)
	}

	s.logger.Info(ctx, "bucket created", "bucket_id", b.ID, "by", moderator.UserName)
	return b, nil
}

func (s *QuestionService) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	list, err := s.repomanager.Buckets(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing buckets: %w", err)
	}
	return list, nil
}

func (s *QuestionService) GetBucket(ctx context.Context, bucketID string) (*models.Bucket, error) {
	b, err := s.repomanager.Buckets(s.db).GetByID(ctx, bucketID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting bucket: %w", err)
	}
	return b, nil
}

// Ask adds a question to a bucket. New questions start off the floor.
// An anonymous question is stored without its author.
func (s *QuestionService) Ask(ctx context.Context, id *auth.Identity, bucketID, text string, anonymous bool) (*models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty question", common.ErrorValidation)
	}

	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetBucket(ctx, bucketID); err != nil {
		return nil, err
	}

	q := &models.Question{BucketID: bucketID, Text: text}
	if !anonymous {
		q.AuthorID = userID
	}
	q, err = s.repomanager.Questions(s.db).Create(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("error creating question: %w", err)
	}
	if !anonymous {
		q.AuthorName = id.UserName
	}
	q.Answers = []models.Answer{}

	s.logger.Info(ctx, "question asked", "question_id", q.ID, "bucket_id", bucketID, "anonymous", anonymous)
	return q, nil
}

// ListQuestions returns the bucket's questions with their answers attached.
func (s *QuestionService) ListQuestions(ctx context.Context, bucketID string, onFloorOnly bool) ([]models.Question, error) {
	if _, err := s.GetBucket(ctx, bucketID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Questions(s.db)
	list, err := repo.ListByBucket(ctx, bucketID, onFloorOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	answers, err := repo.ListAnswersByBucket(ctx, bucketID)
	if err != nil {
		return nil, fmt.Errorf("error listing answers: %w", err)
	}

	byQuestion := make(map[string][]models.Answer, len(list))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	for i := range list {
		list[i].Answers = byQuestion[list[i].ID]
		if list[i].Answers == nil {
			list[i].Answers = []models.Answer{}
		}
	}
	return list, nil
}

func (s *QuestionService) PutOnFloor(ctx context.Context, moderator *auth.Identity, questionID string) (*models.Question, error) {
	return s.setOnFloor(ctx, moderator, questionID, true)
}

func (s *QuestionService) TakeOffFloor(ctx context.Context, moderator *auth.Identity, questionID string) (*models.Question, error) {
	return s.setOnFloor(ctx, moderator, questionID, false)
}

func (s *QuestionService) setOnFloor(ctx context.Context, moderator *auth.Identity, questionID string, onFloor bool) (*models.Question, error) {
	if err := s.repomanager.Questions(s.db).SetOnFloor(ctx, questionID, onFloor); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating question: %w", err)
	}

	s.logger.Info(ctx, "question moved", "question_id", questionID, "on_floor", onFloor, "by", moderator.UserName)
	return s.getQuestion(ctx, questionID)
}

// Answer replies to a question that is on the floor.
func (s *QuestionService) Answer(ctx context.Context, id *auth.Identity, questionID, text string) (*models.Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty answer", common.ErrorValidation)
	}

	userID, err := authorID(ctx, s.db, s.repomanager, id)
	if err != nil {
		return nil, err
	}

	q, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !q.OnFloor {
		return nil, common.ErrorNotOnFloor
	}

	a, err := s.repomanager.Questions(s.db).CreateAnswer(ctx, &models.Answer{
		QuestionID: questionID,
		AuthorID:   userID,
		Text:       text,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating answer: %w", err)
	}
	a.AuthorName = id.UserName

	s.logger.Info(ctx, "question answered", "question_id", questionID, "answer_id", a.ID, "user", id.UserName)
	return a, nil
}

// DeleteQuestion removes a question and its answers. Only the asker or a
// moderator may do it; anonymous questions only a moderator.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id *auth.Identity, questionID string) error {
	q, err := s.getQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if !canManage(id, q.AuthorName) {
		return common.ErrorNotAuthor
	}

	if err := s.repomanager.Questions(s.db).Delete(ctx, questionID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting question: %w", err)
	}

	s.logger.Info(ctx, "question deleted", "question_id", questionID, "by", id.UserName)
	return nil
}

func (s *QuestionService) getQuestion(ctx context.Context, questionID string) (*models.Question, error) {
	q, err := s.repomanager.Questions(s.db).GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting question: %w", err)
	}
	return q, nil
}
