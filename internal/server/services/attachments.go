package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	sc "github.com/dmitrijs2005/weekend/internal/server/config"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignValidity bounds how long an upload or download URL works.
const PresignValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		config:      config,
		logger:      logger.With("module", "attachments"),
		now:         time.Now,
	}
}

// StorageKey places attachments under a per-post, per-day prefix.
func StorageKey(postID string, at time.Time) string {
	return fmt.Sprintf("posts/%s/%d/%02d/%02d/%v", postID, at.Year(), at.Month(), at.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload registers a new attachment on the identity's own post and
// returns a URL the client can PUT the file to.
func (s *AttachmentService) PresignUpload(ctx context.Context, id *auth.Identity, postID string) (*models.UploadTask, error) {
	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	if post.AuthorName != id.UserName {
		return nil, common.ErrorNotAuthor
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bucket := s.config.S3Bucket
	key := StorageKey(postID, now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return nil, err
	}

	a, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{PostID: postID, StorageKey: key})
	if err != nil {
		return nil, fmt.Errorf("error creating attachment: %w", err)
	}

	s.logger.Info(ctx, "attachment upload presigned", "attachment_id", a.ID, "post_id", postID, "user", id.UserName)
	return &models.UploadTask{AttachmentID: a.ID, URL: req.URL, ExpiresAt: now.Add(PresignValidity)}, nil
}

// PresignDownload returns a URL the client can GET the attachment from.
func (s *AttachmentService) PresignDownload(ctx context.Context, attachmentID string) (string, error) {
	a, err := s.repomanager.Attachments(s.db).GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error getting attachment: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &a.StorageKey,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *AttachmentService) ListByPost(ctx context.Context, postID string) ([]models.Attachment, error) {
	list, err := s.repomanager.Attachments(s.db).ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	return list, nil
}
