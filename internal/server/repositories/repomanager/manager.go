package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/weekend/internal/dbx"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/articles"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/buckets"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/chats"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/forums"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/posts"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/questions"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/threads"
	"github.com/dmitrijs2005/weekend/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Forums(db dbx.DBTX) forums.Repository
	Threads(db dbx.DBTX) threads.Repository
	Posts(db dbx.DBTX) posts.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	Articles(db dbx.DBTX) articles.Repository
	Buckets(db dbx.DBTX) buckets.Repository
	Questions(db dbx.DBTX) questions.Repository
	Chats(db dbx.DBTX) chats.Repository
}
