package chats

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

const (
	insertQ        = `(?s)^INSERT\s+INTO\s+chats\s*\(id,\s*name,\s*owner_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at\s*$`
	getQ           = `(?s)^SELECT\s+c\.id,.*FROM\s+chats\s+c\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*c\.owner_id\s+WHERE\s+c\.id\s*=\s*\$1$`
	listByMemberQ  = `(?s)^SELECT\s+c\.id,.*JOIN\s+chat_members\s+cm\s+ON\s+cm\.chat_id\s*=\s*c\.id\s+WHERE\s+cm\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+c\.created_at\s+DESC$`
	addMemberQ     = `^INSERT INTO chat_members \(chat_id, user_id\) VALUES \(\$1, \$2\) ON CONFLICT DO NOTHING$`
	isMemberQ      = `^SELECT EXISTS \(SELECT 1 FROM chat_members WHERE chat_id = \$1 AND user_id = \$2\)$`
	insertMessageQ = `(?s)^INSERT\s+INTO\s+messages\s*\(id,\s*chat_id,\s*author_id,\s*reply_id,\s*content\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at\s*$`
	getMessageQ    = `(?s)^SELECT\s+m\.id,.*FROM\s+messages\s+m\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*m\.author_id\s+WHERE\s+m\.id\s*=\s*\$1$`
	listMessagesQ  = `(?s)^SELECT\s+m\.id,.*WHERE\s+m\.chat_id\s*=\s*\$1\s+ORDER\s+BY\s+m\.created_at\s+DESC\s+LIMIT\s+\$2$`
)

var (
	chatCols    = []string{"id", "name", "owner_id", "username", "created_at"}
	messageCols = []string{"id", "chat_id", "author_id", "username", "reply_id", "content", "created_at"}
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreateAndGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WithArgs(sqlmock.AnyArg(), "team", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(getQ).WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(chatCols).AddRow("c-1", "team", "u-1", "alice", time.Now()))
	mock.ExpectQuery(getQ).WithArgs("c-x").WillReturnError(sql.ErrNoRows)

	created, err := repo.Create(context.Background(), &models.Chat{Name: "team", OwnerID: "u-1"})
	if err != nil || created.ID == "" {
		t.Fatalf("Create = %+v, %v", created, err)
	}

	got, err := repo.GetByID(context.Background(), "c-1")
	if err != nil || got.OwnerName != "alice" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}
	if _, err := repo.GetByID(context.Background(), "c-x"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMembers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(addMemberQ).WithArgs("c-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(isMemberQ).WithArgs("c-1", "u-2").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(isMemberQ).WithArgs("c-1", "u-3").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(listByMemberQ).WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(chatCols).AddRow("c-1", "team", "u-1", "alice", time.Now()))

	if err := repo.AddMember(context.Background(), "c-1", "u-2"); err != nil {
		t.Fatalf("AddMember error: %v", err)
	}
	if ok, err := repo.IsMember(context.Background(), "c-1", "u-2"); err != nil || !ok {
		t.Fatalf("IsMember(u-2) = %v, %v", ok, err)
	}
	if ok, err := repo.IsMember(context.Background(), "c-1", "u-3"); err != nil || ok {
		t.Fatalf("IsMember(u-3) = %v, %v", ok, err)
	}

	list, err := repo.ListByMember(context.Background(), "u-2")
	if err != nil || len(list) != 1 || list[0].ID != "c-1" {
		t.Fatalf("ListByMember = %+v, %v", list, err)
	}
}

func TestAddMember_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(addMemberQ).WillReturnError(errors.New("fk violation"))
	err := repo.AddMember(context.Background(), "c-1", "u-x")
	if err == nil || !regexp.MustCompile(`db error: .*fk violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertMessageQ).
		WithArgs(sqlmock.AnyArg(), "c-1", "u-1", sql.NullString{String: "m-1", Valid: true}, "reply").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(getMessageQ).WithArgs("m-x").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(listMessagesQ).WithArgs("c-1", 50).
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow("m-2", "c-1", "u-1", "alice", "m-1", "reply", time.Now()).
			AddRow("m-1", "c-1", "u-2", "bob", nil, "hello", time.Now().Add(-time.Minute)))

	m, err := repo.CreateMessage(context.Background(), &models.Message{ChatID: "c-1", AuthorID: "u-1", ReplyID: "m-1", Content: "reply"})
	if err != nil || m.ID == "" {
		t.Fatalf("CreateMessage = %+v, %v", m, err)
	}
	if _, err := repo.GetMessage(context.Background(), "m-x"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}

	list, err := repo.ListMessages(context.Background(), "c-1", 50)
	if err != nil {
		t.Fatalf("ListMessages error: %v", err)
	}
	if len(list) != 2 || list[0].ReplyID != "m-1" || list[1].ReplyID != "" {
		t.Fatalf("unexpected messages: %+v", list)
	}
}
