package buckets

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/server/models"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+buckets\s*\(id,\s*title\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+created_at\s*$`
	getQ    = `^SELECT id, title, created_at FROM buckets WHERE id = \$1$`
	listQ   = `^SELECT id, title, created_at FROM buckets ORDER BY created_at DESC$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "Town hall").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), &models.Bucket{Title: "Town hall"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected bucket: %+v", got)
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).AddRow("b-1", "Town hall", time.Now()))
	mock.ExpectQuery(getQ).WithArgs("b-x").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "b-1")
	if err != nil || got.Title != "Town hall" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}
	if _, err := repo.GetByID(context.Background(), "b-x"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at"}).
		AddRow("b-2", "Second", time.Now()).
		AddRow("b-1", "First", time.Now().Add(-time.Hour)))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b-2" {
		t.Fatalf("unexpected buckets: %+v", got)
	}
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("conn reset"))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
