package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/models"
)

func mockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return NewRepository(gormDB), mock
}

func TestUserUpsertInsertsOnConflictDoNothing(t *testing.T) {
	repo, mock := mockRepository(t)
	users := NewUserRepository(repo)

	mock.ExpectQuery(`INSERT INTO "reddit_users" .+ ON CONFLICT .+ DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	user := &models.User{
		Username:       "some_redditor",
		AccountID:      "t2_abc",
		AccountCreated: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := users.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserUpsertConflictLeavesExistingRow(t *testing.T) {
	repo, mock := mockRepository(t)
	users := NewUserRepository(repo)

	// Conflicting insert returns no row; that is not an error
	mock.ExpectQuery(`INSERT INTO "reddit_users" .+ ON CONFLICT .+ DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user := &models.User{
		Username:       "renamed_redditor",
		AccountID:      "t2_abc",
		AccountCreated: time.Now(),
	}
	if err := users.Upsert(context.Background(), user); err != nil {
		t.Fatalf("Upsert on conflict should not error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserGetByAccountIDNotFound(t *testing.T) {
	repo, mock := mockRepository(t)
	users := NewUserRepository(repo)

	mock.ExpectQuery(`SELECT .+ FROM "reddit_users" WHERE account_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "account_id"}))

	user, err := users.GetByAccountID(context.Background(), "t2_missing")
	if err != nil {
		t.Fatalf("not-found should not be an error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestUserGetByAccountID(t *testing.T) {
	repo, mock := mockRepository(t)
	users := NewUserRepository(repo)

	rows := sqlmock.NewRows([]string{"id", "username", "account_id", "karma"}).
		AddRow(int64(42), "some_redditor", "t2_abc", int64(0))
	mock.ExpectQuery(`SELECT .+ FROM "reddit_users" WHERE account_id =`).
		WillReturnRows(rows)

	user, err := users.GetByAccountID(context.Background(), "t2_abc")
	if err != nil {
		t.Fatalf("GetByAccountID failed: %v", err)
	}
	if user == nil || user.ID != 42 {
		t.Errorf("expected user with id 42, got %+v", user)
	}
}

func TestRedditPostExistsByPostID(t *testing.T) {
	repo, mock := mockRepository(t)
	posts := NewRedditPostRepository(repo)

	mock.ExpectQuery(`SELECT count.+ FROM "reddit_posts" WHERE post_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := posts.ExistsByPostID(context.Background(), "t3_abc")
	if err != nil {
		t.Fatalf("ExistsByPostID failed: %v", err)
	}
	if !exists {
		t.Error("expected post to exist")
	}

	mock.ExpectQuery(`SELECT count.+ FROM "reddit_posts" WHERE post_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	exists, err = posts.ExistsByPostID(context.Background(), "t3_new")
	if err != nil {
		t.Fatalf("ExistsByPostID failed: %v", err)
	}
	if exists {
		t.Error("expected post to be absent")
	}
}

func TestInstagramPostExistsByAccountID(t *testing.T) {
	repo, mock := mockRepository(t)
	posts := NewInstagramPostRepository(repo)

	mock.ExpectQuery(`SELECT count.+ FROM "instagram_posts" WHERE account_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := posts.ExistsByAccountID(context.Background(), "some_account")
	if err != nil {
		t.Fatalf("ExistsByAccountID failed: %v", err)
	}
	if !exists {
		t.Error("expected post to exist")
	}
}

func TestRedditPostUpdateSentiment(t *testing.T) {
	repo, mock := mockRepository(t)
	posts := NewRedditPostRepository(repo)

	mock.ExpectExec(`UPDATE "reddit_posts" SET "sentiment"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := posts.UpdateSentiment(context.Background(), 13, 72); err != nil {
		t.Fatalf("UpdateSentiment failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
