package scraper

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/db"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
)

func mockRepo(t *testing.T) (*db.Repository, sqlmock.Sqlmock) {
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

	return db.NewRepository(gormDB), mock
}

func redditTestPlatform(t *testing.T) (*RedditPlatform, sqlmock.Sqlmock) {
	t.Helper()
	repo, mock := mockRepo(t)
	cfg := config.PlatformConfig{Term: "Donald Trump", APILimit: 150, DBLimit: 25}
	return NewRedditPlatform(repo, nil, cfg), mock
}

func TestRedditTaskSpec(t *testing.T) {
	platform, _ := redditTestPlatform(t)

	spec := platform.TaskSpec()

	if spec.ActorID != "trudax/reddit-scraper-lite" {
		t.Errorf("unexpected actor id: %s", spec.ActorID)
	}
	if spec.Name == "" {
		t.Error("task name must be set")
	}
	searches, _ := spec.Input["searches"].([]string)
	if len(searches) != 1 || searches[0] != "Donald Trump" {
		t.Errorf("expected search term in input, got %v", spec.Input["searches"])
	}
	if spec.Input["maxItems"] != 150 {
		t.Errorf("expected maxItems 150, got %v", spec.Input["maxItems"])
	}
}

func TestRedditDedupKey(t *testing.T) {
	platform, _ := redditTestPlatform(t)

	key, err := platform.DedupKey(Candidate{"id": "t3_abc"})
	if err != nil {
		t.Fatalf("DedupKey failed: %v", err)
	}
	if key != "t3_abc" {
		t.Errorf("expected post id as dedup key, got %q", key)
	}

	if _, err := platform.DedupKey(Candidate{"title": "no id here"}); err == nil {
		t.Error("expected error for candidate without post id")
	}
}

func TestRedditIngestUpsertsUserBeforePost(t *testing.T) {
	platform, mock := redditTestPlatform(t)

	// User upsert happens first, then FK resolution, then the post insert
	mock.ExpectQuery(`INSERT INTO "reddit_users" .+ ON CONFLICT .+ DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT .+ FROM "reddit_users" WHERE account_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "account_id"}).
			AddRow(int64(3), "some_redditor", "t2_user"))
	mock.ExpectQuery(`INSERT INTO "reddit_posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	candidate := Candidate{
		"id":                  "t3_abc",
		"userId":              "t2_user",
		"username":            "some_redditor",
		"title":               "Breaking news",
		"body":                "Some body text",
		"createdAt":           "2023-11-14T22:13:20Z",
		"parsedCommunityName": "politics",
		"upVotes":             float64(42),
	}
	if err := platform.Ingest(context.Background(), candidate); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRedditIngestFailsWhenUserUnresolvable(t *testing.T) {
	platform, mock := redditTestPlatform(t)

	mock.ExpectQuery(`INSERT INTO "reddit_users" .+ ON CONFLICT .+ DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT .+ FROM "reddit_users" WHERE account_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "account_id"}))

	candidate := Candidate{
		"id":     "t3_abc",
		"userId": "t2_user",
	}
	if err := platform.Ingest(context.Background(), candidate); err == nil {
		t.Error("expected error when user cannot be resolved after upsert")
	}
}

func TestRedditIngestRejectsMissingAccountID(t *testing.T) {
	platform, _ := redditTestPlatform(t)

	candidate := Candidate{"id": "t3_abc", "title": "orphan post"}
	if err := platform.Ingest(context.Background(), candidate); err == nil {
		t.Error("expected error for candidate without account id")
	}
}
