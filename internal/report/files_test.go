package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFormatAvg(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{52.38, "52.38"},
		{52.5, "52.5"},
		{50, "50"},
		{0, "0"},
		{100, "100"},
		{49.999, "50"},
	}
	for _, tt := range tests {
		if got := formatAvg(tt.in); got != tt.want {
			t.Errorf("formatAvg(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekday_sentiment.csv")

	err := writeCSV(path,
		[]string{"platform", "weekday", "avg_sentiment"},
		[][]string{
			{"Instagram", "0", "48.2"},
			{"Reddit", "1", "52.38"},
		})
	if err != nil {
		t.Fatalf("writeCSV failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	want := "platform,weekday,avg_sentiment\nInstagram,0,48.2\nReddit,1,52.38\n"
	if string(content) != want {
		t.Errorf("unexpected csv content:\n%s\nwant:\n%s", content, want)
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subreddit_sentiment.txt")

	err := writeLines(path, []string{
		"subreddit|n_posts|avg_sentiment",
		"politics|12|55.4",
		"news|7|43.1",
	})
	if err != nil {
		t.Fatalf("writeLines failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	want := "subreddit|n_posts|avg_sentiment\npolitics|12|55.4\nnews|7|43.1\n"
	if string(content) != want {
		t.Errorf("unexpected txt content:\n%s", content)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly_sentiment.json")

	points := []MonthlyPoint{
		{Month: "2023-10", AvgSentiment: 51.2},
		{Month: "2023-11", AvgSentiment: 47.9},
	}
	if err := writeJSON(path, points); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	want := `[
  {
    "month": "2023-10",
    "avg_sentiment": 51.2
  },
  {
    "month": "2023-11",
    "avg_sentiment": 47.9
  }
]
`
	if string(content) != want {
		t.Errorf("unexpected json content:\n%s\nwant:\n%s", content, want)
	}
}
