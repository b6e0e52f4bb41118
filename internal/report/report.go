package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/telemetry"
)

// minSubredditPosts is the smallest sample a subreddit needs before its
// average is worth reporting
const minSubredditPosts = 5

// ageBucket is a half-open account-age range in months; Max < 0 means unbounded
type ageBucket struct {
	Min, Max int
}

var ageBuckets = []ageBucket{
	{0, 3}, {3, 6}, {6, 12}, {12, 24}, {24, 36},
	{36, 60}, {60, 84}, {84, 120}, {120, -1},
}

// Reporter renders the aggregate calculation files consumed downstream.
// It only reads rows the collection and scoring passes produced.
type Reporter struct {
	db     *gorm.DB
	dir    string
	logger *zap.Logger
}

// NewReporter creates a reporter writing into dir
func NewReporter(db *gorm.DB, dir string) *Reporter {
	return &Reporter{
		db:     db,
		dir:    dir,
		logger: logging.WithComponent("report"),
	}
}

// Run produces every calculation file and the trend chart
func (r *Reporter) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "report.run")
	defer span.End()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	if err := r.weekdaySentiment(ctx); err != nil {
		return err
	}
	if err := r.subredditSentiment(ctx); err != nil {
		return err
	}
	monthly, err := r.monthlySentiment(ctx)
	if err != nil {
		return err
	}
	if err := r.accountAgeSentiment(ctx); err != nil {
		return err
	}
	if err := r.renderMonthlyChart(monthly); err != nil {
		return err
	}

	r.logger.Info("Reports written", zap.String("dir", r.dir))
	return nil
}

// weekdaySentiment writes average sentiment per platform and weekday
// (0=Sunday) as CSV
func (r *Reporter) weekdaySentiment(ctx context.Context) error {
	var rows []struct {
		Platform     string
		Weekday      int
		AvgSentiment float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT platform,
		       weekday,
		       ROUND(AVG(sentiment), 2) AS avg_sentiment
		FROM (
		    SELECT 'Reddit' AS platform,
		           EXTRACT(DOW FROM post_date)::int AS weekday,
		           sentiment
		    FROM reddit_posts
		    WHERE sentiment IS NOT NULL

		    UNION ALL

		    SELECT 'Instagram',
		           EXTRACT(DOW FROM post_date)::int,
		           sentiment
		    FROM instagram_posts
		    WHERE sentiment IS NOT NULL
		) posts
		GROUP BY platform, weekday
		ORDER BY platform, weekday
	`).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("weekday sentiment query failed: %w", err)
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Platform,
			fmt.Sprintf("%d", row.Weekday),
			formatAvg(row.AvgSentiment),
		})
	}

	return writeCSV(
		filepath.Join(r.dir, "weekday_sentiment.csv"),
		[]string{"platform", "weekday", "avg_sentiment"},
		records,
	)
}

// subredditSentiment writes average sentiment per subreddit, pipe-delimited,
// best first, ignoring subreddits with too few posts
func (r *Reporter) subredditSentiment(ctx context.Context) error {
	var rows []struct {
		Subreddit    string
		NPosts       int64
		AvgSentiment float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT subreddit,
		       COUNT(*) AS n_posts,
		       ROUND(AVG(sentiment), 2) AS avg_sentiment
		FROM reddit_posts
		WHERE subreddit IS NOT NULL
		  AND subreddit <> ''
		  AND sentiment IS NOT NULL
		GROUP BY subreddit
		HAVING COUNT(*) >= ?
		ORDER BY avg_sentiment DESC
	`, minSubredditPosts).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("subreddit sentiment query failed: %w", err)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "subreddit|n_posts|avg_sentiment")
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s|%d|%s", row.Subreddit, row.NPosts, formatAvg(row.AvgSentiment)))
	}

	return writeLines(filepath.Join(r.dir, "subreddit_sentiment.txt"), lines)
}

// MonthlyPoint is one month of the cross-platform sentiment trend
type MonthlyPoint struct {
	Month        string  `json:"month"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// monthlySentiment writes the cross-platform monthly trend as JSON and
// returns it for chart rendering
func (r *Reporter) monthlySentiment(ctx context.Context) ([]MonthlyPoint, error) {
	var rows []struct {
		Month        string
		AvgSentiment float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT month,
		       ROUND(AVG(sentiment), 2) AS avg_sentiment
		FROM (
		    SELECT to_char(post_date, 'YYYY-MM') AS month, sentiment
		    FROM reddit_posts
		    WHERE sentiment IS NOT NULL

		    UNION ALL

		    SELECT to_char(post_date, 'YYYY-MM'), sentiment
		    FROM instagram_posts
		    WHERE sentiment IS NOT NULL
		) posts
		GROUP BY month
		ORDER BY month
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly sentiment query failed: %w", err)
	}

	points := make([]MonthlyPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, MonthlyPoint{Month: row.Month, AvgSentiment: row.AvgSentiment})
	}

	if err := writeJSON(filepath.Join(r.dir, "monthly_sentiment.json"), points); err != nil {
		return nil, err
	}
	return points, nil
}

// ageBucketResult is one account-age range with its average sentiment
type ageBucketResult struct {
	AccountAgeRange string   `json:"account_age_range"`
	AvgSentiment    *float64 `json:"avg_sentiment"`
}

// accountAgeSentiment writes average sentiment bucketed by account age in
// months; buckets without any users are omitted
func (r *Reporter) accountAgeSentiment(ctx context.Context) error {
	results := make([]ageBucketResult, 0, len(ageBuckets))

	for _, bucket := range ageBuckets {
		query := `
			SELECT COUNT(DISTINCT u.id) AS user_count,
			       AVG(p.sentiment) AS avg_sentiment
			FROM reddit_users u
			JOIN reddit_posts p ON p.user_id = u.id
			WHERE p.sentiment IS NOT NULL
			  AND (EXTRACT(YEAR FROM age(now(), u.account_created)) * 12
			       + EXTRACT(MONTH FROM age(now(), u.account_created))) >= ?`
		args := []interface{}{bucket.Min}
		label := fmt.Sprintf("%d+ months", bucket.Min)

		if bucket.Max >= 0 {
			query += `
			  AND (EXTRACT(YEAR FROM age(now(), u.account_created)) * 12
			       + EXTRACT(MONTH FROM age(now(), u.account_created))) < ?`
			args = append(args, bucket.Max)
			label = fmt.Sprintf("%d-%d months", bucket.Min, bucket.Max)
		}

		var row struct {
			UserCount    int64
			AvgSentiment *float64
		}
		if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&row).Error; err != nil {
			return fmt.Errorf("account age query failed for %s: %w", label, err)
		}

		if row.UserCount == 0 {
			continue
		}
		if row.AvgSentiment != nil {
			rounded := float64(int(*row.AvgSentiment*100+0.5)) / 100
			row.AvgSentiment = &rounded
		}
		results = append(results, ageBucketResult{
			AccountAgeRange: label,
			AvgSentiment:    row.AvgSentiment,
		})
	}

	return writeJSON(filepath.Join(r.dir, "account_age_sentiment.json"), results)
}
