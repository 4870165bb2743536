package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/aipulse/aipulse/internal/models"
)

// ArticleRepository reads analyzed-article distributions from PostgreSQL.
// It is the production implementation of consensus.DistributionSource.
type ArticleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// timeframeCutoff converts a lookback window ("7", "30", "90" days, or
// "all") into a cutoff timestamp. ok is false for "all" and for values
// that do not parse, meaning no time filter applies.
func timeframeCutoff(timeframe string, now time.Time) (time.Time, bool) {
	if timeframe == "" || timeframe == "all" {
		return time.Time{}, false
	}
	days, err := strconv.Atoi(timeframe)
	if err != nil || days <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -days), true
}

// SentimentDistribution returns the sentiment histogram for one
// (topic, category, timeframe), ordered by label for deterministic
// downstream aggregation.
func (r *ArticleRepository) SentimentDistribution(ctx context.Context, topic, category, timeframe string) (models.Histogram, error) {
	return r.distribution(ctx, "sentiment", topic, category, timeframe)
}

// TimeToImpactDistribution returns the time-to-impact histogram for one
// (topic, category, timeframe).
func (r *ArticleRepository) TimeToImpactDistribution(ctx context.Context, topic, category, timeframe string) (models.Histogram, error) {
	return r.distribution(ctx, "time_to_impact", topic, category, timeframe)
}

func (r *ArticleRepository) distribution(ctx context.Context, column, topic, category, timeframe string) (models.Histogram, error) {
	// column is one of two fixed identifiers, never caller input.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM articles
		WHERE topic = $1 AND category = $2 AND published_at >= $3
		GROUP BY %s
		ORDER BY %s
	`, column, column, column)

	cutoff, bounded := timeframeCutoff(timeframe, time.Now())
	if !bounded {
		cutoff = time.Time{}
	}

	rows, err := r.db.QueryContext(ctx, query, topic, category, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s distribution: %w", column, err)
	}
	defer rows.Close()

	var hist models.Histogram
	for rows.Next() {
		var b models.Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s bucket: %w", column, err)
		}
		hist = append(hist, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s distribution: %w", column, err)
	}

	return hist, nil
}

// AvailableCategories returns the topic's configured categories in
// display order.
func (r *ArticleRepository) AvailableCategories(ctx context.Context, topic string) ([]string, error) {
	query := `
		SELECT category
		FROM topic_categories
		WHERE topic = $1
		ORDER BY display_order, category
	`

	rows, err := r.db.QueryContext(ctx, query, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

// TotalArticleCount counts articles for the topic across the given
// categories, independent of any histogram query.
func (r *ArticleRepository) TotalArticleCount(ctx context.Context, topic string, categories []string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM articles
		WHERE topic = $1 AND category = ANY($2)
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, topic, pq.Array(categories)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// SampleArticles returns up to limit representative articles for the
// category, most recent first.
func (r *ArticleRepository) SampleArticles(ctx context.Context, topic, category, timeframe string, limit int) ([]models.ArticleRef, error) {
	query := `
		SELECT id, title, url, source
		FROM articles
		WHERE topic = $1 AND category = $2 AND published_at >= $3
		ORDER BY published_at DESC
		LIMIT $4
	`

	cutoff, bounded := timeframeCutoff(timeframe, time.Now())
	if !bounded {
		cutoff = time.Time{}
	}

	rows, err := r.db.QueryContext(ctx, query, topic, category, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample articles: %w", err)
	}
	defer rows.Close()

	var refs []models.ArticleRef
	for rows.Next() {
		var ref models.ArticleRef
		var url, source sql.NullString
		if err := rows.Scan(&ref.ID, &ref.Title, &url, &source); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		ref.URL = url.String
		ref.Source = source.String
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sample articles: %w", err)
	}

	return refs, nil
}
