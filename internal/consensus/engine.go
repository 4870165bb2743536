package consensus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aipulse/aipulse/internal/metrics"
	"github.com/aipulse/aipulse/internal/models"
)

// ErrNoCategories signals that a topic has no categories at all. It is
// distinct from a forecast that merely came back empty, so the render
// layer can show a guidance message instead of a blank chart.
var ErrNoCategories = errors.New("no categories available for topic")

// DistributionSource supplies per-category evidence histograms. The engine
// defines the interface it consumes; the production implementation lives
// in the database package.
type DistributionSource interface {
	SentimentDistribution(ctx context.Context, topic, category, timeframe string) (models.Histogram, error)
	TimeToImpactDistribution(ctx context.Context, topic, category, timeframe string) (models.Histogram, error)
	AvailableCategories(ctx context.Context, topic string) ([]string, error)
	TotalArticleCount(ctx context.Context, topic string, categories []string) (int, error)
	SampleArticles(ctx context.Context, topic, category, timeframe string, limit int) ([]models.ArticleRef, error)
}

// Engine computes consensus forecasts from evidence histograms. It holds
// no cross-request state: every GenerateForecast call is independent and
// the engine may be shared by concurrent callers without coordination.
type Engine struct {
	source    DistributionSource
	detector  *StatisticalOutlierDetector
	library   *CuratedScenarioLibrary
	params    Params
	logger    *slog.Logger
	collector *metrics.ForecastCollector
}

// NewEngine constructs an engine. A nil library disables curated
// scenarios; a nil collector disables metrics.
func NewEngine(source DistributionSource, library *CuratedScenarioLibrary, params Params, logger *slog.Logger, collector *metrics.ForecastCollector) *Engine {
	return &Engine{
		source:    source,
		detector:  NewStatisticalOutlierDetector(params),
		library:   library,
		params:    params,
		logger:    logger,
		collector: collector,
	}
}

// categoryOutcome is the per-category result, kept explicit so a "Data
// Error" fallback band is distinguishable from a genuine classification.
type categoryOutcome struct {
	band          models.ConsensusBand
	outliers      []models.OutlierMarker
	articlesTotal int
	err           *models.CategoryError
}

// GenerateForecast runs the full pipeline for a topic: category
// resolution, per-category band and outlier computation, and assembly
// into one ForecastResult. Per-category failures never abort the batch;
// each failed category gets the safe default band and a recorded error.
func (e *Engine) GenerateForecast(ctx context.Context, topic, timeframe string, categories []string) (*models.ForecastResult, error) {
	start := time.Now()

	if len(categories) == 0 {
		available, err := e.source.AvailableCategories(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve categories for topic %q: %w", topic, err)
		}
		categories = available
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("topic %q: %w", topic, ErrNoCategories)
	}

	if len(categories) > e.params.MaxCategories {
		e.logger.Debug("truncating category list for display",
			"topic", topic,
			"requested", len(categories),
			"max", e.params.MaxCategories)
		categories = categories[:e.params.MaxCategories]
	}

	themes := make([]string, len(categories))
	copy(themes, categories)

	// Per-category work is independent; outcomes land in index-aligned
	// slots so concurrent execution cannot reorder the result.
	outcomes := make([]categoryOutcome, len(themes))
	done := make(chan int, len(themes))
	for i := range themes {
		go func(idx int) {
			outcomes[idx] = e.computeCategory(ctx, topic, themes[idx], timeframe)
			done <- idx
		}(i)
	}
	for range themes {
		<-done
	}

	result := &models.ForecastResult{
		Topic:     topic,
		Timeframe: timeframe,
		Themes:    themes,
		Bands:     make([]models.ConsensusBand, len(themes)),
		Outliers:  make([][]models.OutlierMarker, len(themes)),
	}

	failures := 0
	histogramTotal := 0
	for i, outcome := range outcomes {
		result.Bands[i] = outcome.band
		result.Outliers[i] = outcome.outliers
		histogramTotal += outcome.articlesTotal
		if outcome.err != nil {
			failures++
			result.CategoryErrors = append(result.CategoryErrors, *outcome.err)
		}
	}

	// Prefer a direct count: it tolerates categories whose histograms
	// were only partially available.
	total, err := e.source.TotalArticleCount(ctx, topic, themes)
	if err != nil {
		e.logger.Warn("total article count query failed, using histogram sum",
			"topic", topic, "error", err)
		total = histogramTotal
	}
	result.TotalArticles = total

	e.collector.ObserveForecast(topic, time.Since(start), len(themes), failures)

	e.logger.Info("forecast generated",
		"topic", topic,
		"timeframe", timeframe,
		"categories", len(themes),
		"category_failures", failures,
		"total_articles", total,
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// computeCategory derives one category's band and outliers. Any panic or
// query failure degrades to the default band; siblings are unaffected.
func (e *Engine) computeCategory(ctx context.Context, topic, category, timeframe string) (outcome categoryOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic computing category", "category", category, "panic", r)
			outcome = e.fallbackOutcome(category, fmt.Sprintf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.params.CategoryTimeout)
	defer cancel()

	sentiment, err := e.source.SentimentDistribution(ctx, topic, category, timeframe)
	if err != nil {
		e.logger.Error("sentiment distribution query failed",
			"topic", topic, "category", category, "error", err)
		return e.fallbackOutcome(category, fmt.Sprintf("sentiment query: %v", err))
	}

	timeToImpact, err := e.source.TimeToImpactDistribution(ctx, topic, category, timeframe)
	if err != nil {
		e.logger.Error("time-to-impact distribution query failed",
			"topic", topic, "category", category, "error", err)
		return e.fallbackOutcome(category, fmt.Sprintf("time-to-impact query: %v", err))
	}

	domain := ClassifyDomain(category)

	mean, spread := weightedTimeline(timeToImpact)
	start, end := e.params.sizeBand(mean, spread, timeToImpact.Total())
	start, end = adjustBand(start, end, domain, e.params.MaxIndex)

	consensusType := classifyConsensus(sentiment, domain)
	info := consensusType.Info()

	band := models.ConsensusBand{
		Category: category,
		Start:    start,
		End:      end,
		Type:     consensusType,
		Label:    info.Label,
		StyleKey: info.StyleKey,
	}

	outliers := e.detector.Detect(category, sentiment)
	if e.library != nil {
		outliers = append(outliers, e.library.Markers(category, domain, e.params.MaxIndex)...)
	}
	if outliers == nil {
		outliers = []models.OutlierMarker{}
	}

	e.enrichMarkers(ctx, topic, category, timeframe, outliers)

	return categoryOutcome{
		band:          band,
		outliers:      outliers,
		articlesTotal: sentiment.Total(),
	}
}

// enrichMarkers attaches up to one representative article to each marker.
// Fetch failure is non-fatal; markers keep empty supporting articles.
func (e *Engine) enrichMarkers(ctx context.Context, topic, category, timeframe string, markers []models.OutlierMarker) {
	if len(markers) == 0 {
		return
	}

	articles, err := e.source.SampleArticles(ctx, topic, category, timeframe, 1)
	if err != nil {
		e.logger.Debug("sample article fetch failed",
			"topic", topic, "category", category, "error", err)
		return
	}
	if len(articles) == 0 {
		return
	}

	for i := range markers {
		markers[i].SupportingArticles = articles[:1]
	}
}

func (e *Engine) fallbackOutcome(category, reason string) categoryOutcome {
	info := models.ConsensusMixed.Info()
	return categoryOutcome{
		band: models.ConsensusBand{
			Category: category,
			Start:    1,
			End:      4,
			Type:     models.ConsensusMixed,
			Label:    "Data Error",
			StyleKey: info.StyleKey,
		},
		outliers: []models.OutlierMarker{},
		err:      &models.CategoryError{Category: category, Message: reason},
	}
}
