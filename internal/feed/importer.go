// Package feed импортирует новости ya_news из RSS/Atom-лент.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"ya_projects/internal/config"
	"ya_projects/internal/logger"
	"ya_projects/internal/metrics"
	"ya_projects/internal/models"
	"ya_projects/internal/storage"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

// breakerFailures - число подряд неудачных загрузок ленты, после которого
// лента пропускается на время breakerTimeout.
const (
	breakerFailures = 3
	breakerTimeout  = time.Minute
)

// Importer загружает ленты и сохраняет их элементы как новости.
type Importer struct {
	store      storage.NewsStore
	client     *http.Client
	workers    int
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewImporter(store storage.NewsStore, cfg config.FeedsConfig) *Importer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Importer{
		store:      store,
		client:     &http.Client{Timeout: cfg.Timeout},
		workers:    workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		now:        time.Now,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
}

// FetchFeed загружает ленту по url, повторяя неудачные попытки maxRetries раз.
func (imp *Importer) FetchFeed(ctx context.Context, url string) ([]models.News, error) {
	log := logger.FromContext(ctx).WithField("url", url)

	var lastErr error
	for attempt := 0; attempt <= imp.maxRetries; attempt++ {
		if attempt > 0 {
			log.Warnf("Retrying feed fetch (%d/%d): %v", attempt, imp.maxRetries, lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(imp.retryDelay):
			}
		}

		items, err := imp.fetch(ctx, url)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (imp *Importer) fetch(ctx context.Context, url string) ([]models.News, error) {
	fp := gofeed.NewParser()
	fp.Client = imp.client
	fp.UserAgent = "ya_news-importer"

	parsed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.News, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" || it.Link == "" {
			continue
		}
		date := imp.now()
		switch {
		case it.PublishedParsed != nil:
			date = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			date = *it.UpdatedParsed
		}
		text := it.Description
		if text == "" {
			text = it.Content
		}
		items = append(items, models.News{
			Title: truncate(title, models.NewsTitleMaxLength),
			Text:  plainText(text),
			Date:  date,
			Link:  it.Link,
		})
	}
	return items, nil
}

func (imp *Importer) breaker(url string) *gobreaker.CircuitBreaker {
	imp.mu.Lock()
	defer imp.mu.Unlock()

	cb, ok := imp.breakers[url]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    url,
			Timeout: breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Log.WithFields(logrus.Fields{
					"url":  name,
					"from": from.String(),
					"to":   to.String(),
				}).Warn("Feed circuit breaker state changed")
			},
		})
		imp.breakers[url] = cb
	}
	return cb
}

// ImportFeed загружает ленту через её circuit breaker и сохраняет новые
// элементы. Возвращает число добавленных новостей.
func (imp *Importer) ImportFeed(ctx context.Context, url string) (int, error) {
	result, err := imp.breaker(url).Execute(func() (interface{}, error) {
		return imp.FetchFeed(ctx, url)
	})
	if err != nil {
		metrics.FeedFetchErrorsTotal.WithLabelValues(url).Inc()
		return 0, err
	}

	log := logger.FromContext(ctx).WithField("url", url)
	items := result.([]models.News)
	inserted := 0
	for i := range items {
		ok, err := imp.store.ImportNews(ctx, &items[i])
		if err != nil {
			log.Warnf("Failed to save news item %s: %v", items[i].Link, err)
			continue
		}
		if ok {
			inserted++
		}
	}
	metrics.FeedItemsImportedTotal.WithLabelValues(url).Add(float64(inserted))
	log.WithField("items_count", len(items)).Infof("Imported %d new items", inserted)
	return inserted, nil
}

// ImportAll обрабатывает ленты параллельно, не более workers одновременно.
// Ошибка одной ленты не прерывает остальные.
func (imp *Importer) ImportAll(ctx context.Context, urls []string) int {
	var (
		g     errgroup.Group
		total atomic.Int64
	)
	g.SetLimit(imp.workers)

	for _, url := range urls {
		g.Go(func() error {
			n, err := imp.ImportFeed(ctx, url)
			if err != nil {
				logger.FromContext(ctx).WithField("url", url).Errorf("Failed to import feed: %v", err)
				return nil
			}
			total.Add(int64(n))
			return nil
		})
	}
	_ = g.Wait()
	return int(total.Load())
}

// plainText убирает HTML-разметку из описания элемента ленты.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
