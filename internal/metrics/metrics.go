// Package metrics объявляет метрики Prometheus обоих приложений.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ya_http_requests_total",
		Help: "Количество обработанных HTTP-запросов.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ya_http_request_duration_seconds",
		Help:    "Время обработки HTTP-запросов.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CommentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ya_news_comments_created_total",
		Help: "Количество созданных комментариев.",
	})

	// CommentsRejectedTotal считает комментарии, отклонённые фильтром запрещённых слов.
	CommentsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ya_news_comments_rejected_total",
		Help: "Количество комментариев с запрещёнными словами.",
	})

	NotesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ya_note_notes_created_total",
		Help: "Количество созданных заметок.",
	})

	SlugConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ya_note_slug_conflicts_total",
		Help: "Количество отклонённых дублей slug.",
	})

	LoginFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ya_login_failures_total",
		Help: "Неудачные попытки входа.",
	}, []string{"reason"})

	FeedItemsImportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ya_news_feed_items_imported_total",
		Help: "Новости, импортированные из RSS-лент.",
	}, []string{"feed"})

	FeedFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ya_news_feed_fetch_errors_total",
		Help: "Ошибки загрузки RSS-лент.",
	}, []string{"feed"})
)
