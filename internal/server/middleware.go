package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ya_projects/internal/logger"
	"ya_projects/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader - имя заголовка для ID запроса.
const RequestIDHeader = "X-Request-ID"

// responseWriter запоминает код ответа.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func wrap(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// RequestID берёт ID запроса из заголовка или генерирует новый и кладёт его в контекст.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

// Logging логирует информацию о каждом запросе.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		logger.FromContext(r.Context()).WithFields(logrus.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    rw.statusCode,
			"duration":  time.Since(start).String(),
			"remote_ip": r.RemoteAddr,
		}).Info("Request processed")
	})
}

// Metrics считает запросы по шаблону маршрута. Между Metrics и ServeMux не
// должно быть middleware, подменяющих *http.Request: маршрутизатор записывает
// r.Pattern в тот же запрос.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Recover превращает панику обработчика в страницу 500.
// Должен стоять внутри Logging и Metrics.
func Recover(s *Server, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.ServerError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
