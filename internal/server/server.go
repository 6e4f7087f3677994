package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

// document is one rendered body with its validator.
type document struct {
	data []byte
	etag string
}

// cacheItem stores the renderings of the latest chart.
type cacheItem struct {
	chart        document
	calendar     document
	lastModified string // RFC1123 format required by HTTP headers
}

// ChartServer serves the latest chart as JSON and as an iCalendar feed on localhost.
type ChartServer struct {
	// cache is replaced as a whole by Update.
	cache   atomic.Pointer[cacheItem]
	handler http.Handler
	Port    string
}

// NewChartServer creates a new instance of the server.
func NewChartServer(port string) *ChartServer {
	s := &ChartServer{Port: port}
	s.handler = s.routes()
	return s
}

// Handler exposes the routed, CORS-wrapped handler.
func (s *ChartServer) Handler() http.Handler {
	return s.handler
}

func (s *ChartServer) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(config.RouteRoot, s.handleChart).Methods(config.AllowedMethods...)
	r.HandleFunc(config.RouteChart, s.handleChart).Methods(config.AllowedMethods...)
	r.HandleFunc(config.RouteCalendar, s.handleCalendar).Methods(config.AllowedMethods...)
	r.HandleFunc(config.RouteHealth, s.handleHealth).Methods(config.AllowedMethods...)
	r.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	// Browser-side chart renderers live on another origin.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: config.AllowedMethods,
		MaxAge:         config.CORSMaxAgeSeconds,
	})
	return c.Handler(r)
}

// Start binds the loopback interface and blocks until the context is cancelled.
func (s *ChartServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.handler,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update renders chart and atomically replaces the served content.
// It matches the engine.Refresher publish hook.
func (s *ChartServer) Update(chart *engine.Chart) {
	if chart == nil {
		return
	}
	data, err := json.Marshal(chart.Document())
	if err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}

	item := &cacheItem{
		chart:        newDocument(data),
		calendar:     newDocument(chart.ICS),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, item.chart.etag,
	)
}

func newDocument(data []byte) document {
	hash := sha256.Sum256(data)
	return document{data: data, etag: fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))}
}

func (s *ChartServer) handleChart(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, config.MimeJSON, func(item *cacheItem) document { return item.chart })
}

func (s *ChartServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, config.MimeTextCalendar, func(item *cacheItem) document { return item.calendar })
}

func (s *ChartServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeTextPlain)
	if r.Method == http.MethodGet {
		_, _ = io.WriteString(w, config.HTTPMsgHealthy)
	}
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderAllow, strings.Join(config.AllowedMethods, ", "))
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}

// serve writes one cached rendering with HTTP caching support.
func (s *ChartServer) serve(w http.ResponseWriter, r *http.Request, mime string, pick func(*cacheItem) document) {
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}
	doc := pick(item)

	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, doc.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		if etagMatches(match, doc.etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else if notModifiedSince(r.Header.Get(config.HeaderIfModifiedSince), item.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(doc.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// etagMatches applies the weak comparison of If-None-Match: any listed
// validator, with or without W/, or "*".
func etagMatches(header, etag string) bool {
	want := strings.TrimPrefix(etag, config.ETagWeakPrefix)
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == config.ETagAny || strings.TrimPrefix(candidate, config.ETagWeakPrefix) == want {
			return true
		}
	}
	return false
}

// notModifiedSince reports whether content modified at lastModified is not newer than since.
func notModifiedSince(since, lastModified string) bool {
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
