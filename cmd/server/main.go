// Command server exposes lemmagen models as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/lemmatize?lang=<code>&word=<word>
//	POST /api/lemmatize/batch   body: {"lang":"en","words":["cats","dogs"]}
//	GET  /api/languages
//	GET  /api/models/<code>
//	GET  /api/metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	metrics "github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"
	"github.com/rs/cors"

	"github.com/cours-de-latin/lemmagen"
	"github.com/cours-de-latin/lemmagen/internal/config"
	"github.com/cours-de-latin/lemmagen/internal/logging"
)

// ---- JSON response types ------------------------------------------------

type lemmatizeResponse struct {
	Lang  string `json:"lang"`
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
}

type batchRequest struct {
	Lang  string   `json:"lang"`
	Words []string `json:"words"`
}

type batchResultJSON struct {
	Word  string `json:"word"`
	Lemma string `json:"lemma,omitempty"`
	Error string `json:"error,omitempty"`
}

type batchResponse struct {
	Lang    string            `json:"lang"`
	Results []batchResultJSON `json:"results"`
}

type languagesResponse struct {
	Languages []string `json:"languages"`
}

type statsJSON struct {
	Nodes      int `json:"nodes"`
	Rules      int `json:"rules"`
	Leaves     int `json:"leaves"`
	Internals  int `json:"internals"`
	EntireWord int `json:"entire_word"`
	Slots      int `json:"slots"`
	UsedSlots  int `json:"used_slots"`
	Depth      int `json:"depth"`
}

type modelResponse struct {
	Lang  string    `json:"lang"`
	Bytes int       `json:"bytes"`
	Stats statsJSON `json:"stats"`
	Valid bool      `json:"valid"`
	Error string    `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(logger hclog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode error", "error", err)
	}
}

func writeError(logger hclog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, errorResponse{Error: msg})
}

// statusFor maps lemmagen errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lemmagen.ErrUnsupportedLanguage):
		return http.StatusNotFound
	case errors.Is(err, lemmagen.ErrInvalidWord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ---- handlers -----------------------------------------------------------

func handleLemmatize(reg *lemmagen.Registry, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(logger, w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		lang := r.URL.Query().Get("lang")
		word := r.URL.Query().Get("word")
		if lang == "" || word == "" {
			writeError(logger, w, http.StatusBadRequest, "'lang' and 'word' query parameters are required")
			return
		}

		metrics.IncrCounter([]string{"lemmagen", "api", "lemmatize"}, 1)
		lemma, err := reg.Lemmatize(lang, word)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error("lemmatize failed", "lang", lang, "word", word, "error", err)
			}
			writeError(logger, w, status, err.Error())
			return
		}
		writeJSON(logger, w, http.StatusOK, lemmatizeResponse{Lang: lang, Word: word, Lemma: lemma})
	}
}

// batchBodyLimit bounds a batch request body: every word at its longest with
// each byte escaped as \u00XX, plus room for the envelope.
func batchBodyLimit(maxBatch int) int64 {
	return int64(maxBatch)*(6*lemmagen.MaxWordLen+8) + 1024
}

func handleBatch(reg *lemmagen.Registry, logger hclog.Logger, maxBatch int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(logger, w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, batchBodyLimit(maxBatch))
		var body batchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(logger, w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
				return
			}
			writeError(logger, w, http.StatusBadRequest, "body must be JSON with a non-empty 'lang' field")
			return
		}
		if body.Lang == "" {
			writeError(logger, w, http.StatusBadRequest, "body must be JSON with a non-empty 'lang' field")
			return
		}
		if len(body.Words) > maxBatch {
			writeError(logger, w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("at most %d words per batch, got %d", maxBatch, len(body.Words)))
			return
		}

		m, err := reg.Model(body.Lang)
		if err != nil {
			writeError(logger, w, statusFor(err), err.Error())
			return
		}

		metrics.IncrCounter([]string{"lemmagen", "api", "batch"}, 1)
		metrics.IncrCounter([]string{"lemmagen", "api", "batch", "words"}, float32(len(body.Words)))
		out := make([]batchResultJSON, 0, len(body.Words))
		for _, word := range body.Words {
			res := batchResultJSON{Word: word}
			if lemma, err := m.Lemmatize(word); err != nil {
				res.Error = err.Error()
			} else {
				res.Lemma = lemma
			}
			out = append(out, res)
		}
		writeJSON(logger, w, http.StatusOK, batchResponse{Lang: body.Lang, Results: out})
	}
}

func handleLanguages(reg *lemmagen.Registry, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(logger, w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		langs, err := reg.Languages()
		if err != nil {
			logger.Error("listing languages failed", "error", err)
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}
		if langs == nil {
			langs = []string{}
		}
		writeJSON(logger, w, http.StatusOK, languagesResponse{Languages: langs})
	}
}

func handleModel(reg *lemmagen.Registry, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(logger, w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		lang := r.PathValue("lang")
		m, err := reg.Model(lang)
		if err != nil {
			writeError(logger, w, statusFor(err), err.Error())
			return
		}

		st, err := m.Verify()
		resp := modelResponse{
			Lang:  lang,
			Bytes: m.Size(),
			Stats: statsJSON{
				Nodes:      st.Nodes,
				Rules:      st.Rules,
				Leaves:     st.Leaves,
				Internals:  st.Internals,
				EntireWord: st.EntireWord,
				Slots:      st.Slots,
				UsedSlots:  st.Used,
				Depth:      st.Depth,
			},
			Valid: err == nil,
		}
		if err != nil {
			resp.Error = err.Error()
		}
		writeJSON(logger, w, http.StatusOK, resp)
	}
}

func handleMetrics(sink *metrics.InmemSink, logger hclog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := sink.DisplayMetrics(w, r)
		if err != nil {
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(logger, w, http.StatusOK, summary)
	}
}

// newHandler builds the API mux wrapped in the CORS policy.
func newHandler(reg *lemmagen.Registry, cfg config.Config, sink *metrics.InmemSink, logger hclog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/lemmatize/batch", handleBatch(reg, logger, cfg.MaxBatch))
	mux.HandleFunc("/api/lemmatize", handleLemmatize(reg, logger))
	mux.HandleFunc("/api/languages", handleLanguages(reg, logger))
	mux.HandleFunc("/api/models/{lang}", handleModel(reg, logger))
	mux.HandleFunc("/api/metrics", handleMetrics(sink, logger))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(mux)
}

// ---- main ---------------------------------------------------------------

func loadConfig(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configFile := fs.String("config", "", "path to an HCL config file")
	modelsDir := fs.String("models", "", "directory of <lang>.bin model files")
	addr := fs.String("addr", "", "listen address")
	logLevel := fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.ParseFile(*configFile); err != nil {
			return config.Config{}, err
		}
	}
	if *modelsDir != "" {
		cfg.ModelsDir = *modelsDir
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, cfg.Validate()
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.Config{Name: "lemmagen", Level: cfg.LogLevel, JSON: cfg.LogJSON}, os.Stderr)
	if err != nil {
		return err
	}

	sink := metrics.NewInmemSink(10*time.Second, time.Minute)
	mcfg := metrics.DefaultConfig("")
	mcfg.EnableHostname = false
	mcfg.EnableRuntimeMetrics = false
	if _, err := metrics.NewGlobal(mcfg, sink); err != nil {
		return err
	}

	reg, err := lemmagen.NewRegistry(cfg.ModelsDir,
		lemmagen.WithLogger(logger),
		lemmagen.WithCacheSize(cfg.CacheSize))
	if err != nil {
		return err
	}
	langs, err := reg.Languages()
	if err != nil {
		return err
	}
	logger.Info("models found", "dir", cfg.ModelsDir, "languages", langs)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(reg, cfg, sink, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}
