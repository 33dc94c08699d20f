package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AurisAASI/backend-core/internal/cnpj"
	"github.com/AurisAASI/backend-core/internal/engine"
	"github.com/AurisAASI/backend-core/internal/federal"
	"github.com/AurisAASI/backend-core/internal/llm"
	placeseng "github.com/AurisAASI/backend-core/internal/places"
	"github.com/AurisAASI/backend-core/internal/queue"
	"github.com/AurisAASI/backend-core/internal/website"
	"github.com/AurisAASI/backend-core/pkg/brasilapi"
	placesapi "github.com/AurisAASI/backend-core/pkg/places"
)

var servePort int

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task trigger server",
	Long:  "Exposes the engines over HTTP so the queue manager can trigger them with the same JSON messages the topics carry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		pub, err := initQueue(ctx)
		if err != nil {
			return err
		}
		defer pub.Close()

		extractor, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/tasks/places", func(w http.ResponseWriter, req *http.Request) {
			var task struct {
				Niche string `json:"niche"`
				City  string `json:"city"`
				State string `json:"state"`
			}
			if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if task.Niche == "" || task.City == "" || task.State == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "niche, city and state are required"})
				return
			}

			client := placesapi.NewClient(cfg.Places.APIKey,
				placesapi.WithBaseURL(cfg.Places.BaseURL),
				placesapi.WithHTTPClient(&http.Client{
					Timeout: time.Duration(cfg.Places.TimeoutSecs) * time.Second,
				}))
			eng := placeseng.New(placeseng.Config{
				Niche:            task.Niche,
				City:             task.City,
				State:            task.State,
				QuotaLimit:       cfg.Places.Quota(cfg.Stage),
				DuplicateRadiusM: cfg.Places.DuplicateRadiusM,
				WebsiteTopic:     cfg.Queue.WebsiteTopic,
			}, client, st, pub)
			runEngine(w, req, eng)
		})

		r.Post("/tasks/website", func(w http.ResponseWriter, req *http.Request) {
			var task queue.WebsiteTask
			if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if task.CompanyID == "" || task.Website == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company_id and website are required"})
				return
			}

			eng := website.New(website.Config{
				CompanyID:     task.CompanyID,
				Website:       task.Website,
				MaxPages:      cfg.Website.MaxPages,
				Timeout:       time.Duration(cfg.Website.TimeoutSecs) * time.Second,
				UserAgent:     cfg.Website.UserAgent,
				MaxPageChars:  cfg.Website.MaxPageChars,
				MaxTotalChars: cfg.Website.MaxTotalChars,
				FederalTopic:  cfg.Queue.FederalTopic,
			}, st, pub, extractor)
			runEngine(w, req, eng)
		})

		r.Post("/tasks/federal", func(w http.ResponseWriter, req *http.Request) {
			var task queue.FederalTask
			if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if task.CompanyID == "" || task.CNPJ == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company_id and cnpj are required"})
				return
			}

			client := brasilapi.NewClient(
				brasilapi.WithBaseURL(cfg.Federal.BaseURL),
				brasilapi.WithHTTPClient(&http.Client{
					Timeout: time.Duration(cfg.Federal.TimeoutSecs) * time.Second,
				}))
			eng := federal.New(federal.Config{
				CompanyID:  task.CompanyID,
				CNPJ:       cnpj.Clean(task.CNPJ),
				MaxRetries: cfg.Federal.MaxRetries,
			}, client, st)
			runEngine(w, req, eng)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go shutdownOnSignal(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownOnSignal waits for the signal context to end, then drains the
// server under a fresh timeout so in-flight runs can finish.
func shutdownOnSignal(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// runEngine executes the engine synchronously and answers with its outcome.
func runEngine(w http.ResponseWriter, req *http.Request, e engine.Engine) {
	outcome, err := e.Run(req.Context())
	if err != nil {
		zap.L().Error("engine run failed",
			zap.String("engine", e.Name()), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"outcome": outcome,
		})
		return
	}
	zap.L().Info("engine run finished",
		zap.String("engine", e.Name()),
		zap.String("status", string(outcome.Status)),
		zap.String("reason", outcome.Reason))
	writeJSON(w, http.StatusOK, outcome)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
