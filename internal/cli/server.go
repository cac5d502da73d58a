package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-engine-service/internal/app"
	"quiz-engine-service/internal/config"
	"quiz-engine-service/internal/domain"
	"quiz-engine-service/internal/grading"
	"quiz-engine-service/internal/infra/memory"
	pgstore "quiz-engine-service/internal/infra/postgres"
	redisstore "quiz-engine-service/internal/infra/redis"
	transport "quiz-engine-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	staticLoader := memory.NewStaticQuizLoader(sampleQuizzes())

	var loader memory.QuizLoader = staticLoader
	var writer app.QuizWriter = staticLoader
	var resultStore app.ResultStore = memory.NewResultStore()
	if pool != nil {
		quizStore := pgstore.NewQuizStore(pool)
		loader = quizStore
		writer = quizStore
		resultStore = pgstore.NewResultStore(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
		if pool == nil {
			resultStore = redisstore.NewResultStore(redisClient, redisTTL)
		}
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var grader grading.Grader
	if cfg.Grading.URL != "" {
		grader = grading.NewClient(cfg.Grading.URL)
	} else {
		grader = grading.NewLocalGrader(quizRepo)
	}

	service := app.NewQuizService(quizRepo, writer, memory.NewAttemptStore(), resultStore, grader)
	wsHandler := transport.NewWSHandler(service)
	restHandler := transport.NewRESTHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	restHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides a minimal published quiz for demo runs without a
// database.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:               "quiz-1",
			Title:            "Go basics",
			Description:      "Warm-up quiz for the Go course",
			TimeLimitMinutes: 10,
			PassingScore:     70,
			MaxAttempts:      3,
			ShowResults:      true,
			TotalPoints:      15,
			Questions: []domain.Question{
				{
					ID:            "q1",
					Type:          domain.MultipleChoice,
					Prompt:        "What is 2 + 2?",
					Points:        10,
					Options:       []string{"3", "4", "5"},
					CorrectOption: 1,
				},
				{
					ID:          "q2",
					Type:        domain.TrueFalse,
					Prompt:      "The zero value of a slice is nil.",
					Points:      5,
					CorrectBool: true,
				},
			},
		},
	}
}
