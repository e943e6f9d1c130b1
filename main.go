// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/httpserver"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/logger"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/relay"
	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/template"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// relayTTL bounds how long a pending form outcome can wait for its visitor
// to load the follow-up page.
const relayTTL = 10 * time.Minute

func main() {
	app := &cli.App{
		Name:  "todoapp",
		Usage: "to-do web application with session-backed auth",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: runServe,
			},
		},
		// bare invocation serves too, matching how the app is deployed
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Application failed", err)
	}
}

func runServe(_ *cli.Context) error {
	cfg := loadConfig()
	if cfg.SecretKey == "" {
		logger.Warning("APP_SECRET_KEY is not set; password recovery links will not survive restarts")
		cfg.SecretKey = newEphemeralSecret()
	}
	appSecret = []byte(cfg.SecretKey)
	cookieSecure = cfg.CookieSecure

	initDB(cfg.DatabasePath)
	defer db.Close()

	store, err := relay.New(relayTTL)
	if err != nil {
		return err
	}
	defer store.Close()
	relayStore = store

	renderer = template.NewRenderer(cfg.TemplateDir, "base.html")

	cleanupExpiredSessions()
	cleanupOldLoginAttempts()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanupExpiredSessions()
				cleanupOldLoginAttempts()
			}
		}
	}()

	return httpserver.Serve(ctx, cfg.BindAddr, newRouter())
}

// newRouter wires every route of the application.
func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/", landingHandler)
	r.Post("/", formRouterHandler)
	r.Get("/logout", logoutHandler)
	r.Post("/logout", logoutHandler)

	r.Post("/recover", recoverHandler)
	r.Get("/reset", resetFormHandler)
	r.Post("/reset", resetSubmitHandler)

	r.Get("/todos", authMiddleware(todosPageHandler))
	r.HandleFunc("/api/todos", authMiddleware(todosAPIHandler))
	r.HandleFunc("/api/tags", authMiddleware(tagsAPIHandler))

	return r
}

// newEphemeralSecret generates a process-lifetime signing key for
// deployments that never configured one.
func newEphemeralSecret() string {
	return uuid.NewString() + uuid.NewString()
}
