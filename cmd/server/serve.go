package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grillmaster-pos/internal/actions"
	"grillmaster-pos/internal/ai"
	"grillmaster-pos/internal/auth"
	"grillmaster-pos/internal/checkout"
	"grillmaster-pos/internal/config"
	"grillmaster-pos/internal/database"
	"grillmaster-pos/internal/events"
	"grillmaster-pos/internal/handlers"
	"grillmaster-pos/internal/persistence"
	"grillmaster-pos/internal/selectors"
	"grillmaster-pos/internal/state"
	"grillmaster-pos/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// terminal is the storage side of one till: the database, the persisted
// state and the store loaded from it.
type terminal struct {
	db        *gorm.DB
	persister *persistence.Persister
	store     *state.Store
}

func openTerminal(cfg *config.Config) (*terminal, error) {
	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	persister := persistence.NewPersister(database.NewKV(db), persistence.Options{
		Prefix:      cfg.StoragePrefix,
		PersistCart: cfg.PersistCart,
		SeedDemo:    cfg.SeedDemo,
	})
	return &terminal{db: db, persister: persister, store: state.New(persister.Load())}, nil
}

func (t *terminal) Close() {
	if sqlDB, err := t.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func resetDemo(cfg *config.Config) error {
	t, err := openTerminal(cfg)
	if err != nil {
		return err
	}
	defer t.Close()
	if !t.persister.ResetToDemo(t.store) {
		return errors.New("demo data could not be saved")
	}
	fmt.Println("Demo data restored")
	return nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireServing(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, err := openTerminal(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	saver := persistence.StartAutoSave(t.persister, t.store, cfg.AutosaveDelay)
	defer saver.Stop()

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	a := actions.New(t.store)
	terminalID := utils.TerminalID()
	log.Infof("Terminal %s", terminalID)

	if cfg.AMQPURL != "" {
		pub, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			log.Warningf("Kitchen events disabled: %v", err)
		} else {
			defer pub.Close()
			notifier := events.NewNotifier(pub, terminalID, t.store.GetState().Orders)
			unsubscribe := t.store.Subscribe(notifier.Listen)
			defer unsubscribe()
			notifier.Start(ctx)
			defer func() {
				stop()
				notifier.Wait()
			}()
		}
	}

	h := &handlers.Handler{
		Actions:           a,
		Checkout:          checkout.New(a, func() float64 { return selectors.CartTotal(t.store.GetState()) }, cfg.TaxRate),
		Persister:         t.persister,
		Users:             database.NewUsers(t.db),
		Signer:            signer,
		Agent:             ai.NewAgent(cfg.GeminiAPIKey, a),
		TerminalID:        terminalID,
		AllowRegistration: cfg.AllowRegistration,
	}

	r := gin.Default()
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	h.Routes(r)

	// Serve the built frontend; unknown paths fall through to index.html
	// so client-side routing survives a refresh.
	r.Static("/assets", "./web/assets")
	r.StaticFile("/vite.svg", "./web/vite.svg")
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
