package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"vistoria.app/api/config"
	"vistoria.app/api/handlers"
	"vistoria.app/api/middleware"
	"vistoria.app/api/pkg/notify"
	"vistoria.app/api/pkg/relatorio"
	"vistoria.app/api/pkg/storage"
	"vistoria.app/api/pkg/vistoria"
	"vistoria.app/api/repository"
	"vistoria.app/api/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	boot, err := config.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load(boot)
	log, err := config.NewLogger(cfg.AppEnv)
	if err != nil {
		boot.Fatal("could not build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.Connect(cfg, log)
	if err != nil {
		return fmt.Errorf("could not connect database: %w", err)
	}

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("could not init storage: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	auth, err := middleware.NewJWT(cfg.JWTSecret, log)
	if err != nil {
		return err
	}

	var composer relatorio.Composer = relatorio.TemplateComposer{}
	if cfg.OpenAIAPIKey != "" {
		composer = relatorio.NewOpenAIComposer(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
	} else {
		log.Info("OPENAI_API_KEY not set, using template narrative")
	}

	vistorias := repository.NewVistoriaRepo(db, log)
	imoveis := repository.NewImovelRepo(db, log)
	contas := repository.NewContaRepo(db, cfg.BcryptCost, log)

	engine := vistoria.NewEngine(vistorias, imoveis, log)
	pipeline := relatorio.NewPipeline(
		vistorias,
		composer,
		relatorio.NewPDFRenderer(cfg.ReportAssetsDir, log),
		store,
		notify.New(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, log),
		log,
	)
	h := handlers.New(engine, pipeline, contas, auth, log)

	uploads := ""
	if local, ok := store.(*storage.Local); ok {
		uploads = local.Dir()
	}
	router := routes.RegisterRoutes(h, auth, uploads, log)

	co := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigin,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("version", Version),
			zap.String("storage", cfg.StorageDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
