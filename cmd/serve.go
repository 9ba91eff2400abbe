package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/goyney/irigoyen.dev/internal/admin"
	"github.com/goyney/irigoyen.dev/internal/analytics"
	"github.com/goyney/irigoyen.dev/internal/assets"
	"github.com/goyney/irigoyen.dev/internal/config"
	"github.com/goyney/irigoyen.dev/internal/content"
	"github.com/goyney/irigoyen.dev/internal/live"
	"github.com/goyney/irigoyen.dev/internal/mail"
	"github.com/goyney/irigoyen.dev/internal/view"
	"github.com/goyney/irigoyen.dev/internal/web"
	"github.com/goyney/irigoyen.dev/static"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the site",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := content.NewStore(cfg.Content.Dir, cfg.Content.Drafts)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	manifest, err := assets.ReadManifest(cfg.Assets.OutputDir)
	if err != nil {
		logger.Warn("assets.manifest", "err", err, "hint", "run `irigoyen build`; serving unbuilt sources")
		manifest = nil
	}
	rend, err := view.New(view.Options{
		Manifest: manifest,
		BaseURL:  cfg.BaseURL,
		Version:  cfg.Version(),
		SiteName: store.Site().Domain,
	})
	if err != nil {
		return err
	}

	stats, err := analytics.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer stats.Close()

	auth := admin.NewAuth(cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.Admin.JWTSecret)
	if !auth.Enabled() {
		logger.Warn("admin.disabled", "hint", "set admin.password_hash and admin.jwt_secret")
	}
	mailer := mail.NewSMTP(mail.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.SMTP.To,
	})
	if !mailer.Configured() {
		logger.Warn("mail.disabled", "hint", "contact messages are stored but not emailed")
	}

	hub := live.NewHub(
		live.WithLogger(logger),
		live.WithRenderer(rend.Header),
		live.WithRecorder(stats),
	)
	defer hub.Close()

	srv := web.New(web.Deps{
		Logger:        logger,
		Content:       store,
		View:          rend,
		Analytics:     stats,
		Auth:          auth,
		Mailer:        mailer,
		Hub:           hub,
		BuildDir:      cfg.Assets.OutputDir,
		Static:        static.FS,
		RetentionDays: cfg.Analytics.RetentionDays,
		SecureCookies: !cfg.Dev,
	})

	if cfg.Analytics.RetentionDays > 0 {
		retention := time.Duration(cfg.Analytics.RetentionDays) * 24 * time.Hour
		go stats.RunCleanup(ctx, retention, 24*time.Hour, logger)
	}
	if cfg.Dev {
		go func() {
			if err := content.Watch(ctx, store, logger, hub.Reload); err != nil {
				logger.Error("content.watch", "err", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.listen", "addr", cfg.HTTP.Address, "version", cfg.Version(), "dev", cfg.Dev)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http.shutdown")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
