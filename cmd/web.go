package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/promptml/promptml/internal/config"
	"github.com/promptml/promptml/internal/logger"
	"github.com/promptml/promptml/internal/webui"
)

var webPort int

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the render/parse HTTP API",
	RunE:  runWeb,
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 0, "Listen port (default: config web.port)")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	server := webui.NewServer(s, webui.Options{
		MaxInputBytes: cfg.Import.MaxInputBytes,
		IndentWidth:   cfg.Render.IndentWidth,
	})

	port := webPort
	if port == 0 {
		port = cfg.Web.Port
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweeper := cron.New()
	_, err = sweeper.AddFunc("@hourly", func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -cfg.Storage.HistoryRetentionDays)
		n, err := s.PruneHistoryBefore(cutoff)
		if err != nil {
			logger.Warn("history sweep failed: %v", err)
			return
		}
		if n > 0 {
			logger.Info("history sweep removed %d entries", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule history sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	go func() {
		logger.Info("promptml API listening on http://127.0.0.1:%d", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
