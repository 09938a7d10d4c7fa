package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"notetasks/config"
	"notetasks/model"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "notetasks",
		Short:         "Note and task management backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults to CONFIG_FILE)")

	serve := newServeCmd(&configPath)
	root.AddCommand(serve, newIndexesCmd(&configPath), newIngestCmd(&configPath))
	root.RunE = serve.RunE
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newIndexesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreMongo {
				return errors.New("indexes require STORE_DRIVER=mongo")
			}

			ctx := cmdContext(cmd)
			app, err := NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			if err := app.SetupIndexes(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Indexes created")
			return nil
		},
	}
}

func newIngestCmd(configPath *string) *cobra.Command {
	var (
		category  string
		isPrivate bool
	)

	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Ingest local text files as notes and print the per-file results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && !model.Category(category).IsValid() {
				return fmt.Errorf("invalid category %q", category)
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx := cmdContext(cmd)
			app, err := NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			results, err := app.Ingestion.IngestBatch(ctx, localFiles(args), usecase.UploadOptions{
				Category:  model.Category(category),
				IsPrivate: isPrivate,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category for the ingested notes (work or personal)")
	cmd.Flags().BoolVar(&isPrivate, "private", false, "Mark the ingested notes as private")
	return cmd
}

func localFiles(paths []string) []usecase.UploadedFile {
	files := make([]usecase.UploadedFile, 0, len(paths))
	for _, path := range paths {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		files = append(files, usecase.UploadedFile{
			Name: filepath.Base(path),
			Size: size,
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}
	return files
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gin.SetMode(cfg.GinMode)
	utils.InitValidator()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	if err := app.SetupIndexes(); err != nil {
		log.Printf("Warning: failed to set up indexes: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-signalChan:
		log.Printf("Caught signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server shutdown complete")
	return nil
}
