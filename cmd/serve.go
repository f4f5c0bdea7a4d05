package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexiusacademia/wfbeam/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	serveAddr        string
	serveMaxSessions int
	serveStyle       string
	serveZoom        float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sketch sessions over a JSON HTTP API",
	Long: `Start an HTTP server holding sketch sessions in memory.

Routes:
  GET    /api/beams
  POST   /api/sketches                      body: markup JSON plus zoom, style
  GET    /api/sketches/:id
  PATCH  /api/sketches/:id                  body: {"beam", "scale", "web_cell_size", "flange_cell_size", "zoom"}
  DELETE /api/sketches/:id
  POST   /api/sketches/:id/cells/advance    body: {"row", "col", "flange"}
  GET    /api/sketches/:id/contours
  GET    /api/sketches/:id/dimensions?view=&zoom=
  POST   /api/sketches/:id/dimensions       body: {"view", "start", "end", "label"}
  GET    /api/sketches/:id/annotations
  POST   /api/sketches/:id/annotations      body: {"type", "position", "text", "points"}
  DELETE /api/sketches/:id/annotations/:aid
  GET    /api/sketches/:id/geometry?view=
  GET    /api/sketches/:id/summary

Examples:
  wfbeam serve
  wfbeam serve --addr :9090 --style ansi --log-level info`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&serveMaxSessions, "max-sessions", api.DefaultMaxSessions, "Maximum number of open sketches")
	serveCmd.Flags().StringVar(&serveStyle, "style", "base", "Default dimension style")
	serveCmd.Flags().Float64Var(&serveZoom, "zoom", 1, "Default zoom factor")
}

func runServe(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}
	cfg, err := sketchConfig(0, 0, 0, serveZoom, serveStyle)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	log := newLogger()
	gin.SetMode(gin.ReleaseMode)
	srv := api.New(cat, cfg, log.WithPrefix("api"))
	srv.SetMaxSessions(serveMaxSessions)

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()
	fmt.Printf("  wfbeam API listening on %s (%d beams)\n", serveAddr, cat.Len())

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("Error: %v\n", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Error during shutdown: %v\n", err)
		return
	}
	fmt.Printf("  Server stopped, %d sketches discarded\n", srv.Len())
}
