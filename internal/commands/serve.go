package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netvisor/internal/config"
	"netvisor/internal/logging"
	"netvisor/internal/metrics"
	"netvisor/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli"
)

const shutdownTimeout = 15 * time.Second

func init() {
	command := cli.Command{
		Name:   "serve",
		Usage:  "Start the upload API",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
	}

	bootstrapCommands(command)
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(cfg, logger, metrics.NewMetrics())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Run()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
