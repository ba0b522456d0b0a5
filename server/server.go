package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	WebServerEnabled    bool
	WebServerPort       string
	WebServerPreHandler func(r *gin.Engine)

	JobsEnabled bool
	JobsHandler func()

	MigrationEnabled bool
	MigrationHandler func() error

	// ShutdownHandler runs after the listener has drained.
	ShutdownHandler func()
	ShutdownTimeout time.Duration
}

func GetDefaultOptions() Options {
	return Options{
		WebServerEnabled: true,
		WebServerPort:    "8080",
		JobsEnabled:      true,
		MigrationEnabled: true,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Start runs until SIGINT or SIGTERM.
func Start(opts Options) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx, opts); err != nil {
		log.Fatalln("Error from server: ", err)
	}
}

/*
* Run migrations first, a failure stops startup
* Start the jobs
* Serve http until the context is cancelled, then drain
 */
func Run(ctx context.Context, opts Options) error {
	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(); err != nil {
			log.Println("Error from migrations: ", err)
			return err
		}
	}

	if opts.JobsEnabled && opts.JobsHandler != nil {
		opts.JobsHandler()
	}

	if !opts.WebServerEnabled {
		<-ctx.Done()
		shutdown(opts)
		return nil
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r)
	}

	srv := &http.Server{
		Addr:              ":" + opts.WebServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", opts.WebServerPort).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		shutdown(opts)
		if ok {
			log.Println("Error from ListenAndServe: ", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	shutdown(opts)
	if err != nil {
		log.Println("Error from Shutdown: ", err)
		return err
	}
	return nil
}

func shutdown(opts Options) {
	if opts.ShutdownHandler != nil {
		opts.ShutdownHandler()
	}
}
