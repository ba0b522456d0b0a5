package server

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultOptions(t *testing.T) {
	opts := GetDefaultOptions()

	assert.True(t, opts.WebServerEnabled)
	assert.Equal(t, "8080", opts.WebServerPort)
	assert.True(t, opts.JobsEnabled)
	assert.Equal(t, 10*time.Second, opts.ShutdownTimeout)
}

func TestRun_MigrationFailureStopsStartup(t *testing.T) {
	jobs := false
	opts := Options{
		MigrationEnabled: true,
		MigrationHandler: func() error { return errors.New("index build failed") },
		JobsEnabled:      true,
		JobsHandler:      func() { jobs = true },
	}

	err := Run(context.Background(), opts)

	require.Error(t, err)
	assert.False(t, jobs)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var migrated, jobs, preHandled, stopped bool
	ctx, cancel := context.WithCancel(context.Background())

	opts := Options{
		WebServerEnabled:    true,
		WebServerPort:       "0",
		WebServerPreHandler: func(r *gin.Engine) { preHandled = true },
		MigrationEnabled:    true,
		MigrationHandler:    func() error { migrated = true; return nil },
		JobsEnabled:         true,
		JobsHandler:         func() { jobs = true },
		ShutdownHandler:     func() { stopped = true },
		ShutdownTimeout:     time.Second,
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, opts) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, migrated)
	assert.True(t, jobs)
	assert.True(t, preHandled)
	assert.True(t, stopped)
}

func TestRun_WithoutWebServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, Options{WebServerEnabled: false})

	assert.NoError(t, err)
}

func TestRun_ListenFailureStillShutsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	taken, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer taken.Close()
	port := strconv.Itoa(taken.Addr().(*net.TCPAddr).Port)

	stopped := false
	err = Run(context.Background(), Options{
		WebServerEnabled: true,
		WebServerPort:    port,
		ShutdownHandler:  func() { stopped = true },
	})

	require.Error(t, err)
	assert.True(t, stopped)
}
