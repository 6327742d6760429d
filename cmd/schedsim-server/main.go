// Command schedsim-server is the reference inspection host described in
// SPEC_FULL.md §2.2: a thin HTTP wrapper that lets a client create named
// scheduler sessions and drive next()/stop()/list() over the wire. It
// owns none of the scheduling semantics itself; every decision is made
// by internal/schedcore.
package main

import (
	"crypto/rand"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edirooss/schedsim/internal/host/httpapi"
	"github.com/edirooss/schedsim/internal/host/session"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	isDev := os.Getenv("ENV") == "dev"

	mgr := session.NewManager(log)

	var snapshots *session.SnapshotStore
	if addr := os.Getenv("SCHEDSIM_REDIS_ADDR"); addr != "" {
		snapshots = session.NewSnapshotStore(addr, log)
		defer snapshots.Close()
	} else {
		log.Info("SCHEDSIM_REDIS_ADDR not set; snapshot export disabled")
	}

	status := httpapi.NewStatusCache(httpapi.StatusOptions{TTL: 100 * time.Millisecond})

	cookieSecret := make([]byte, 32)
	if _, err := rand.Read(cookieSecret); err != nil {
		log.Fatal("failed to generate cookie secret", zap.Error(err))
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Log:       log,
		Mgr:       mgr,
		Snapshots: snapshots,
		Status:    status,
	}, cookieSecret, isDev)

	addr := os.Getenv("SCHEDSIM_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	httpserver := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	log.Info("running HTTP server", zap.String("addr", addr))
	if err := httpserver.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}
