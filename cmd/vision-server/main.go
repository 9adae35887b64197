package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edirooss/vision-server/internal/config"
	"github.com/edirooss/vision-server/internal/detector"
	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/domain/vision"
	"github.com/edirooss/vision-server/internal/engine"
	"github.com/edirooss/vision-server/internal/http/handler"
	mw "github.com/edirooss/vision-server/internal/http/middleware"
	"github.com/edirooss/vision-server/internal/infrastructure/decodeproc"
	"github.com/edirooss/vision-server/internal/repo"
	"github.com/edirooss/vision-server/internal/service"
	"github.com/edirooss/vision-server/internal/ws"
	"github.com/edirooss/vision-server/pkg/decodecmd"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxConcurrentStreams caps simultaneous MJPEG viewers; each one holds a
// connection and a poll loop for its whole lifetime.
const maxConcurrentStreams = 64

var configPath string

func init() {
	// Handle version display
	handleVersion()
}

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	// Read env
	isDev := os.Getenv("ENV") == "dev"

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Create Zap logger
	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	// Create Gin router
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = zap.NewStdLog(log.Named("gin")).Writer() // Configure Gin's logger to use Zap
	r := gin.New()

	// Build the serving stack
	rep := repo.NewRepository(log, cfg.RedisAddress)

	det, err := detector.New(log, cfg.ModelAddress)
	if err != nil {
		log.Fatal("detector client creation failed", zap.Error(err))
	}
	{
		// No model, no service: refuse to start against a dead backend.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := det.Ping(ctx)
		cancel()
		if err != nil {
			log.Fatal("detector unreachable", zap.String("addr", cfg.ModelAddress), zap.Error(err))
		}
	}

	newSource := func(cam *camera.Camera) vision.Source {
		argv := decodecmd.BuildArgv(cam, decodecmd.Options{
			FFmpegPath: cfg.FFmpegPath,
			TargetFPS:  cfg.Engine.TargetFPS,
		})
		return decodeproc.NewSource(log, argv)
	}

	eng := engine.New(log, engine.Config{
		Workers:       cfg.Engine.Workers,
		BatchSize:     cfg.Engine.BatchSize,
		BatchTimeout:  time.Duration(cfg.Engine.BatchTimeoutMS) * time.Millisecond,
		QueueCapacity: cfg.Engine.QueueCapacity,
		TargetFPS:     cfg.Engine.TargetFPS,
		MaxRetries:    cfg.Engine.MaxRetries,
		RetryDelay:    time.Duration(cfg.Engine.RetryDelayMS) * time.Millisecond,
		MaxRetryDelay: time.Duration(cfg.Engine.MaxRetryDelayMS) * time.Millisecond,
		JPEGQuality:   cfg.Engine.JPEGQuality,
	}, det, newSource)

	hub := ws.NewHub(log)
	eng.OnResult(hub.Publish)

	defaults := camera.Defaults{
		URLTemplate: cfg.Source.URLTemplate,
		Username:    cfg.Source.Username,
		Password:    cfg.Source.Password,
		Transport:   cfg.Source.Transport,
		TargetFPS:   cfg.Engine.TargetFPS,
	}
	camsvc := service.NewCameraService(log, eng, rep.Cameras, defaults, cfg.Engine.MaxChannels)
	statssvc := service.NewStatsService(eng)

	{
		// Bring persisted cameras back up before serving traffic.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := camsvc.Resume(ctx)
		cancel()
		if err != nil {
			log.Warn("camera resume failed", zap.Error(err))
		} else if n > 0 {
			log.Info("resumed cameras", zap.Int("count", n))
		}
	}

	// Apply Gin middlewares
	{
		r.Use(gin.Recovery()) // Recovery first (outermost)
		r.Use(mw.RequestID()) // Attach request ID for tracing; early in the chain so it's available everywhere

		if isDev { // Enable CORS for local dashboard dev
			r.Use(cors.New(cors.Config{
				AllowOrigins:     []string{"http://localhost:5173", "http://localhost:4173", "http://localhost:3000", "http://127.0.0.1:3000"},
				AllowMethods:     []string{"GET", "POST", "OPTIONS"},
				AllowHeaders:     []string{"X-Request-ID", "Content-Type"},
				ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "X-Stats-Generated-At"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}))
		} else { // Behind Nginx + TLS
			r.SetTrustedProxies([]string{"127.0.0.1"})
			r.Use(secure.New(secure.Config{
				SSLProxyHeaders: map[string]string{
					"X-Forwarded-Proto": "https", // Fix scheme behind the proxy
				},
			}))
		}

		r.Use(accessLog(log.Named("http"))) // Observability (logger, tracing)

		r.Use(func(c *gin.Context) {
			// Control bodies are tiny; cap hard against drip-fed request
			// bodies ("slow body" / RUDY DoS).
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20)
			c.Next()
		})
	}

	// Register route handlers
	{
		r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
		r.GET("/health", handler.NewHealthHandler(det).Get)
		r.GET("/stats", handler.NewStatsHandler(log, statssvc).Get)

		requireValidChannel := mw.RequireValidChannel()

		// --- Camera lifecycle ---
		camshndlr := handler.NewCamerasHandler(log, camsvc)
		r.POST("/camera/start", camshndlr.Start)
		r.POST("/camera/stop", camshndlr.Stop)
		r.GET("/camera/:channel/logs", requireValidChannel, camshndlr.Logs)

		// --- Frames ---
		streamhndlr := handler.NewStreamHandler(log, eng)
		r.GET("/camera/:channel/snapshot", requireValidChannel, streamhndlr.Snapshot)

		streams := r.Group("", mw.LimitConcurrentRequests(maxConcurrentStreams))
		streams.GET("/stream/:channel", requireValidChannel, streamhndlr.Stream)

		// --- Live detection feed ---
		r.GET("/ws/events", ws.NewHandler(log, hub).Serve)
	}

	httpsrv := &http.Server{
		Addr:              cfg.ListenAddress + ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 2 * time.Second,  // kills header-drip Slowloris
		ReadTimeout:       10 * time.Second, // full request read (incl. body)
		WriteTimeout:      0,                // MJPEG and WebSocket responses are open-ended
		IdleTimeout:       60 * time.Second, // keep-alive cap
		MaxHeaderBytes:    1 << 20,          // 1MB cap
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("running HTTP server", zap.String("addr", httpsrv.Addr))
		if err := httpsrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	sig := <-done
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	// Stopping the engine ends the MJPEG streams, which lets Shutdown drain
	// quickly; the two run concurrently on purpose.
	engDone := make(chan struct{})
	go func() {
		eng.Close()
		close(engDone)
	}()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpsrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced shutdown", zap.Error(err))
	}

	<-engDone
	if err := det.Close(); err != nil {
		log.Warn("detector close failed", zap.Error(err))
	}
	if err := rep.Close(); err != nil {
		log.Warn("repository close failed", zap.Error(err))
	}
	log.Info("server closed")
}

// handleVersion prints build metadata and exits when -v/--version is provided.
func handleVersion() {
	v := flag.Bool("v", false, "print version and exit")
	flag.BoolVar(v, "version", false, "print version and exit")
	flag.StringVar(&configPath, "config", "vision-server.yaml", "path to config file")
	flag.Parse()

	if *v {
		fmt.Printf("vision-server %s (commit %s, built %s)\n", config.Version, config.GitCommit, config.BuildDate)
		os.Exit(0)
	}
}

// accessLog is a Gin middleware that records HTTP request/response details with Zap after handling.
func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		// collect all errors from Gin context
		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		// errors.Join returns nil if errs is empty
		joinedErr := errors.Join(errs...)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
		}
		if joinedErr != nil {
			fields = append(fields, zap.Error(joinedErr))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// helpers

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.DebugLevel)
	return zap.Must(logConfig.Build())
}
