package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/code-100-precent/VoiceDesk/internal/console"
	handlers "github.com/code-100-precent/VoiceDesk/internal/handler"
	"github.com/code-100-precent/VoiceDesk/pkg/config"
	"github.com/code-100-precent/VoiceDesk/pkg/crm"
	"github.com/code-100-precent/VoiceDesk/pkg/events"
	"github.com/code-100-precent/VoiceDesk/pkg/logger"
	"github.com/code-100-precent/VoiceDesk/pkg/manual"
	"github.com/code-100-precent/VoiceDesk/pkg/middleware"
	"github.com/code-100-precent/VoiceDesk/pkg/suggest"
	"github.com/code-100-precent/VoiceDesk/pkg/transcribe"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := logger.Init(&cfg.Log, cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := zap.L()
	log.Info("starting voicedesk console",
		zap.String("name", cfg.Server.Name),
		zap.String("addr", cfg.Server.Addr),
		zap.String("mode", cfg.Server.Mode))

	index, err := manual.NewIndex(cfg.Console.ManualIndexPath)
	if err != nil {
		log.Fatal("open manual index failed", zap.Error(err))
	}
	defer index.Close()
	if err := index.Add(manual.SeedPages); err != nil {
		log.Fatal("seed manual index failed", zap.Error(err))
	}

	extractor := manual.NewOpenAIExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.SuggestModel)
	search := manual.NewService(index, extractor, cfg.Console.SearchCacheTTL, log.Named("manual"))

	bus := events.NewEventBus()
	store := crm.NewStore()
	runner := crm.NewRunner(store, log.Named("runner"))

	suggestClient := suggest.NewClient(&suggest.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.SuggestModel,
		TTSModel:       cfg.OpenAI.TTSModel,
		TTSVoice:       cfg.OpenAI.TTSVoice,
		RequestTimeout: cfg.OpenAI.RequestTimeout,
	})
	speaker := suggest.NewSpeaker(suggestClient, func(utteranceID string, audio []byte) {
		bus.PublishEvent(events.TypeSpeechAudio, map[string]interface{}{
			"utteranceId": utteranceID,
			"audio":       audio,
			"format":      "mp3",
		}, "speaker")
	}, cfg.Console.AutoSpeak, log.Named("speaker"))

	session := transcribe.NewSession(&transcribe.Config{
		BaseURL:         cfg.OpenAI.BaseURL,
		RealtimeURL:     cfg.OpenAI.RealtimeURL,
		APIKey:          cfg.OpenAI.APIKey,
		Model:           cfg.OpenAI.TranscribeModel,
		Language:        cfg.OpenAI.Language,
		SilenceDuration: cfg.Console.SilenceDuration,
		RequestTimeout:  cfg.OpenAI.RequestTimeout,
	}, log.Named("transcribe"))

	controller := console.NewController(search, suggestClient, speaker, store, runner, bus, log.Named("console"))

	session.SetCallbacks(transcribe.Callbacks{
		OnStatus: func(status transcribe.Status) {
			bus.PublishEvent(events.TypeTranscriptStatus, map[string]interface{}{
				"status": string(status),
			}, "transcribe")
		},
		OnPartial: func(itemID, text string) {
			bus.PublishEvent(events.TypeTranscriptPartial, map[string]interface{}{
				"itemId": itemID,
				"text":   text,
			}, "transcribe")
		},
		OnUtterance: controller.HandleUtterance,
		OnError: func(err error) {
			bus.PublishEvent(events.TypeError, map[string]interface{}{
				"message": err.Error(),
			}, "transcribe")
		},
	})

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CorsMiddleware())
	engine.Use(middleware.LoggerMiddleware(log.Named("http")))

	h := handlers.NewHandlers(controller, session, speaker, store, runner, search, bus, log.Named("handler"))
	h.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()
	log.Info("console listening", zap.String("addr", cfg.Server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	session.Stop()
	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown err", zap.Error(err))
	}
}
