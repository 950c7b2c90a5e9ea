package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/code-100-precent/VoiceDesk/internal/console"
	"github.com/code-100-precent/VoiceDesk/pkg/config"
	"github.com/code-100-precent/VoiceDesk/pkg/crm"
	"github.com/code-100-precent/VoiceDesk/pkg/events"
	"github.com/code-100-precent/VoiceDesk/pkg/manual"
	"github.com/code-100-precent/VoiceDesk/pkg/response"
	"github.com/code-100-precent/VoiceDesk/pkg/suggest"
	"github.com/code-100-precent/VoiceDesk/pkg/transcribe"
)

// Handlers wires HTTP and websocket endpoints to the console pipeline.
type Handlers struct {
	controller *console.Controller
	session    *transcribe.Session
	speaker    *suggest.Speaker
	store      *crm.Store
	runner     *crm.Runner
	search     *manual.Service
	bus        *events.EventBus
	logger     *zap.Logger

	audio *audioHandler
	feed  *eventFeed
}

func NewHandlers(
	controller *console.Controller,
	session *transcribe.Session,
	speaker *suggest.Speaker,
	store *crm.Store,
	runner *crm.Runner,
	search *manual.Service,
	bus *events.EventBus,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handlers{
		controller: controller,
		session:    session,
		speaker:    speaker,
		store:      store,
		runner:     runner,
		search:     search,
		bus:        bus,
		logger:     logger,
	}
	micRate := 0
	if config.GlobalConfig != nil {
		micRate = config.GlobalConfig.Console.InputSampleRate
	}
	h.audio = newAudioHandler(session, micRate, logger)
	h.feed = newEventFeed(bus, logger)
	return h
}

// GetState returns the full console snapshot for initial page load.
func (h *Handlers) GetState(c *gin.Context) {
	screen, keywords := h.controller.PendingAction()
	response.Success(c, "ok", gin.H{
		"phase":           h.controller.Phase(),
		"transcription":   h.session.Status(),
		"transcript":      h.session.Transcript(),
		"crm":             h.store.Snapshot(),
		"highlighted":     h.store.Highlighted(),
		"pendingScreen":   screen,
		"pendingKeywords": keywords,
		"currentStep":     h.runner.CurrentLabel(),
		"completedSteps":  h.runner.CompletedSteps(),
		"suggestion":      h.controller.LastSuggestion(),
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

// SubmitQuery accepts a typed inquiry, bypassing the microphone.
func (h *Handlers) SubmitQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "query is required", nil)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.Fail(c, "query is required", nil)
		return
	}
	h.controller.SubmitQuery(strings.TrimSpace(req.Query))
	response.Success(c, "ok", gin.H{"phase": h.controller.Phase()})
}

type confirmRequest struct {
	Accepted bool `json:"accepted"`
}

// Confirm resolves the pending proposal from the UI buttons.
func (h *Handlers) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid confirm payload", nil)
		return
	}
	h.controller.Confirm(req.Accepted)
	response.Success(c, "ok", gin.H{"phase": h.controller.Phase()})
}

// Reset returns the console to idle and re-initializes the CRM document.
func (h *Handlers) Reset(c *gin.Context) {
	h.controller.Reset()
	response.Success(c, "ok", gin.H{"phase": h.controller.Phase()})
}

// StartSession opens a fresh transcription session.
func (h *Handlers) StartSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()
	if err := h.session.Start(ctx); err != nil {
		h.logger.Error("start transcription session failed", zap.Error(err))
		response.Fail(c, err.Error(), nil)
		return
	}
	response.Success(c, "ok", gin.H{"status": h.session.Status()})
}

// StopSession tears the transcription session down.
func (h *Handlers) StopSession(c *gin.Context) {
	h.session.Stop()
	response.Success(c, "ok", gin.H{"status": h.session.Status()})
}

type speechEndedRequest struct {
	UtteranceID string `json:"utteranceId" binding:"required"`
}

// SpeechEnded reports that the browser finished playing a spoken suggestion.
func (h *Handlers) SpeechEnded(c *gin.Context) {
	var req speechEndedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "utteranceId is required", nil)
		return
	}
	h.speaker.NotifyEnded(req.UtteranceID)
	response.Success(c, "ok", nil)
}

// SearchManual exposes manual search directly for the consultation panel.
func (h *Handlers) SearchManual(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "query is required", nil)
		return
	}
	outcome, err := h.search.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.Error("manual search failed", zap.Error(err))
		response.Fail(c, "검색 중 오류가 발생했습니다.", nil)
		return
	}
	response.Success(c, "ok", gin.H{
		"results":  outcome.Results,
		"keywords": outcome.Keywords,
	})
}

// GetCustomer returns the demo customer profile with reference data the CRM
// panel renders.
func (h *Handlers) GetCustomer(c *gin.Context) {
	response.Success(c, "ok", gin.H{
		"customer":       crm.DemoCustomer,
		"currentPlan":    crm.CurrentPlan,
		"plans":          crm.AvailablePlans,
		"devices":        crm.AvailableDevices,
		"deviceOptions":  crm.DeviceOptions,
		"roaming":        crm.RoamingProducts,
		"regions":        crm.RoamingRegions,
		"suspendOptions": crm.SuspendOptions,
		"cancellation":   crm.CancellationData,
		"addons":         crm.DataAddons,
	})
}

// GetHistory returns counseling and billing history.
func (h *Handlers) GetHistory(c *gin.Context) {
	response.Success(c, "ok", gin.H{
		"counsel": crm.CounselHistory,
		"billing": crm.BillingHistory,
	})
}
