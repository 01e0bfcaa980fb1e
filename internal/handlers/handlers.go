// Package handlers provides HTTP request handlers for the AI teacher API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nithin01010/AI-Teacher/internal/command"
	"github.com/nithin01010/AI-Teacher/internal/events"
	"github.com/nithin01010/AI-Teacher/internal/export"
	"github.com/nithin01010/AI-Teacher/internal/interp"
	"github.com/nithin01010/AI-Teacher/internal/llm"
	"github.com/nithin01010/AI-Teacher/internal/logutil"
	"github.com/nithin01010/AI-Teacher/internal/metrics"
	"github.com/nithin01010/AI-Teacher/internal/scene"
	"github.com/nithin01010/AI-Teacher/internal/store"
	"github.com/nithin01010/AI-Teacher/internal/stream"
	"github.com/nithin01010/AI-Teacher/internal/typeset"
	"github.com/nithin01010/AI-Teacher/internal/validator"
)

// Options configures handler runtime behavior.
type Options struct {
	Model          string
	SystemPrompt   string
	HistoryLimit   int
	RequestTimeout time.Duration
	Version        string
}

type eventPublisher interface {
	Publish(context.Context, events.Event) error
}

type eventSubscriber interface {
	Subscribe(context.Context) (<-chan events.Event, func())
}

type eventBus interface {
	eventPublisher
	eventSubscriber
}

type GenerationLog interface {
	Create(*store.Generation) error
	Update(*store.Generation) error
	List(int) ([]store.Generation, error)
	Clear() error
}

// Handler encapsulates dependencies for HTTP handlers.
type Handler struct {
	provider llm.Client
	session  *scene.Session
	renderer *typeset.Renderer
	checker  *validator.Validator
	log      GenerationLog
	bus      eventBus
	opts     Options
}

// New creates a new Handler instance. log and bus may be nil.
func New(provider llm.Client, session *scene.Session, renderer *typeset.Renderer, checker *validator.Validator, glog GenerationLog, bus eventBus, opts Options) *Handler {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = llm.SystemInstruction
	}
	return &Handler{
		provider: provider,
		session:  session,
		renderer: renderer,
		checker:  checker,
		log:      glog,
		bus:      bus,
		opts:     opts,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type typesetRequest struct {
	Latex string `json:"latex" binding:"required"`
}

type exportRequest struct {
	Commands json.RawMessage `json:"commands" binding:"required"`
}

// Health returns service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SystemInfo reports runtime configuration relevant to clients.
func (h *Handler) SystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":          h.opts.Version,
		"model":            h.opts.Model,
		"canvasWidth":      export.CanvasWidth,
		"canvasHeight":     export.CanvasHeight,
		"typesetAvailable": h.renderer.Available(),
	})
}

// Generate relays a prompt to the model provider and streams decoded drawing
// commands back as SSE frames. With ?stream=false the full command list is
// returned as one JSON body instead.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if c.Query("stream") == "false" {
		h.generateOnce(c, req.Prompt)
		return
	}
	h.generateStream(c, req.Prompt)
}

func (h *Handler) beginGeneration(prompt string) (uint64, *store.Generation) {
	gen := h.session.Begin(prompt)
	rec := &store.Generation{
		ID:     uuid.NewString(),
		Prompt: prompt,
		Status: store.GenerationRunning,
	}
	if h.log != nil {
		if err := h.log.Create(rec); err != nil {
			log.Printf("Failed to record generation: %v", err)
		}
	}
	h.publish(events.Event{Type: events.TypeGenerationStarted, Generation: gen, Data: gin.H{"prompt": prompt}})
	return gen, rec
}

func (h *Handler) finishGeneration(gen uint64, rec *store.Generation, status store.GenerationStatus, commands, dropped int, errMsg string, start time.Time) {
	rec.Status = status
	rec.Commands = commands
	rec.Dropped = dropped
	rec.Error = errMsg
	rec.DurationMS = time.Since(start).Milliseconds()
	if h.log != nil {
		if err := h.log.Update(rec); err != nil {
			log.Printf("Failed to update generation record: %v", err)
		}
	}
	metrics.ObserveGeneration(string(status), time.Since(start))

	fields := map[string]interface{}{
		"generationId": rec.ID,
		"status":       string(status),
		"commands":     commands,
		"duration":     time.Since(start).String(),
	}
	if errMsg != "" {
		logutil.Error("generation_finished", errors.New(errMsg), fields)
	} else {
		logutil.Info("generation_finished", fields)
	}

	evtType := events.TypeGenerationCompleted
	if status != store.GenerationCompleted {
		evtType = events.TypeGenerationFailed
	}
	h.publish(events.Event{Type: evtType, Generation: gen, Data: gin.H{
		"commands": commands,
		"status":   string(status),
	}})
}

func (h *Handler) generateStream(c *gin.Context, prompt string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	defer cancel()

	gen, rec := h.beginGeneration(prompt)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	decoder := stream.NewDecoder(stream.ModeLoose)
	emitted := 0
	emit := func(cmds []command.Command) {
		wrote := false
		for _, cmd := range cmds {
			if !h.session.Append(gen, cmd) {
				// A newer prompt took over; stop feeding the old canvas.
				continue
			}
			metrics.ObserveCommand(string(cmd.Kind()))
			payload, err := json.Marshal(cmd)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			emitted++
			wrote = true
		}
		if wrote {
			c.Writer.Flush()
			h.session.Typeset(context.Background(), h.renderer)
		}
	}

	streamErr := h.provider.Stream(ctx, h.opts.SystemPrompt, prompt, func(delta string) error {
		emit(decoder.Feed(delta))
		return nil
	})
	if streamErr == nil {
		emit(decoder.Flush())
	}

	if streamErr != nil {
		log.Printf("Generation stream failed: %v", streamErr)
		status := store.GenerationFailed
		if ctx.Err() != nil {
			status = store.GenerationAborted
		}
		h.finishGeneration(gen, rec, status, emitted, decoder.Dropped(), streamErr.Error(), start)

		if emitted == 0 {
			// Nothing streamed yet, so a proper error status can still go out.
			httpStatus := http.StatusBadGateway
			if streamErr == llm.ErrNoAPIKey {
				httpStatus = http.StatusServiceUnavailable
			}
			c.Writer.Header().Set("Content-Type", "application/json")
			c.JSON(httpStatus, gin.H{"error": "generation failed", "details": streamErr.Error()})
			return
		}
		// Partial output already rendered stays on screen; the failure is
		// surfaced as its own frame before the stream ends.
		payload, _ := json.Marshal(gin.H{"error": "generation failed", "details": streamErr.Error()})
		fmt.Fprintf(c.Writer, "event: error\ndata: %s\n\n", payload)
		c.Writer.Flush()
		return
	}

	fmt.Fprintf(c.Writer, "data: %s\n\n", stream.DoneSentinel)
	c.Writer.Flush()
	h.finishGeneration(gen, rec, store.GenerationCompleted, emitted, decoder.Dropped(), "", start)
}

func (h *Handler) generateOnce(c *gin.Context, prompt string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	defer cancel()

	gen, rec := h.beginGeneration(prompt)

	reply, err := h.provider.Complete(ctx, h.opts.SystemPrompt, prompt)
	if err != nil {
		h.finishGeneration(gen, rec, store.GenerationFailed, 0, 0, err.Error(), start)
		status := http.StatusBadGateway
		if err == llm.ErrNoAPIKey {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "generation failed", "details": err.Error()})
		return
	}

	cmds := stream.Extract(reply)
	if len(cmds) == 0 {
		// Total failure to parse model output: hand back the raw text.
		h.finishGeneration(gen, rec, store.GenerationCompleted, 0, 0, "no commands parsed", start)
		c.String(http.StatusOK, reply)
		return
	}

	for _, cmd := range cmds {
		h.session.Append(gen, cmd)
		metrics.ObserveCommand(string(cmd.Kind()))
	}
	h.session.Typeset(context.Background(), h.renderer)
	h.finishGeneration(gen, rec, store.GenerationCompleted, len(cmds), 0, "", start)

	c.JSON(http.StatusOK, gin.H{"commands": cmds})
}

// Session returns the current canvas snapshot with equation states.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// Clear discards the canvas and invalidates in-flight work.
func (h *Handler) Clear(c *gin.Context) {
	gen := h.session.Clear()
	h.publish(events.Event{Type: events.TypeCanvasCleared, Generation: gen})
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "generation": gen})
}

// Narration returns the spoken text for the current canvas.
func (h *Handler) Narration(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"text": interp.Narration(h.session.Commands())})
}

// Typeset renders one markup string, degrading to a plain-text fallback.
func (h *Handler) Typeset(c *gin.Context) {
	var req typesetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.renderer.RenderOrFallback(c.Request.Context(), req.Latex))
}

// ExportPDF validates a client-supplied command list and renders it to PDF.
func (h *Handler) ExportPDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if result := h.checker.ValidateCommands(req.Commands); !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid commands",
			"details": strings.Join(result.Errors, "; "),
		})
		return
	}

	cmds, err := command.DecodeList(req.Commands)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commands", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="canvas.pdf"`)
	c.Status(http.StatusOK)
	if err := export.PDF(c.Writer, interp.Interpret(cmds)); err != nil {
		log.Printf("PDF export failed: %v", err)
	}
}

// ListHistory returns recent generation records.
func (h *Handler) ListHistory(c *gin.Context) {
	if h.log == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "request log is disabled"})
		return
	}
	entries, err := h.log.List(h.opts.HistoryLimit)
	if err != nil {
		log.Printf("Failed to list history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// ClearHistory deletes the request log.
func (h *Handler) ClearHistory(c *gin.Context) {
	if h.log == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "request log is disabled"})
		return
	}
	if err := h.log.Clear(); err != nil {
		log.Printf("Failed to clear history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// StreamEvents serves the lifecycle event feed as SSE.
func (h *Handler) StreamEvents(c *gin.Context) {
	if h.bus == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "event feed is disabled"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	ch, cancel := h.bus.Subscribe(c.Request.Context())
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			_, _ = io.WriteString(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		case evt, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", evt.Type, payload)
			c.Writer.Flush()
		}
	}
}

func (h *Handler) publish(evt events.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(context.Background(), evt); err != nil {
		log.Printf("Failed to publish event %s: %v", evt.Type, err)
	}
}
