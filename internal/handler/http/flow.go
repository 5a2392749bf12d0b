package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-gate/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FlowHandler interface {
	Office(w http.ResponseWriter, r *http.Request)
	Open(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Locate(w http.ResponseWriter, r *http.Request)
	UpdateForm(w http.ResponseWriter, r *http.Request)
	ToggleType(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type flowHandlerImpl struct {
	flowService attendance.FlowService
	keepalive   time.Duration
}

func NewFlowHandler(flowService attendance.FlowService) FlowHandler {
	return &flowHandlerImpl{
		flowService: flowService,
		keepalive:   30 * time.Second,
	}
}

// Office implements FlowHandler.
func (h *flowHandlerImpl) Office(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.flowService.Office())
}

// Open implements FlowHandler.
func (h *flowHandlerImpl) Open(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowService.Open(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance flow opened", result)
}

// Get implements FlowHandler.
func (h *flowHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Locate implements FlowHandler.
func (h *flowHandlerImpl) Locate(w http.ResponseWriter, r *http.Request) {
	var req attendance.LocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode location request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.flowService.Locate(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleFlowError(w, err, result)
		return
	}

	response.Success(w, result)
}

// UpdateForm implements FlowHandler.
func (h *flowHandlerImpl) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode form update", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.flowService.UpdateForm(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleFlowError(w, err, result)
		return
	}

	response.Success(w, result)
}

// ToggleType implements FlowHandler.
func (h *flowHandlerImpl) ToggleType(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowService.ToggleType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleFlowError(w, err, result)
		return
	}

	response.Success(w, result)
}

// Submit implements FlowHandler.
func (h *flowHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowService.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleFlowError(w, err, result)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// Reset implements FlowHandler.
func (h *flowHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.flowService.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleFlowError(w, err, result)
		return
	}

	response.Success(w, result)
}

// Close implements FlowHandler.
func (h *flowHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.flowService.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// Stream pushes flow transitions as Server-Sent Events
func (h *flowHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, cleanup, err := h.flowService.Subscribe(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	current, err := h.flowService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Initial snapshot
	writeEvent(w, attendance.EventFlowState, current)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, view attendance.FlowResponse) {
	data, err := json.Marshal(view)
	if err != nil {
		slog.Error("Failed to encode flow event", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
