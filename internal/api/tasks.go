package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/topicline/research-service/internal/events"
	"github.com/topicline/research-service/internal/store"
)

type taskResponse struct {
	TaskID       string `json:"task_id"`
	Topic        string `json:"research_topic"`
	ReportKey    string `json:"s3_report_key,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CompletedAt  string `json:"completed_at"`
}

func toTaskResponse(task store.Task) taskResponse {
	return taskResponse{
		TaskID:       task.ID,
		Topic:        task.Topic,
		ReportKey:    task.ReportKey,
		Status:       string(task.Status),
		ErrorMessage: task.ErrorMessage,
		CompletedAt:  task.CompletedAt,
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		writeJSONStatus(w, errorResponse{Error: genericErrorMessage}, http.StatusInternalServerError)
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	writeJSON(w, map[string]any{"tasks": out})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	task, err := s.store.GetTask(r.Context(), taskID)
	if err != nil {
		writeJSONStatus(w, errorResponse{Error: genericErrorMessage}, http.StatusInternalServerError)
		return
	}
	if task == nil {
		writeJSONStatus(w, errorResponse{Error: "task not found"}, http.StatusNotFound)
		return
	}
	writeJSON(w, toTaskResponse(*task))
}

func (s *Server) getTaskReport(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	task, err := s.store.GetTask(r.Context(), taskID)
	if err != nil {
		writeJSONStatus(w, errorResponse{Error: genericErrorMessage}, http.StatusInternalServerError)
		return
	}
	if task == nil || task.ReportKey == "" {
		writeJSONStatus(w, errorResponse{Error: "no report for task"}, http.StatusNotFound)
		return
	}
	text, err := s.reports.Get(r.Context(), task.ReportKey)
	if err != nil {
		writeJSONStatus(w, errorResponse{Error: genericErrorMessage}, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// streamTaskEvents forwards live lifecycle events for a task over SSE. The
// stream is live-only: events published before the subscription are gone.
func (s *Server) streamTaskEvents(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	eventsChan := s.broker.Subscribe(ctx, taskID)
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case event, ok := <-eventsChan:
			if !ok {
				return
			}
			sendSSE(w, event)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func sendSSE(w http.ResponseWriter, event events.TaskEvent) {
	payload, _ := json.Marshal(event)
	fmt.Fprint(w, "event: task_event\n")
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
