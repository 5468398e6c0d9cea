package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/topicline/research-service/internal/events"
	"github.com/topicline/research-service/internal/reports"
	"github.com/topicline/research-service/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type researchRequest struct {
	Topic string `json:"topic"`
}

type researchResponse struct {
	Message  string `json:"message"`
	TaskID   string `json:"task_id"`
	S3Bucket string `json:"s3_bucket"`
	S3Key    string `json:"s3_key"`
}

const genericErrorMessage = "An internal server error occurred. Check the service logs for details."

// createResearchTask is the whole pipeline for one invocation:
// config check, validation, agent run, report write, task record, response.
// After a task id exists, every failure funnels through failTask.
func (s *Server) createResearchTask(w http.ResponseWriter, r *http.Request) {
	log.Printf("received research request")
	if err := s.cfg.Validate(); err != nil {
		log.Printf("configuration error: %v", err)
		writeJSONStatus(w, errorResponse{Error: configErrorMessage(err)}, http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONStatus(w, errorResponse{Error: "Invalid JSON in request body."}, http.StatusBadRequest)
		return
	}
	var req researchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONStatus(w, errorResponse{Error: "Invalid JSON in request body."}, http.StatusBadRequest)
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeJSONStatus(w, errorResponse{Error: `Missing "topic" in request body.`}, http.StatusBadRequest)
		return
	}

	taskID := uuid.New().String()
	log.Printf("starting task %s for topic: %q", taskID, topic)
	s.publishTaskEvent(taskID, "task.started", map[string]any{"research_topic": topic})

	ctx := r.Context()
	report, err := s.agent.Research(ctx, topic)
	if err != nil {
		s.failTask(w, r, taskID, topic, fmt.Errorf("agent run: %w", err))
		return
	}
	log.Printf("task %s: agent finished, final report generated", taskID)

	reportKey := reports.Key(taskID)
	if err := s.reports.Put(ctx, reportKey, report); err != nil {
		s.failTask(w, r, taskID, topic, fmt.Errorf("store report: %w", err))
		return
	}
	log.Printf("task %s: report saved to s3://%s/%s", taskID, s.reports.Bucket(), reportKey)

	task := store.Task{
		ID:          taskID,
		Topic:       topic,
		ReportKey:   reportKey,
		Status:      store.StatusCompleted,
		CompletedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		s.failTask(w, r, taskID, topic, fmt.Errorf("record task: %w", err))
		return
	}
	log.Printf("task %s: metadata recorded", taskID)
	s.publishTaskEvent(taskID, "task.completed", map[string]any{"s3_report_key": reportKey})

	writeJSON(w, researchResponse{
		Message:  "Research task completed successfully!",
		TaskID:   taskID,
		S3Bucket: s.reports.Bucket(),
		S3Key:    reportKey,
	})
}

// failTask is the single failure branch: log the cause, best-effort record a
// FAILED task, answer with the generic 500. Provider and persistence failures
// are deliberately indistinguishable to the caller.
func (s *Server) failTask(w http.ResponseWriter, r *http.Request, taskID string, topic string, cause error) {
	log.Printf("task %s failed: %v", taskID, cause)

	task := store.Task{
		ID:           taskID,
		Topic:        topic,
		Status:       store.StatusFailed,
		ErrorMessage: cause.Error(),
		CompletedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		log.Printf("task %s: failed to record FAILED status: %v", taskID, err)
	}
	s.publishTaskEvent(taskID, "task.failed", map[string]any{"error": cause.Error()})

	writeJSONStatus(w, errorResponse{Error: genericErrorMessage}, http.StatusInternalServerError)
}

func (s *Server) publishTaskEvent(taskID string, eventType string, payload map[string]any) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(events.TaskEvent{
		TaskID:  taskID,
		Type:    eventType,
		Ts:      time.Now().UTC().Format(time.RFC3339Nano),
		Payload: payload,
	})
}

func configErrorMessage(err error) string {
	return fmt.Sprintf("Server configuration error: %s.", missingLabel(err))
}
