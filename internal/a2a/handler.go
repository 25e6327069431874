package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BerylCAtieno/gtm-studio/internal/agent"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
)

// ProfileGenerator is the slice of the model gateway the agent needs.
type ProfileGenerator interface {
	RequestProfile(ctx context.Context, verticalDescription string) (models.Profile, error)
}

const (
	promptMessage = "Please describe your vertical AI product to generate an Ideal Customer Profile."
	failedMessage = "Failed to generate ICP. Please try again."
	directTaskID  = "direct-message"
)

type A2AHandler struct {
	profiles ProfileGenerator
	log      *logger.Logger
}

func NewA2AHandler(profiles ProfileGenerator, log *logger.Logger) *A2AHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &A2AHandler{
		profiles: profiles,
		log:      log.With("component", "a2a"),
	}
}

// HandleProfiler processes A2A messages
func (h *A2AHandler) HandleProfiler(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Error("failed to read request body", "error", err)
		h.sendErrorResponse(c, "", "Failed to read request body", CodeParseError)
		return
	}
	h.log.Debug("a2a request", "body", string(bodyBytes))

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil || rpcReq.JSONRPC == "" {
		// Some clients post the message params without the JSON-RPC wrapper.
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.log.Warn("invalid JSON-RPC version", "version", rpcReq.JSONRPC)
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.log.Warn("unknown method", "method", rpcReq.Method)
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

// handleDirectMessage handles a message without the JSON-RPC wrapper
func (h *A2AHandler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil {
		h.log.Warn("failed to parse as direct message", "error", err)
		h.sendErrorResponse(c, "", "Invalid request format", CodeParseError)
		return
	}

	h.sendSuccessResponse(c, directTaskID, h.runTask(c.Request.Context(), directTaskID, msgParams.Message))
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	paramsJSON, err := json.Marshal(rpcReq.Params)
	if err != nil {
		h.sendErrorResponse(c, rpcReq.ID, "Failed to parse parameters", CodeInvalidParams)
		return
	}

	var msgParams MessageParams
	if err := json.Unmarshal(paramsJSON, &msgParams); err != nil {
		h.log.Warn("failed to unmarshal params", "error", err)
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	h.sendSuccessResponse(c, rpcReq.ID, h.runTask(c.Request.Context(), rpcReq.ID, msgParams.Message))
}

// runTask generates a profile for the message. Failures become a failed task, not an RPC error.
func (h *A2AHandler) runTask(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	description := h.extractDescription(msg)
	if description == "" {
		h.log.Info("no vertical description in message", "task_id", taskID)
		return h.createErrorTaskResult(taskID, promptMessage)
	}

	h.log.Info("generating ICP", "task_id", taskID, "description", description)
	profile, err := h.profiles.RequestProfile(ctx, description)
	if err != nil {
		h.log.Warn("ICP generation failed", "task_id", taskID, "error", err)
		return h.createErrorTaskResult(taskID, failedMessage)
	}
	return h.createSuccessTaskResult(taskID, profile)
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	if err := agent.LoadAgentCard(); err != nil {
		h.log.Error("error loading agent card", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.Data(http.StatusOK, "application/json", agent.AgentCardData)
}

// extractDescription joins the text parts of the message. Data parts carrying
// conversation history contribute their most recent user text.
func (h *A2AHandler) extractDescription(msg A2AMessage) string {
	var texts []string

	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		case "data":
			if t := h.latestHistoryText(part.Data); t != "" {
				texts = append(texts, t)
			}
		}
	}

	return strings.TrimSpace(strings.Join(texts, " "))
}

func (h *A2AHandler) latestHistoryText(data interface{}) string {
	if data == nil {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	var history []map[string]interface{}
	if err := json.Unmarshal(raw, &history); err != nil {
		h.log.Debug("data part is not a message history", "error", err)
		return ""
	}

	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		if kind, _ := item["kind"].(string); kind != "text" {
			continue
		}
		text, _ := item["text"].(string)
		text = strings.TrimSpace(text)
		text = strings.ReplaceAll(text, "<p>", "")
		text = strings.ReplaceAll(text, "</p>", "")
		text = strings.TrimSpace(text)
		if text == "" || isAgentChatter(text) {
			continue
		}
		return text
	}
	return ""
}

// isAgentChatter matches progress messages echoed back in the history.
func isAgentChatter(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "generating") || strings.Contains(lower, "creating") {
		return true
	}
	return strings.Trim(text, ".") == "" || text == "ce..."
}

func (h *A2AHandler) createSuccessTaskResult(taskID string, profile models.Profile) TaskResult {
	responseText := profile.Markdown()

	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(responseText),
				},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.New().String(),
				Name:       "Ideal Customer Profile",
				Parts: []MessagePart{
					TextPart(responseText),
					DataPart(profile),
				},
			},
		},
	}
}

func (h *A2AHandler) createErrorTaskResult(taskID string, errorMsg string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(errorMsg),
				},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id string, result TaskResult) {
	h.log.Info("a2a task finished", "task_id", id, "state", result.Status.State)
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id string, message string, code int) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}
