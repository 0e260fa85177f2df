package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lexportal/internal/app"
	"lexportal/internal/transport/http/response"
)

type AssistantHandler struct {
	assistantService *app.AssistantService
}

type SendMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID uint   `json:"session_id"`
}

func NewAssistantHandler(assistantService *app.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

func (h *AssistantHandler) SendMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.assistantService.SendMessage(c.Request.Context(), app.SendInput{
		UserID:    userID,
		Role:      getRoleFromContext(c),
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		var quota *app.QuotaError
		switch {
		case errors.As(err, &quota):
			response.ErrorWithData(c, http.StatusTooManyRequests, response.CodeQuotaExceeded,
				"daily message limit reached, try again tomorrow", quota.Usage)
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrUpstreamService):
			response.Error(c, http.StatusServiceUnavailable, response.CodeUpstreamFailure,
				"assistant is temporarily unavailable, please try again")
		default:
			log.Printf("assistant message failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				"send message failed, please try again")
		}
		return
	}

	response.OK(c, result)
}

func (h *AssistantHandler) ListSessions(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	summaries, err := h.assistantService.ListSessions(userID)
	if err != nil {
		log.Printf("list sessions failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}

	response.OK(c, summaries)
}

func (h *AssistantHandler) GetSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	detail, err := h.assistantService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			log.Printf("get session failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get session failed")
		}
		return
	}

	response.OK(c, detail)
}

func (h *AssistantHandler) DeleteSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.assistantService.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			log.Printf("delete session failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_session_id": sessionID})
}

// Limit exposes the usage snapshot without consuming anything.
func (h *AssistantHandler) Limit(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	usage, err := h.assistantService.Usage(userID, getRoleFromContext(c))
	if err != nil {
		log.Printf("usage check failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "usage check failed")
		return
	}

	response.OK(c, usage)
}

func parseSessionID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		return 0, false
	}
	return uint(id64), true
}
