package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"messaging-service/internal/api/middleware"
	"messaging-service/internal/models"
	"messaging-service/internal/services"
	"messaging-service/pkg/response"

	"github.com/gin-gonic/gin"
)

const paginationHeader = "Pagination"

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// CreateMessage godoc
// @Summary Send a direct message
// @Description Send a message from the current user to another user
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateMessageRequest true "Recipient and content"
// @Success 200 {object} models.MessageResponse "Message sent"
// @Failure 400 {object} models.ErrorResponse "Invalid request or failed to send"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 404 {object} models.ErrorResponse "Recipient not found"
// @OperationId createMessage
// @Router /messages [post]
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), c.GetString(middleware.ContextUsername), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}

// GetMessagesForUser godoc
// @Summary List the current user's messages
// @Description Messages the current user sent or received and has not deleted, newest first. Paging metadata is also returned in the Pagination header.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "1-based page number" default(1)
// @Param pageSize query int false "Page size (max 50)" default(10)
// @Param container query string false "all, inbox or outbox" Enums(all, inbox, outbox)
// @Success 200 {object} models.PaginatedMessageResponse "Page of messages"
// @Header 200 {string} Pagination "JSON paging metadata"
// @Failure 400 {object} models.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @OperationId getMessagesForUser
// @Router /messages [get]
func (h *MessageHandler) GetMessagesForUser(c *gin.Context) {
	var params models.MessageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	page, err := h.messageService.ListInbox(c.Request.Context(), c.GetString(middleware.ContextUsername), params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	header, err := paginationHeaderValue(page)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header(paginationHeader, header)
	c.JSON(http.StatusOK, page)
}

func paginationHeaderValue(page *models.PaginatedMessageResponse) (string, error) {
	header, err := json.Marshal(models.PaginationHeader{
		CurrentPage:  page.CurrentPage,
		ItemsPerPage: page.PageSize,
		TotalItems:   page.TotalCount,
		TotalPages:   page.TotalPages,
	})
	if err != nil {
		return "", fmt.Errorf("encode pagination header: %w", err)
	}
	return string(header), nil
}

// GetMessageThread godoc
// @Summary Get the conversation with another user
// @Description Messages between the current user and the given user, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param username path string true "Other participant"
// @Success 200 {array} models.MessageResponse "Conversation"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @OperationId getMessageThread
// @Router /messages/thread/{username} [get]
func (h *MessageHandler) GetMessageThread(c *gin.Context) {
	thread, err := h.messageService.GetThread(c.Request.Context(), c.GetString(middleware.ContextUsername), c.Param("username"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// DeleteMessage godoc
// @Summary Delete a message for the current user
// @Description Hides the message from the current user. Once both participants delete it the message is removed.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} models.StatusResponse "Message deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid message ID or failed to delete"
// @Failure 401 {object} models.ErrorResponse "Not a participant of this message"
// @OperationId deleteMessage
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid message ID", "")
		return
	}

	if err := h.messageService.DeleteMessage(c.Request.Context(), c.GetString(middleware.ContextUsername), uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Message: "Message deleted"})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.Error(c, http.StatusNotFound, "User not found", "")
	case errors.Is(err, services.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, services.ErrOperationFailed):
		response.Error(c, http.StatusBadRequest, "Operation failed", "")
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred.")
	}
}
