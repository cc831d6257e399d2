package messaging

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/serendiblabs/mangala-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service Service
	hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conversations, err := h.service.GetConversations(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get conversations")
		return
	}

	utils.RespondWithData(w, http.StatusOK, conversations)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto SendMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.service.SendMessage(r.Context(), userID, &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrMessagingNotAllowed):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrEmptyMessage):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, message)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	conversationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var beforeID int64
	if before := r.URL.Query().Get("before"); before != "" {
		beforeID, _ = strconv.ParseInt(before, 10, 64)
	}
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	messages, err := h.service.GetMessages(r.Context(), userID, conversationID, beforeID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParticipant):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get messages")
		}
		return
	}

	utils.RespondWithData(w, http.StatusOK, messages)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	conversationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	if err := h.service.MarkConversationRead(r.Context(), userID, conversationID); err != nil {
		switch {
		case errors.Is(err, ErrConversationNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNotParticipant):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to mark conversation read")
		}
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Conversation marked as read")
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	messageID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.service.DeleteMessage(r.Context(), userID, messageID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Message deleted")
}

// HandleWebSocket upgrades the connection and attaches the client to
// the hub for event push
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	NewClient(h.hub, conn, userID).Start()
}
