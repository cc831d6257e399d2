package notification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/serendiblabs/mangala-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type registerTokenDTO struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	notifications, err := h.service.GetNotifications(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get notifications")
		return
	}

	utils.RespondWithData(w, http.StatusOK, notifications)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	count, err := h.service.CountUnread(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	vars := mux.Vars(r)
	notificationID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, notificationID); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Notification marked as read")
}

func (h *Handler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto registerTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.service.RegisterDeviceToken(r.Context(), userID, dto.Token, dto.Platform)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register device token")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, token)
}
