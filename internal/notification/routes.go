package notification

import (
	"github.com/gorilla/mux"

	"github.com/serendiblabs/mangala-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetNotifications).Methods("GET")
	api.HandleFunc("/unread-count", handler.GetUnreadCount).Methods("GET")
	api.HandleFunc("/{id}/read", handler.MarkRead).Methods("POST")
	api.HandleFunc("/device-tokens", handler.RegisterDeviceToken).Methods("POST")
}
