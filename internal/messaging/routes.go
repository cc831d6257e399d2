package messaging

import (
	"github.com/gorilla/mux"

	"github.com/serendiblabs/mangala-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messaging").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/conversations", handler.GetConversations).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", handler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id}/read", handler.MarkRead).Methods("POST")
	api.HandleFunc("/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/messages/{id}", handler.DeleteMessage).Methods("DELETE")

	api.HandleFunc("/ws", handler.HandleWebSocket).Methods("GET")
}
