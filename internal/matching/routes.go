package matching

import (
	"github.com/gorilla/mux"

	"github.com/serendiblabs/mangala-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Suggestions
	api.HandleFunc("/daily", handler.GetDailyMatches).Methods("GET")
	api.HandleFunc("/search", handler.SearchMatches).Methods("GET")

	// Actions
	api.HandleFunc("/like", handler.Like).Methods("POST")
	api.HandleFunc("/dislike", handler.Dislike).Methods("POST")
	api.HandleFunc("/block", handler.Block).Methods("POST")

	// Listings
	api.HandleFunc("/mutual", handler.GetMutualMatches).Methods("GET")
	api.HandleFunc("/likes-received", handler.GetWhoLikedMe).Methods("GET")
}
