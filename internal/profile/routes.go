package profile

import (
	"github.com/gorilla/mux"
	"github.com/serendiblabs/mangala-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT")
	api.HandleFunc("/users/{id:[0-9]+}/profile", handler.GetUserProfile).Methods("GET")

	api.HandleFunc("/preferences", handler.GetPreference).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreference).Methods("PUT")

	api.HandleFunc("/horoscope", handler.GetHoroscope).Methods("GET")
	api.HandleFunc("/horoscope", handler.UpdateHoroscope).Methods("PUT")

	api.HandleFunc("/profile/photos", handler.UploadPhoto).Methods("POST")
	api.HandleFunc("/profile/photos", handler.ListPhotos).Methods("GET")
}
