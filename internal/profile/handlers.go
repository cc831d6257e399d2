package profile

import (
	"encoding/json"
	"errors"
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

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithData(w, http.StatusOK, p)
}

func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	pref, err := h.service.GetPreference(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrPreferenceNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Preference not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preference")
		return
	}

	utils.RespondWithData(w, http.StatusOK, pref)
}

func (h *Handler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdatePreferenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	pref, err := h.service.UpdatePreference(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update preference")
		return
	}

	utils.RespondWithData(w, http.StatusOK, pref)
}

func (h *Handler) GetHoroscope(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	horoscope, err := h.service.GetHoroscope(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrHoroscopeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Horoscope not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get horoscope")
		return
	}

	utils.RespondWithData(w, http.StatusOK, horoscope)
}

func (h *Handler) UpdateHoroscope(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto UpdateHoroscopeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	horoscope, err := h.service.UpdateHoroscope(r.Context(), userID, &dto)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update horoscope")
		return
	}

	utils.RespondWithData(w, http.StatusOK, horoscope)
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	// 5MB limit per photo
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Photo file is required")
		return
	}
	defer file.Close()

	isPrimary := r.FormValue("is_primary") == "true"

	photo, err := h.service.UploadPhoto(r.Context(), userID, file, header, isPrimary)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to upload photo")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, photo)
}

func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	photos, err := h.service.ListPhotos(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list photos")
		return
	}

	utils.RespondWithData(w, http.StatusOK, photos)
}
