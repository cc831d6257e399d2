package matching

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/serendiblabs/mangala-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetDailyMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	matches, err := h.service.GenerateDailyMatches(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate daily matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, matches)
}

func (h *Handler) SearchMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	matches, err := h.service.FindMatches(r.Context(), userID, limit, TypeSearchResult)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to find matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, matches)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto LikeActionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.ProcessLike(r.Context(), userID, dto.TargetUserID, dto.IsSuperLike)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotLikeSelf):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrLikedUserBlocked):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAlreadyLiked):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process like")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.negativeAction(w, r, h.service.ProcessDislike, "Failed to process dislike")
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.negativeAction(w, r, h.service.ProcessBlock, "Failed to process block")
}

func (h *Handler) negativeAction(
	w http.ResponseWriter,
	r *http.Request,
	process func(ctx context.Context, initiatorID, targetID int64) (*ActionResult, error),
	failMessage string,
) {
	userID := r.Context().Value("userID").(int64)

	var dto LikeActionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := process(r.Context(), userID, dto.TargetUserID)
	if err != nil {
		if errors.Is(err, ErrCannotLikeSelf) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, failMessage)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) GetMutualMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	matches, err := h.service.GetMutualMatches(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get mutual matches")
		return
	}

	utils.RespondWithData(w, http.StatusOK, matches)
}

func (h *Handler) GetWhoLikedMe(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	likes, err := h.service.GetWhoLikedMe(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get received likes")
		return
	}

	utils.RespondWithData(w, http.StatusOK, likes)
}
