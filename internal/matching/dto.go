package matching

// LikeActionDTO is the payload for like, dislike and block requests
type LikeActionDTO struct {
	TargetUserID int64 `json:"target_user_id" validate:"required,gt=0"`
	IsSuperLike  bool  `json:"is_super_like"`
}

// LikeResult reports the outcome of a like, including the mutual flip
// when the target had already liked back
type LikeResult struct {
	Success        bool   `json:"success"`
	IsMatch        bool   `json:"is_match"`
	MatchID        int64  `json:"match_id"`
	ConversationID *int64 `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ActionResult reports the outcome of a dislike or block
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
