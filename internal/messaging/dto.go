package messaging

// SendMessageDTO is the payload for sending a chat message
type SendMessageDTO struct {
	ConversationID int64  `json:"conversation_id" validate:"required,gt=0"`
	Content        string `json:"content" validate:"required,max=4000"`
	MessageType    string `json:"message_type" validate:"omitempty,oneof=text image"`
}
