package models

// ChatMessage is one entry in a group's append-only chat transcript.
// SenderName is captured at send time and does not update if the sender
// later renames.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}
