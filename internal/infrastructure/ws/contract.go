package ws

import (
	"time"

	"github.com/usaidgithub/QuickShare/internal/domain"
)

type WSMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data"`
}

// Payload structs
type MessagePayload struct {
	Sender       string `json:"sender"`
	Body         string `json:"message"`
	Kind         string `json:"type"`
	OriginalName string `json:"originalName,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type MemberListPayload struct {
	Members []domain.Member `json:"members"`
}

type PresencePayload struct {
	Sender string        `json:"sender"`
	Member domain.Member `json:"member"`
}

type JoinAckPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewJoinAcknowledged(roomID string) *WSMessage {
	return &WSMessage{
		Type:   JoinAcknowledged,
		RoomID: roomID,
		Data: JoinAckPayload{
			RoomID: roomID,
		},
	}
}

func NewMemberList(roomID string, members []domain.Member) *WSMessage {
	return &WSMessage{
		Type:   MemberList,
		RoomID: roomID,
		Data:   MemberListPayload{Members: members},
	}
}

func NewUserJoined(roomID string, member domain.Member) *WSMessage {
	return &WSMessage{
		Type:   MemberJoined,
		RoomID: roomID,
		Data: PresencePayload{
			Sender: domain.SystemSender,
			Member: member,
		},
	}
}

func NewUserLeft(roomID string, member domain.Member) *WSMessage {
	return &WSMessage{
		Type:   MemberLeft,
		RoomID: roomID,
		Data: PresencePayload{
			Sender: domain.SystemSender,
			Member: member,
		},
	}
}

func NewTextMessage(roomID, sender, body string) *WSMessage {
	return &WSMessage{
		Type:   MessageReceived,
		RoomID: roomID,
		Data: MessagePayload{
			Sender:    sender,
			Body:      body,
			Kind:      domain.MessageKindText,
			Timestamp: time.Now().Format(time.RFC3339),
		},
	}
}

func NewFileMessage(roomID, sender, fileURL, originalName string) *WSMessage {
	return &WSMessage{
		Type:   MessageReceived,
		RoomID: roomID,
		Data: MessagePayload{
			Sender:       sender,
			Body:         fileURL,
			Kind:         domain.MessageKindFile,
			OriginalName: originalName,
			Timestamp:    time.Now().Format(time.RFC3339),
		},
	}
}

func NewJoinFailed(roomID, reason string) *WSMessage {
	return &WSMessage{
		Type:   JoinFailed,
		RoomID: roomID,
		Data: ErrorPayload{
			Code:    "JOIN_FAILED",
			Message: reason,
			Retry:   true,
		},
	}
}
