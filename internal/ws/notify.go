package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventMatchRequestReceived  = "match_request_received"
	EventMatchRequestUpdated   = "match_request_updated"
	EventMatchRequestResponded = "match_request_responded"
)

type MatchRequestEvent struct {
	Type      string    `json:"type"`
	RequestID uuid.UUID `json:"request_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// Notifier adapts the hub to the lifecycle manager's notification hooks.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) MatchRequestReceived(receiverID, requestID uuid.UUID, created bool) {
	if n == nil || n.hub == nil {
		return
	}
	evtType := EventMatchRequestUpdated
	if created {
		evtType = EventMatchRequestReceived
	}
	n.send(receiverID, MatchRequestEvent{
		Type:      evtType,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) MatchRequestResponded(senderID, requestID uuid.UUID, status string) {
	if n == nil || n.hub == nil {
		return
	}
	n.send(senderID, MatchRequestEvent{
		Type:      EventMatchRequestResponded,
		RequestID: requestID,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) send(userID uuid.UUID, evt MatchRequestEvent) {
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendToUser(userID, b)
}
