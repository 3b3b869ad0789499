package websocket

import "encoding/json"

// ActionSubscriberCreated is pushed to dashboards for every new signup.
const ActionSubscriberCreated = "subscriber.created"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewMessage encodes a Message.
func NewMessage(action string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Action: action, Payload: payload})
}
