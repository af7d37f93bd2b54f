package websocket

import (
	"encoding/json"
	"time"

	"github.com/coveragewatch/coverage-sentinel/pkg/models"
)

type MessageType string

const (
	MessageTypeTransition MessageType = "transition"
	MessageTypeRoster     MessageType = "roster"
	MessageTypeScenario   MessageType = "scenario_summary"
	MessageTypeAlert      MessageType = "alert"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	Unit      string      `json:"unit,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewMessage(msgType MessageType, unit string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Unit:      unit,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

type TransitionData struct {
	Type   models.TransitionType   `json:"type"`
	Reason models.TransitionReason `json:"reason,omitempty"`
	Window int                     `json:"window,omitempty"`
	Ratio  float64                 `json:"ratio"`
	State  models.UnitState        `json:"state"`
}

type RosterData struct {
	UnitsEvaluated int `json:"units_evaluated"`
	UnderServed    int `json:"under_served"`
}

type AlertData struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func BroadcastTransition(hub *Hub, unit string, payload *TransitionData) {
	msg := NewMessage(MessageTypeTransition, unit, payload)
	hub.BroadcastToUnit(unit, msg.JSON())
}

func BroadcastRoster(hub *Hub, roster models.Roster) {
	data := RosterData{
		UnitsEvaluated: roster.UnitsEvaluated,
		UnderServed:    roster.Count,
	}
	msg := NewMessage(MessageTypeRoster, "", data)
	hub.Broadcast(msg.JSON())
}

func BroadcastAlert(hub *Hub, unit, severity, message string) {
	data := AlertData{
		Severity: severity,
		Message:  message,
	}
	msg := NewMessage(MessageTypeAlert, unit, data)
	hub.Broadcast(msg.JSON())
}
