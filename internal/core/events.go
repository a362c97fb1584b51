package core

import "callbridge/internal/domain"

// Event type tags on the bidirectional signaling channel.
const (
	EvAuthenticate  = "authenticate"
	EvAuthenticated = "authenticated"
	EvJoin          = "join"
	EvJoinSuccess   = "join_success"
	EvLeave         = "leave"
	EvPing          = "ping"
	EvPong          = "pong"

	EvIncomingCall = "incoming_call"
	EvCallAccepted = "call_accepted"
	EvCallRejected = "call_rejected"
	EvCallEnded    = "call_ended"
	EvCallStatus   = "call_status_update"
	EvMediaChunk   = "media_chunk"

	EvOffer        = "offer"
	EvAnswer       = "answer"
	EvICECandidate = "ice_candidate"

	EvUserJoined = "user_joined"
	EvUserLeft   = "user_left"
	EvCallReady  = "call_ready"
	EvCallError  = "call_error"
)

// Lifecycle notifications pushed by the relay. call_status_update,
// media_chunk and the WebRTC frames never get structs of their own:
// they pass through as raw frames, uninspected.

type IncomingCall struct {
	Type          string               `json:"type"`
	SessionID     string               `json:"sessionId"`
	CallerID      domain.ParticipantID `json:"callerId"`
	CallerName    string               `json:"callerName,omitempty"`
	CallType      domain.CallType      `json:"callType"`
	MediaChannel  string               `json:"mediaChannel"`
	OrderTracking string               `json:"orderTrackingId,omitempty"`
}

type CallAccepted struct {
	Type    string              `json:"type"`
	Session *domain.CallSession `json:"session"`
}

type CallRejected struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

type CallEnded struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
}

type UserJoined struct {
	Type             string        `json:"type"`
	ConnID           domain.ConnID `json:"connectionId"`
	DisplayName      string        `json:"displayName"`
	ParticipantCount int           `json:"participantCount"`
}

type UserLeft struct {
	Type             string        `json:"type"`
	ConnID           domain.ConnID `json:"connectionId"`
	ParticipantCount int           `json:"participantCount"`
}

type CallReady struct {
	Type         string                   `json:"type"`
	RoomCode     domain.RoomCode          `json:"roomCode"`
	Participants []domain.RoomParticipant `json:"participants"`
}

type CallError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
