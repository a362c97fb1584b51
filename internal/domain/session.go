package domain

import "time"

type CallStatus string

const (
	CallRinging  CallStatus = "ringing"
	CallAccepted CallStatus = "accepted"
	CallRejected CallStatus = "rejected"
	CallEnded    CallStatus = "ended"
)

// Terminal reports whether the status admits no further transition.
func (s CallStatus) Terminal() bool {
	return s == CallRejected || s == CallEnded
}

type CallType string

const (
	CallTypeAudio CallType = "audio"
	CallTypeVideo CallType = "video"
)

// CallSession binds exactly two participants for one call attempt.
// Status moves forward only: ringing -> accepted|rejected|ended,
// accepted -> ended. Mutated exclusively by the session store.
type CallSession struct {
	ID         string        `json:"id"`
	CallerID   ParticipantID `json:"callerId"`
	ReceiverID ParticipantID `json:"receiverId"`

	// MediaChannel is the opaque routing label for the media plane,
	// unique while this record is live.
	MediaChannel string `json:"mediaChannel"`

	CallType   CallType `json:"callType"`
	CallerName string   `json:"callerName,omitempty"`

	// OrderTracking is caller-supplied correlation metadata, passed
	// through untouched.
	OrderTracking string `json:"orderTrackingId,omitempty"`

	Status     CallStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
}

// Involves reports whether pid is the caller or the receiver.
func (s *CallSession) Involves(pid ParticipantID) bool {
	return s.CallerID == pid || s.ReceiverID == pid
}

// Peer returns the other side of the session relative to pid.
func (s *CallSession) Peer(pid ParticipantID) ParticipantID {
	if s.CallerID == pid {
		return s.ReceiverID
	}
	return s.CallerID
}
