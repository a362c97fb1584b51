package orch

import (
	"github.com/rs/zerolog/log"

	"callbridge/internal/app"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

// InitiateCall creates a ringing session and pushes incoming_call to
// the receiver. Receiver reachability is checked before the store
// commit so a failed initiate leaves no residual session. The caller's
// own reachability is deliberately not checked: the caller learns the
// outcome from the synchronous response.
func (o *Orchestrator) InitiateCall(caller, receiver domain.ParticipantID, meta app.InitiateMeta) (*domain.CallSession, string, error) {
	if _, ok := o.Presence.Lookup(receiver); !ok {
		return nil, "", app.ErrReceiverUnreachable
	}

	sess, err := o.Sessions.Initiate(caller, receiver, meta)
	if err != nil {
		return nil, "", err
	}

	o.sendTo(receiver, core.IncomingCall{
		Type:          core.EvIncomingCall,
		SessionID:     sess.ID,
		CallerID:      sess.CallerID,
		CallerName:    sess.CallerName,
		CallType:      sess.CallType,
		MediaChannel:  sess.MediaChannel,
		OrderTracking: sess.OrderTracking,
	})

	cred, err := o.Creds.Issue(sess.MediaChannel, caller)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("session", sess.ID).Msg("issue caller credential")
	}
	return sess, cred, nil
}

// AcceptCall transitions the session and notifies the caller.
func (o *Orchestrator) AcceptCall(sessionID string, actor domain.ParticipantID) (*domain.CallSession, string, error) {
	sess, err := o.Sessions.Accept(sessionID, actor)
	if err != nil {
		return nil, "", err
	}

	o.sendTo(sess.CallerID, core.CallAccepted{Type: core.EvCallAccepted, Session: sess})

	cred, err := o.Creds.Issue(sess.MediaChannel, actor)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("session", sess.ID).Msg("issue receiver credential")
	}
	return sess, cred, nil
}

// RejectCall drives the session to its terminal state and tells the
// caller. The record is gone by the time the notification leaves.
func (o *Orchestrator) RejectCall(sessionID string, actor domain.ParticipantID) error {
	sess, err := o.Sessions.Reject(sessionID, actor)
	if err != nil {
		return err
	}
	o.sendTo(sess.CallerID, core.CallRejected{Type: core.EvCallRejected, SessionID: sess.ID})
	return nil
}

// EndCall terminates the session and notifies both sides.
func (o *Orchestrator) EndCall(sessionID string, actor domain.ParticipantID) error {
	sess, err := o.Sessions.End(sessionID, actor)
	if err != nil {
		return err
	}
	ended := core.CallEnded{Type: core.EvCallEnded, SessionID: sess.ID}
	o.sendTo(sess.CallerID, ended)
	o.sendTo(sess.ReceiverID, ended)
	return nil
}

// RelayToPeer forwards an opaque session-scoped frame (status update,
// media chunk) to the other side of the sender's session. The frame is
// never inspected beyond the envelope the adapter already parsed.
func (o *Orchestrator) RelayToPeer(sender domain.ParticipantID, sessionID string, frame core.Frame) error {
	sess, ok := o.Sessions.Get(sessionID)
	if !ok {
		return app.ErrNotFound
	}
	if !sess.Involves(sender) {
		return app.ErrForbidden
	}
	peerConn, ok := o.Presence.Lookup(sess.Peer(sender))
	if !ok {
		// Best-effort: peer offline, drop.
		return nil
	}
	o.Relay.Forward(peerConn, frame)
	return nil
}

// ForwardSignal passes a WebRTC signaling frame (offer, answer, ICE
// candidate) to an explicitly named target connection. The sender
// learned the target handle from the join/ready broadcast.
func (o *Orchestrator) ForwardSignal(target domain.ConnID, frame core.Frame) {
	o.Relay.Forward(target, frame)
}
