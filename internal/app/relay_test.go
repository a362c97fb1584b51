package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"callbridge/internal/core"
	"callbridge/internal/domain"
)

type fakeConn struct {
	frames  []core.Frame
	sendErr error
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func TestRelay_SendToAttachedConnection(t *testing.T) {
	r := NewRelay()
	fc := &fakeConn{}
	r.Attach("c1", fc)

	r.Send("c1", map[string]string{"type": "pong"})
	require.Len(t, fc.frames, 1)
	require.JSONEq(t, `{"type":"pong"}`, string(fc.frames[0]))
}

func TestRelay_UnknownRecipientIsSilentlyDropped(t *testing.T) {
	r := NewRelay()
	// must not panic or surface anything
	r.Send("ghost", map[string]string{"type": "pong"})
	r.Forward("ghost", core.Frame(`{}`))
}

func TestRelay_SendFailureIsSilentlyDropped(t *testing.T) {
	r := NewRelay()
	fc := &fakeConn{sendErr: errors.New("backpressure")}
	r.Attach("c1", fc)

	r.Send("c1", map[string]string{"type": "pong"})
	require.Empty(t, fc.frames)
}

func TestRelay_DetachStopsDelivery(t *testing.T) {
	r := NewRelay()
	fc := &fakeConn{}
	r.Attach("c1", fc)
	r.Detach("c1")

	r.Send("c1", map[string]string{"type": "pong"})
	require.Empty(t, fc.frames)
}

func TestRelay_BroadcastHitsEveryLiveConnection(t *testing.T) {
	r := NewRelay()
	a, b := &fakeConn{}, &fakeConn{}
	r.Attach("a", a)
	r.Attach("b", b)

	r.Broadcast([]domain.ConnID{"a", "b", "gone"}, map[string]string{"type": "call_ready"})
	require.Len(t, a.frames, 1)
	require.Len(t, b.frames, 1)
}
