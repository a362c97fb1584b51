package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"callbridge/internal/app"
	"callbridge/internal/app/orch"
	"callbridge/internal/auth"
	"callbridge/internal/config"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

type fakeConn struct{ frames []core.Frame }

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func newTestServer(t *testing.T) (*gin.Engine, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	creds, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	o := &orch.Orchestrator{
		Presence: app.NewPresenceRegistry(),
		Sessions: app.NewSessionStore(),
		Rooms:    app.NewRoomTable(),
		Relay:    app.NewRelay(),
		Creds:    creds,
	}
	cfg := &config.Config{Mode: "test", AllowedOrigins: []string{"*"}}
	return SetupRouter(context.Background(), cfg, o), o
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(o *orch.Orchestrator, conn domain.ConnID, pid domain.ParticipantID) *fakeConn {
	fc := &fakeConn{}
	o.Connect(conn, fc)
	o.Authenticate(conn, pid)
	return fc
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "OK", resp["status"])
	require.NotEmpty(t, resp["timestamp"])
}

func TestCreateAndCheckRoom(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		RoomCode string `json:"roomCode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.RoomCode, 6)

	// lookup is case-insensitive
	w = doJSON(t, r, http.MethodGet, "/api/rooms/"+strings.ToLower(created.RoomCode), "")
	require.Equal(t, http.StatusOK, w.Code)

	var check app.RoomCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	require.True(t, check.Valid)
	require.False(t, check.Full)
	require.Zero(t, check.ParticipantCount)

	w = doJSON(t, r, http.MethodGet, "/api/rooms/NOPE99", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &check))
	require.False(t, check.Valid)
}

func TestInitiateCall_Validation(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/calls", `{"callerId":"alice"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/calls", `not-json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitiateCall_ReceiverUnreachable(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/calls", `{"callerId":"alice","receiverId":"bob"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallLifecycleOverHTTP(t *testing.T) {
	r, o := newTestServer(t)
	register(o, "c1", "alice")
	bob := register(o, "c2", "bob")

	w := doJSON(t, r, http.MethodPost, "/api/calls",
		`{"callerId":"alice","receiverId":"bob","callType":"audio","callerName":"Alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var initiated struct {
		Session         domain.CallSession `json:"session"`
		MediaCredential string             `json:"mediaCredential"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initiated))
	require.Equal(t, domain.CallRinging, initiated.Session.Status)
	require.NotEmpty(t, initiated.MediaCredential)
	require.Len(t, bob.frames, 1)

	id := initiated.Session.ID

	w = doJSON(t, r, http.MethodPost, "/api/calls", `{"callerId":"alice","receiverId":"carol"}`)
	require.Equal(t, http.StatusNotFound, w.Code) // carol unreachable wins first

	// busy caller: 409
	register(o, "c3", "carol")
	w = doJSON(t, r, http.MethodPost, "/api/calls", `{"callerId":"alice","receiverId":"carol"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	// only the receiver may accept
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/accept", id), `{"userId":"alice"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/accept", id), `{"userId":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var accepted struct {
		Session domain.CallSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.Equal(t, domain.CallAccepted, accepted.Session.Status)

	// accept is not repeatable
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/accept", id), `{"userId":"bob"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/end", id), `{"userId":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// ended session is gone
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/end", id), `{"userId":"alice"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRejectCall(t *testing.T) {
	r, o := newTestServer(t)
	alice := register(o, "c1", "alice")
	register(o, "c2", "bob")

	w := doJSON(t, r, http.MethodPost, "/api/calls", `{"callerId":"alice","receiverId":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var initiated struct {
		Session domain.CallSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initiated))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/reject", initiated.Session.ID), `{"userId":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, alice.frames, 1)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/calls/%s/reject", initiated.Session.ID), `{"userId":"bob"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Mode: "test", AllowedOrigins: []string{"https://app.example.com"}}
	r := gin.New()
	r.Use(CORSMiddleware(cfg))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
