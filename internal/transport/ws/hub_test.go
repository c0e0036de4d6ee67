package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"storyfusion/internal/platform/logger"
	"storyfusion/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "outbox closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestHub_BroadcastOnlyReachesTopic(t *testing.T) {
	hub := NewHub(logger.Nop())
	defer hub.Close()

	answers := NewConnection(service.TopicAnswers)
	nouns := NewConnection(service.TopicNouns)
	hub.Register(answers)
	hub.Register(nouns)

	hub.Broadcast(service.TopicAnswers, service.EventAnswerSubmitted, map[string]int{"questionKey": 3})

	msg := receive(t, answers)
	assert.Equal(t, MessageType(service.EventAnswerSubmitted), msg.Type)
	assert.JSONEq(t, `{"questionKey":3}`, string(msg.Payload))

	select {
	case <-nouns.Send:
		t.Fatal("nouns subscriber got an answers event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterAndClose(t *testing.T) {
	hub := NewHub(logger.Nop())

	a := NewConnection(service.TopicPredictions)
	b := NewConnection(service.TopicPredictions)
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.Subscribers(service.TopicPredictions) == 2 }, time.Second, 5*time.Millisecond)

	hub.Unregister(a)
	_, ok := <-a.Send
	assert.False(t, ok, "unregister closes the outbox")

	hub.Close()
	_, ok = <-b.Send
	assert.False(t, ok, "close closes remaining outboxes")

	// calls after close return at once
	hub.Close()
	hub.Unregister(b)
	hub.Broadcast(service.TopicPredictions, "late", nil)
	late := NewConnection(service.TopicPredictions)
	hub.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}

func TestHandler_Subscribe(t *testing.T) {
	hub := NewHub(logger.Nop())
	defer hub.Close()

	r := mux.NewRouter()
	r.HandleFunc("/ws/{topic}", NewHandler(hub, logger.Nop()).Subscribe)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + service.TopicNouns
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(service.TopicNouns) == 1 }, time.Second, 5*time.Millisecond)
	hub.Broadcast(service.TopicNouns, service.EventNounsCleared, map[string]int{"deletedCount": 2})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, MessageType(service.EventNounsCleared), msg.Type)

	client.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(service.TopicNouns) == 0 }, time.Second, 5*time.Millisecond)
}
