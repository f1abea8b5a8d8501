package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamscope/internal/messagebus"
	"scamscope/internal/models"
)

func setupNats(t *testing.T, port int) (*nats.Conn, *server.Server) {
	opts := natsserver.DefaultTestOptions
	opts.Port = port
	server := natsserver.RunServer(&opts)

	nc, err := nats.Connect("nats://127.0.0.1:" + strconv.Itoa(port))
	require.NoError(t, err, "Should connect to NATS")
	return nc, server
}

func setupWs(hub *Hub) *httptest.Server {
	handler := NewHandler(hub, slog.New(slog.DiscardHandler))
	wsServer := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	return wsServer
}

func setupIntegration(t *testing.T) (*messagebus.MessageBus, string, func()) {
	nc, server := setupNats(t, 8400)

	hub := NewHub(WithHubLogger(slog.New(slog.DiscardHandler)))
	wsServer := setupWs(hub)
	mb := messagebus.New(nc, nil)

	svc := NewNotificationService(
		hub,
		mb,
		WithLogger(slog.New(slog.DiscardHandler)),
	)

	svc.Start(context.Background())

	shutdown := func() {
		svc.Stop()
		server.Shutdown()
		nc.Close()
		wsServer.Close()
	}

	wsURL := "ws" + strings.TrimPrefix(wsServer.URL, "http")
	return mb, wsURL, shutdown
}

func TestNotificationService_CheckUpdateBroadcast_Integration(t *testing.T) {
	mb, wsURL, shutdown := setupIntegration(t)
	defer shutdown()

	time.Sleep(200 * time.Millisecond)

	var clients []*websocket.Conn

	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err, "Should connect WebSocket client %d", i+1)
		clients = append(clients, conn)
	}

	defer func() {
		for _, client := range clients {
			client.Close()
		}
	}()

	time.Sleep(100 * time.Millisecond)

	score := 15
	updateMsg := messagebus.CheckUpdateMessage{
		Type:      messagebus.CheckUpdateMessageType,
		CheckID:   "integration-check-123",
		Status:    "completed",
		RiskScore: &score,
		Report: &models.AnalysisReport{
			RequestedURL: "https://example.com/",
			DomainName:   "example.com",
			RiskScore:    15,
		},
	}

	err := mb.PublishCheckUpdate(context.Background(), updateMsg)
	require.NoError(t, err, "Should publish check update")

	time.Sleep(300 * time.Millisecond)

	// Check updates are global; every client sees them
	for i, client := range clients {
		client.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msgData, err := client.ReadMessage()
		require.NoError(t, err, "Client %d should receive check update message", i+1)

		var received messagebus.CheckUpdateMessage
		err = json.Unmarshal(msgData, &received)
		require.NoError(t, err, "Should unmarshal check update for client %d", i+1)

		assert.Equal(t, updateMsg.Type, received.Type, "Message type should match for client %d", i+1)
		assert.Equal(t, updateMsg.CheckID, received.CheckID, "Check ID should match for client %d", i+1)
		assert.Equal(t, updateMsg.Status, received.Status, "Status should match for client %d", i+1)
		require.NotNil(t, received.RiskScore, "Risk score should be present for client %d", i+1)
		assert.Equal(t, 15, *received.RiskScore, "Risk score should match for client %d", i+1)
		require.NotNil(t, received.Report, "Report should be present for client %d", i+1)
		assert.Equal(t, "example.com", received.Report.DomainName, "Domain should match for client %d", i+1)
	}
}

func TestNotificationService_ProgressGroupSubscription_Integration(t *testing.T) {
	mb, wsURL, shutdown := setupIntegration(t)
	defer shutdown()

	time.Sleep(200 * time.Millisecond)

	var clients []*websocket.Conn

	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err, "Should connect WebSocket client %d", i+1)
		clients = append(clients, conn)
	}

	defer func() {
		for _, client := range clients {
			client.Close()
		}
	}()

	time.Sleep(100 * time.Millisecond)

	// Subscribe first 2 clients to the target check
	subMsg := SubscriptionMessage{Action: "subscribe", Group: "target-check-456"}
	msgData, err := json.Marshal(subMsg)
	require.NoError(t, err, "Should marshal subscription message")

	for i := 0; i < 2; i++ {
		err = clients[i].WriteMessage(websocket.TextMessage, msgData)
		require.NoError(t, err, "Should send subscription for client %d", i+1)
	}

	// Client 3 remains unsubscribed
	time.Sleep(100 * time.Millisecond)

	progressMsg := messagebus.CheckProgressMessage{
		Type:    messagebus.CheckProgressMessageType,
		CheckID: "target-check-456",
		Percent: 34,
		Message: "Scanning common ports",
	}

	err = mb.PublishCheckProgress(context.Background(), progressMsg)
	require.NoError(t, err, "Should publish check progress")

	time.Sleep(300 * time.Millisecond)

	// Verify first 2 clients received the message (subscribed)
	for i := 0; i < 2; i++ {
		clients[i].SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msgData, err := clients[i].ReadMessage()
		require.NoError(t, err, "Subscribed client %d should receive progress", i+1)

		var received messagebus.CheckProgressMessage
		err = json.Unmarshal(msgData, &received)
		require.NoError(t, err, "Should unmarshal progress for client %d", i+1)

		assert.Equal(t, progressMsg.CheckID, received.CheckID, "Check ID should match for client %d", i+1)
		assert.Equal(t, progressMsg.Percent, received.Percent, "Percent should match for client %d", i+1)
		assert.Equal(t, progressMsg.Message, received.Message, "Message should match for client %d", i+1)
	}

	// Third client should NOT receive the message (unsubscribed)
	clients[2].SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _, err = clients[2].ReadMessage()
	assert.Error(t, err, "Unsubscribed client should not receive group-specific message")
}

func TestNotificationService_ProgressSequence_Integration(t *testing.T) {
	mb, wsURL, shutdown := setupIntegration(t)
	defer shutdown()

	time.Sleep(200 * time.Millisecond)

	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Should connect WebSocket client")
	defer client.Close()

	time.Sleep(100 * time.Millisecond)

	subMsg := SubscriptionMessage{Action: "subscribe", Group: "sequence-check"}
	msgData, err := json.Marshal(subMsg)
	require.NoError(t, err, "Should marshal subscription message")

	err = client.WriteMessage(websocket.TextMessage, msgData)
	require.NoError(t, err, "Should subscribe client")

	time.Sleep(200 * time.Millisecond)

	sequence := []messagebus.CheckProgressMessage{
		{CheckID: "sequence-check", Percent: 5, Message: "Looking up WHOIS records"},
		{CheckID: "sequence-check", Percent: 10, Message: "Checking domain registration details"},
		{CheckID: "sequence-check", Percent: 100, Message: "Analysis complete"},
	}

	for _, m := range sequence {
		err = mb.PublishCheckProgress(context.Background(), m)
		require.NoError(t, err, "Should publish progress emission")
	}

	time.Sleep(300 * time.Millisecond)

	// NATS preserves per-subject ordering, so emissions arrive in sequence
	for i, want := range sequence {
		client.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := client.ReadMessage()
		require.NoError(t, err, "Client should receive emission %d", i+1)

		var received messagebus.CheckProgressMessage
		err = json.Unmarshal(data, &received)
		require.NoError(t, err, "Should unmarshal emission %d", i+1)

		assert.Equal(t, want.Percent, received.Percent, "Percent should match for emission %d", i+1)
		assert.Equal(t, want.Message, received.Message, "Message should match for emission %d", i+1)
	}
}

func TestNotificationService_UnsubscribeGroup_Integration(t *testing.T) {
	mb, wsURL, shutdown := setupIntegration(t)
	defer shutdown()

	time.Sleep(200 * time.Millisecond)

	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Should connect WebSocket client")
	defer client.Close()

	time.Sleep(100 * time.Millisecond)

	subMsg := SubscriptionMessage{Action: "subscribe", Group: "unsubscribe-test-check"}
	msgData, err := json.Marshal(subMsg)
	require.NoError(t, err, "Should marshal subscription message")

	err = client.WriteMessage(websocket.TextMessage, msgData)
	require.NoError(t, err, "Should subscribe client")

	time.Sleep(200 * time.Millisecond)

	progressMsg := messagebus.CheckProgressMessage{
		CheckID: "unsubscribe-test-check",
		Percent: 40,
		Message: "Inspecting SSL certificate",
	}

	err = mb.PublishCheckProgress(context.Background(), progressMsg)
	require.NoError(t, err, "Should publish progress")

	time.Sleep(300 * time.Millisecond)

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, receivedData, err := client.ReadMessage()
	require.NoError(t, err, "Client should receive progress while subscribed")

	var received messagebus.CheckProgressMessage
	err = json.Unmarshal(receivedData, &received)
	require.NoError(t, err, "Should unmarshal progress")
	assert.Equal(t, progressMsg.Percent, received.Percent, "Percent should match")

	// Unsubscribe from the check
	unsubMsg := SubscriptionMessage{Action: "unsubscribe", Group: "unsubscribe-test-check"}
	unsubData, err := json.Marshal(unsubMsg)
	require.NoError(t, err, "Should marshal unsubscription message")

	err = client.WriteMessage(websocket.TextMessage, unsubData)
	require.NoError(t, err, "Should unsubscribe client")

	time.Sleep(200 * time.Millisecond)

	progressMsg2 := messagebus.CheckProgressMessage{
		CheckID: "unsubscribe-test-check",
		Percent: 46,
		Message: "Validating certificate chain",
	}

	err = mb.PublishCheckProgress(context.Background(), progressMsg2)
	require.NoError(t, err, "Should publish second progress emission")

	time.Sleep(300 * time.Millisecond)

	client.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _, err = client.ReadMessage()
	assert.Error(t, err, "Client should not receive progress after unsubscribing")
}
