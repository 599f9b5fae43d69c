//go:build integration

package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("docker client unavailable: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("docker daemon unavailable: %v", err)
	}
}

func TestEventPublisher(t *testing.T) {
	skipWithoutDocker(t)
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx,
		"rabbitmq:3-management-alpine",
		testcontainers.WithWaitStrategy(wait.ForLog("Server startup complete")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.AmqpURL(ctx)
	require.NoError(t, err)

	conn, err := Connect(ctx, url, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	pub, err := NewEventPublisher(conn, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "", DefaultExchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	pub.Broadcast("session_updated", "session", map[string]string{"currentSceneId": "kampanya"})

	select {
	case d := <-deliveries:
		assert.Equal(t, "application/json", d.ContentType)
		assert.Equal(t, "session_updated", d.Type)
		assert.Equal(t, appID, d.AppId)
		var ev Event
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		assert.Equal(t, "session", ev.Topic)
		assert.JSONEq(t, `{"currentSceneId":"kampanya"}`, string(ev.Payload))
	case <-time.After(10 * time.Second):
		t.Fatal("no event delivered")
	}

}
