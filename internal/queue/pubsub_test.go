package queue_test

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AurisAASI/backend-core/internal/queue"
)

func newFakePubSub(t *testing.T) (*queue.PubSubPublisher, *pubsub.Client) {
	t.Helper()
	ctx := context.Background()

	srv := pstest.NewServer()
	t.Cleanup(func() { srv.Close() })

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	pub, err := queue.NewPubSub(ctx, "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { pub.Close() })

	// A second client on the same fake server for topic/subscription setup.
	admin, err := pubsub.NewClient(ctx, "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { admin.Close() })

	return pub, admin
}

func TestPubSubPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	pub, admin := newFakePubSub(t)

	topic, err := admin.CreateTopic(ctx, "website-scraper-tasks")
	require.NoError(t, err)
	sub, err := admin.CreateSubscription(ctx, "sub", pubsub.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	task := queue.WebsiteTask{CompanyID: "company-1", Website: "https://clinica.example.com.br"}
	require.NoError(t, pub.Publish(ctx, "website-scraper-tasks", task))

	recvCtx, cancel := context.WithCancel(ctx)
	var got queue.WebsiteTask
	err = sub.Receive(recvCtx, func(_ context.Context, msg *pubsub.Message) {
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		msg.Ack()
		cancel()
	})
	require.NoError(t, err)

	assert.Equal(t, "company-1", got.CompanyID)
	assert.Equal(t, "https://clinica.example.com.br", got.Website)
}

func TestPubSubPublisher_UnknownTopic(t *testing.T) {
	ctx := context.Background()
	pub, _ := newFakePubSub(t)

	err := pub.Publish(ctx, "no-such-topic", queue.FederalTask{CompanyID: "c", CNPJ: "11222333000181"})
	assert.Error(t, err)
}

func TestNoOpPublisher(t *testing.T) {
	t.Parallel()

	var p queue.NoOpPublisher
	assert.NoError(t, p.Publish(context.Background(), "any", queue.FederalTask{}))
	assert.NoError(t, p.Close())
}
