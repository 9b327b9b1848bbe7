//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "loanassist/pkg/platform/audit"
	"loanassist/pkg/testutil/containers"
)

func TestSink_ProducesToBroker(t *testing.T) {
	broker := containers.NewKafkaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	topic := "loanassist.audit." + uuid.NewString()
	client, err := NewClient(broker.Brokers, topic)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	require.NoError(t, EnsureTopic(ctx, client, topic, 1, 1))
	// Creating the topic twice is not an error.
	require.NoError(t, EnsureTopic(ctx, client, topic, 1, 1))

	decisionID := uuid.NewString()
	score := 0.62
	require.NoError(t, New(client, topic).Append(ctx, audit.Event{
		ID:           uuid.New(),
		Action:       audit.ActionDecisionMade,
		DecisionID:   decisionID,
		Outcome:      "decided",
		Class:        "Approved",
		Score:        &score,
		ModelVersion: "2025.03",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	var records []*kgo.Record
	for len(records) == 0 && ctx.Err() == nil {
		fetches := consumer.PollFetches(ctx)
		require.Empty(t, fetches.Errors())
		records = append(records, fetches.Records()...)
	}
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, decisionID, string(record.Key))
	var event audit.Event
	require.NoError(t, json.Unmarshal(record.Value, &event))
	assert.Equal(t, audit.ActionDecisionMade, event.Action)
	assert.Equal(t, audit.CategoryCompliance, event.Category)
	assert.InDelta(t, 0.62, *event.Score, 1e-9)
}
