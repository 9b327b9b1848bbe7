package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "loanassist/pkg/platform/audit"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		p.records = append(p.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func TestSink_AppendProducesKeyedJSON(t *testing.T) {
	producer := &recordingProducer{}
	sink := New(producer, "loan-audit")
	score := 0.62

	err := sink.Append(context.Background(), audit.Event{
		Action:     audit.ActionDecisionMade,
		DecisionID: "d-1",
		Outcome:    "decided",
		Class:      "Approved",
		Score:      &score,
	})
	require.NoError(t, err)
	require.Len(t, producer.records, 1)

	record := producer.records[0]
	assert.Equal(t, "loan-audit", record.Topic)
	assert.Equal(t, []byte("d-1"), record.Key)

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(record.Value, &decoded))
	assert.Equal(t, audit.ActionDecisionMade, decoded.Action)
	assert.Equal(t, audit.CategoryCompliance, decoded.Category)
	require.NotNil(t, decoded.Score)
	assert.InDelta(t, 0.62, *decoded.Score, 1e-9)

	headers := map[string]string{}
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "decision_made", headers["action"])
	assert.Equal(t, "compliance", headers["category"])
}

func TestSink_AppendReturnsProduceError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker not available")}
	sink := New(producer, "loan-audit")

	err := sink.Append(context.Background(), audit.Event{Action: audit.ActionScoringFailed, DecisionID: "d-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker not available")
}
