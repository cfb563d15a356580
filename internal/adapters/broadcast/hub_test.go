package broadcast

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/survea/api/internal/core/domain"
)

func snapshot() *domain.StatisticsSnapshot {
	return &domain.StatisticsSnapshot{SurveyID: uuid.New()}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	first := hub.Subscribe("survey-1")
	second := hub.Subscribe("survey-1")
	defer first.Close()
	defer second.Close()

	snap := snapshot()
	hub.Publish("survey-1", snap)

	assert.Same(t, snap, <-first.C)
	assert.Same(t, snap, <-second.C)
}

func TestPublishIsScopedToChannel(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("survey-1")
	defer sub.Close()

	hub.Publish("survey-2", snapshot())

	select {
	case <-sub.C:
		t.Fatal("subscriber received a snapshot for another survey")
	default:
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub()

	hub.Publish("survey-1", snapshot())

	assert.Equal(t, 0, hub.SubscriberCount("survey-1"))
}

func TestChannelLifecycle(t *testing.T) {
	hub := NewHub()

	first := hub.Subscribe("survey-1")
	second := hub.Subscribe("survey-1")
	require.Equal(t, 2, hub.SubscriberCount("survey-1"))

	first.Close()
	assert.Equal(t, 1, hub.SubscriberCount("survey-1"))

	second.Close()
	assert.Equal(t, 0, hub.SubscriberCount("survey-1"))
	assert.Empty(t, hub.channels, "channel registry entry released with its last subscriber")
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("survey-1")
	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.SubscriberCount("survey-1"))
}

func TestSlowSubscriberNeverBlocksPublisher(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("survey-1")
	defer sub.Close()

	// Overflow the buffer; the publisher must not block and the subscriber
	// simply loses the frames it could not keep up with.
	for i := 0; i < subscriberBuffer*3; i++ {
		hub.Publish("survey-1", snapshot())
	}

	assert.Len(t, sub.C, subscriberBuffer)
}
