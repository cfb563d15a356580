// Package broadcast implements the in-process pub/sub fan-out for live survey
// results. Channels are keyed by survey id, created on first subscribe and
// dropped when their last subscriber leaves.
package broadcast

import (
	"sync"

	"github.com/survea/api/internal/core/domain"
)

// subscriberBuffer bounds how many unread snapshots a subscriber may lag
// behind. Publishes to a full buffer are dropped; publishers never block.
const subscriberBuffer = 8

type Hub struct {
	mu       sync.Mutex
	channels map[string]map[*Subscription]struct{}
}

// Subscription is one live viewer of a survey's results. Snapshots arrive on
// C until Close is called.
type Subscription struct {
	C chan *domain.StatisticsSnapshot

	hub      *Hub
	surveyID string
	once     sync.Once
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*Subscription]struct{}),
	}
}

func (h *Hub) Subscribe(surveyID string) *Subscription {
	sub := &Subscription{
		C:        make(chan *domain.StatisticsSnapshot, subscriberBuffer),
		hub:      h,
		surveyID: surveyID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[surveyID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.channels[surveyID] = subs
	}
	subs[sub] = struct{}{}

	return sub
}

// Publish delivers the snapshot to every current subscriber of the survey's
// channel. Fire-and-forget: a subscriber that cannot keep up loses the frame.
func (h *Hub) Publish(surveyID string, snapshot *domain.StatisticsSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.channels[surveyID] {
		select {
		case sub.C <- snapshot:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers the survey's channel has.
func (h *Hub) SubscriberCount(surveyID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels[surveyID])
}

// Close removes the subscription from its channel and releases the channel
// itself once no subscribers remain. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()

		subs, ok := h.channels[s.surveyID]
		if !ok {
			return
		}
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.channels, s.surveyID)
		}
	})
}
