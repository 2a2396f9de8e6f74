package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []AnalysisEvent
}

func (o *recordingObserver) OnEvent(_ context.Context, event AnalysisEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, AnalysisEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                { return "panicking" }

func TestEventPublisher_NotifyInOrder(t *testing.T) {
	r := require.New(t)
	publisher := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	publisher.Subscribe(panickingObserver{})
	publisher.Subscribe(first)
	publisher.Subscribe(second)

	publisher.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	publisher.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisCompleted})

	r.Len(first.events, 2)
	r.Len(second.events, 2)
	r.Equal(AnalysisStarted, first.events[0].EventType)
	r.Equal(AnalysisCompleted, first.events[1].EventType)
	r.False(first.events[0].Timestamp.IsZero())
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher()
	obs := &recordingObserver{name: "only"}
	publisher.Subscribe(obs)
	publisher.Unsubscribe(&recordingObserver{name: "only"})

	publisher.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	require.Empty(t, obs.events)
}

func TestLoggingObserver(t *testing.T) {
	r := require.New(t)
	var buf bytes.Buffer
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(&buf)

	obs := NewLoggingObserver(log)
	obs.OnEvent(context.Background(), AnalysisEvent{
		EventType:      AnalysisCompleted,
		Source:         SourceUpload,
		ProcessingTime: 42 * time.Millisecond,
		Success:        true,
		FoodType:       "Apple Pie",
		Freshness:      "Good",
	})

	var entry map[string]interface{}
	r.NoError(json.Unmarshal(buf.Bytes(), &entry))
	r.Equal("Food analysis completed", entry["msg"])
	r.Equal("Apple Pie", entry["food_type"])
	r.Equal("Good", entry["freshness"])
	r.Equal("upload", entry["source"])
	r.EqualValues(42, entry["processing_time_ms"])
}
