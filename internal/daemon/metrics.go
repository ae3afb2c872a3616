package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks hub statistics using atomic operations for thread-safety
type Metrics struct {
	EventsPublished  atomic.Int64 // handed to the broker by this instance
	EventsReceived   atomic.Int64 // delivered by the broker
	EventsSent       atomic.Int64 // written to client queues
	EventsDropped    atomic.Int64 // lost to full queues
	BrokerErrors     atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncEventsPublished() { m.EventsPublished.Add(1) }
func (m *Metrics) IncEventsReceived()  { m.EventsReceived.Add(1) }
func (m *Metrics) IncEventsSent()      { m.EventsSent.Add(1) }
func (m *Metrics) IncEventsDropped()   { m.EventsDropped.Add(1) }
func (m *Metrics) IncBrokerErrors()    { m.BrokerErrors.Add(1) }

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsPublished  int64     `json:"events_published"`
	EventsReceived   int64     `json:"events_received"`
	EventsSent       int64     `json:"events_sent"`
	EventsDropped    int64     `json:"events_dropped"`
	BrokerErrors     int64     `json:"broker_errors"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsPublished:  m.EventsPublished.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsSent:       m.EventsSent.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		BrokerErrors:     m.BrokerErrors.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
