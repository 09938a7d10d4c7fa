package utils

import (
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	ActiveConnections  int64     `json:"activeConnections"`
	CreatedConnections int64     `json:"createdConnections"`
	ClosedConnections  int64     `json:"closedConnections"`
	CheckedOut         int64     `json:"checkedOut"`
	LastCheckTime      time.Time `json:"lastCheckTime"`
}

var (
	activeConnections  atomic.Int64
	createdConnections atomic.Int64
	closedConnections  atomic.Int64
	checkedOut         atomic.Int64
)

// NewPoolMonitor returns a driver pool monitor that feeds the connection
// counters reported by GetMongoMetrics.
func NewPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				createdConnections.Add(1)
				activeConnections.Add(1)
			case event.ConnectionClosed:
				closedConnections.Add(1)
				activeConnections.Add(-1)
			case event.GetSucceeded:
				checkedOut.Add(1)
			case event.ConnectionReturned:
				checkedOut.Add(-1)
			}
		},
	}
}

func GetMongoMetrics() MongoMetrics {
	return MongoMetrics{
		ActiveConnections:  activeConnections.Load(),
		CreatedConnections: createdConnections.Load(),
		ClosedConnections:  closedConnections.Load(),
		CheckedOut:         checkedOut.Load(),
		LastCheckTime:      time.Now().UTC(),
	}
}
