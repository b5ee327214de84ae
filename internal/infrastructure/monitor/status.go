package monitor

import "time"

type Status struct {
	EventLog   bool      `json:"event_log"`
	EventCount int       `json:"event_count"`
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	QueueDepth int       `json:"queue_depth"`
	LastCheck  time.Time `json:"last_check"`
}
