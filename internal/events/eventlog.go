// Package events appends assessment lifecycle events to the event_log table
// for audit and debugging of candidate attempts.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"
)

const (
	TypeAssessmentStarted   = "AssessmentStarted"
	TypeAssessmentSubmitted = "AssessmentSubmitted"
	TypeAssessmentAbandoned = "AssessmentAbandoned"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

// Append writes one event row. data is marshalled to JSON; a nil data stores
// an empty object.
func (l *Log) Append(ctx context.Context, typ, key string, data any) error {
	payload := "{}"
	if data != nil {
		buf, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(buf)
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, payload, time.Now().Unix())
	return err
}

// Recent returns the newest events, optionally filtered by a substring match
// on type or key.
func (l *Log) Recent(ctx context.Context, q string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT "offset", typ, key, data, created_at FROM event_log
		 WHERE typ LIKE '%'||$1||'%' OR key LIKE '%'||$1||'%'
		 ORDER BY "offset" DESC LIMIT `+strconv.Itoa(limit), q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
