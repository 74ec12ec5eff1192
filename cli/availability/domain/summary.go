package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	msgpack "gopkg.in/vmihailenco/msgpack.v2"
)

// Summary итог одного цикла сверки
type Summary struct {
	CycleID     string    `json:"cycle_id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	FetchFailed bool      `json:"fetch_failed"`
	FetchError  string    `json:"fetch_error,omitempty"`
	Skipped     bool      `json:"skipped"`
	Updated     int       `json:"updated"`
	New         int       `json:"new"`
	Unavailable int       `json:"unavailable"`
	Available   int64     `json:"available"`
}

func (s Summary) HasChanges() bool {
	return s.New > 0 || s.Unavailable > 0
}

func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s Summary) String() string {
	if s.Skipped {
		return "Список транспорта пуст. Ничего не делаем"
	}

	var sb strings.Builder
	sb.WriteString("\n#############################")
	fmt.Fprintf(&sb, "\nAvailable vehicles: %d", s.Available)
	for _, stat := range []struct {
		key   string
		value int
	}{
		{"Updated", s.Updated},
		{"New", s.New},
		{"Unavailable", s.Unavailable},
	} {
		if stat.value > 0 {
			fmt.Fprintf(&sb, "\n\t * %s: %d", stat.key, stat.value)
		}
	}
	sb.WriteString("\n#############################")
	return sb.String()
}

func (s Summary) ToBytes() ([]byte, error) {
	return json.Marshal(s)
}

func (s Summary) ToMsgpack() ([]byte, error) {
	return msgpack.Marshal(map[string]interface{}{
		"cycle_id":     s.CycleID,
		"started_at":   s.StartedAt.UnixMilli(),
		"finished_at":  s.FinishedAt.UnixMilli(),
		"fetch_failed": s.FetchFailed,
		"fetch_error":  s.FetchError,
		"skipped":      s.Skipped,
		"updated":      s.Updated,
		"new":          s.New,
		"unavailable":  s.Unavailable,
		"available":    s.Available,
	})
}

// Journal хранит итог последнего завершённого цикла
type Journal struct {
	mu   sync.RWMutex
	last *Summary
}

func (j *Journal) Record(s Summary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.last = &s
}

func (j *Journal) Last() (Summary, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return Summary{}, false
	}
	return *j.last, true
}
