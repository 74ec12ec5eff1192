package tarantool_queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarantool/go-tarantool/queue"
	msgpack "gopkg.in/vmihailenco/msgpack.v2"
)

type fakeQueue struct {
	put []interface{}
	err error
}

func (q *fakeQueue) Put(data interface{}) (*queue.Task, error) {
	q.put = append(q.put, data)
	return nil, q.err
}

type report struct{}

func (report) ToBytes() ([]byte, error) { return []byte(`{"new":2}`), nil }

func (report) ToMsgpack() ([]byte, error) { return msgpack.Marshal(map[string]int{"new": 2}) }

type jsonReport struct{}

func (jsonReport) ToBytes() ([]byte, error) { return []byte(`{"new":2}`), nil }

func TestInitValidatesSettings(t *testing.T) {
	valid := func() map[string]string {
		return map[string]string{"queue": "cycle_reports", "max_recons": "5", "timeout": "1", "reconnect": "1"}
	}
	with := func(key, value string) map[string]string {
		cfg := valid()
		cfg[key] = value
		return cfg
	}

	tests := []struct {
		name string
		cfg  map[string]string
	}{
		{name: "Nil config", cfg: nil},
		{name: "Missing queue", cfg: with("queue", "")},
		{name: "Bad max_recons", cfg: with("max_recons", "x")},
		{name: "Bad timeout", cfg: with("timeout", "x")},
		{name: "Bad reconnect", cfg: with("reconnect", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Connector{}
			assert.Error(t, c.Init(tt.cfg))
		})
	}
}

func TestConnectOptions(t *testing.T) {
	opts, err := connectOptions(map[string]string{
		"max_recons": "5",
		"timeout":    "2",
		"reconnect":  "3",
		"user":       "guest",
		"password":   "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, opts.Timeout)
	assert.Equal(t, 3*time.Second, opts.Reconnect)
	assert.Equal(t, uint(5), opts.MaxReconnects)
	assert.Equal(t, "guest", opts.User)
	assert.Equal(t, "secret", opts.Pass)
}

func TestSaveUsesConfiguredFormat(t *testing.T) {
	packed, err := report{}.ToMsgpack()
	require.NoError(t, err)

	tests := []struct {
		name     string
		format   string
		expected []byte
	}{
		{name: "Msgpack", format: defaultFormat, expected: packed},
		{name: "JSON", format: "json", expected: []byte(`{"new":2}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQueue{}
			c := Connector{queue: q, format: tt.format}

			require.NoError(t, c.Save(report{}))
			require.Len(t, q.put, 1)
			assert.Equal(t, tt.expected, q.put[0])
		})
	}
}

func TestSaveErrors(t *testing.T) {
	q := &fakeQueue{}
	c := Connector{queue: q, format: defaultFormat}

	assert.Error(t, c.Save(nil))
	assert.Error(t, c.Save(jsonReport{}))
	assert.Empty(t, q.put)

	q.err = errors.New("queue is full")
	assert.Error(t, c.Save(report{}))
}

func TestCloseWithoutConnection(t *testing.T) {
	c := Connector{}
	assert.NoError(t, c.Close())
}
