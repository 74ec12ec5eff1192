package nats

import (
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct{}

func (report) ToBytes() ([]byte, error) { return []byte(`{"new":1}`), nil }

func TestConnectorPublishes(t *testing.T) {
	srv := natsserver.RunRandClientPortServer()
	defer srv.Shutdown()

	sub, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	defer sub.Close()

	received := make(chan []byte, 1)
	_, err = sub.Subscribe("availability", func(m *nats.Msg) { received <- m.Data })
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	c := Connector{}
	require.NoError(t, c.Init(map[string]string{"servers": srv.ClientURL(), "topic": "availability"}))
	defer c.Close()

	require.NoError(t, c.Save(report{}))

	select {
	case data := <-received:
		assert.Equal(t, `{"new":1}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("report was not published")
	}
}

func TestConnectorInitErrors(t *testing.T) {
	c := Connector{}
	assert.Error(t, c.Init(nil))
	assert.Error(t, c.Init(map[string]string{"servers": "nats://127.0.0.1:4222"}))
}
