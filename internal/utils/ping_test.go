package utils

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingService(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NoError(t, PingService("http://"+ln.Addr().String(), time.Second))
	assert.Error(t, PingService("http://127.0.0.1:1", time.Second))
	assert.ErrorContains(t, PingService("not a url", time.Second), "missing host")
}
