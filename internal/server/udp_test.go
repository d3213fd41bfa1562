package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

func startUDP(t *testing.T) (*UDPListener, *net.UDPConn, *zoom.Queue) {
	t.Helper()
	queue := zoom.NewQueue(8)
	l := NewUDPListener("127.0.0.1", 0, queue)
	require.NoError(t, l.Start())
	t.Cleanup(func() { _ = l.Close() })

	addr, err := net.ResolveUDPAddr("udp", l.Addr())
	require.NoError(t, err)
	sender, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sender.Close() })

	return l, sender, queue
}

func waitForCommands(t *testing.T, queue *zoom.Queue, n int) []zoom.Command {
	t.Helper()
	var cmds []zoom.Command
	require.Eventually(t, func() bool {
		cmds = append(cmds, queue.Drain()...)
		return len(cmds) >= n
	}, 2*time.Second, 10*time.Millisecond)
	return cmds
}

func TestUDPListenerSetsOverride(t *testing.T) {
	_, sender, queue := startUDP(t)

	_, err := sender.Write([]byte("640 360"))
	require.NoError(t, err)

	cmds := waitForCommands(t, queue, 1)
	assert.Equal(t, zoom.CmdSetMouseOverride, cmds[0].Type)
	assert.Equal(t, 640.0, cmds[0].X)
	assert.Equal(t, 360.0, cmds[0].Y)
}

func TestUDPListenerClearsOverride(t *testing.T) {
	_, sender, queue := startUDP(t)

	_, err := sender.Write([]byte("clear\n"))
	require.NoError(t, err)

	cmds := waitForCommands(t, queue, 1)
	assert.Equal(t, zoom.CmdClearMouseOverride, cmds[0].Type)
}

func TestUDPListenerIgnoresMalformedDatagrams(t *testing.T) {
	_, sender, queue := startUDP(t)

	for _, payload := range []string{"", "one", "a b", "1 2 3"} {
		_, err := sender.Write([]byte(payload))
		require.NoError(t, err)
	}
	_, err := sender.Write([]byte("10.5 20.5"))
	require.NoError(t, err)

	cmds := waitForCommands(t, queue, 1)
	require.Len(t, cmds, 1, "malformed datagrams produce no commands")
	assert.Equal(t, zoom.CmdSetMouseOverride, cmds[0].Type)
	assert.Equal(t, 10.5, cmds[0].X)
	assert.Equal(t, 20.5, cmds[0].Y)
}
