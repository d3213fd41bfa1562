package server

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	logger "github.com/capture-tools/zoomd/internal/logger"
	zoom "github.com/capture-tools/zoomd/internal/zoom"
)

// UDPListener accepts plain-text cursor override datagrams. Each datagram
// is either "x y" (two source-pixel coordinates) to set the override, or
// "clear" to return targeting to the live cursor. The format is kept
// trivial so overlay scripts can drive it with a one-line sender.
type UDPListener struct {
	addr  string
	queue *zoom.Queue
	conn  *net.UDPConn
	done  chan struct{}
}

// NewUDPListener creates a listener for host:port
func NewUDPListener(host string, port int, queue *zoom.Queue) *UDPListener {
	return &UDPListener{
		addr:  fmt.Sprintf("%s:%d", host, port),
		queue: queue,
		done:  make(chan struct{}),
	}
}

// Start binds the socket and begins reading datagrams in the background
func (l *UDPListener) Start() error {
	udpAddr, err := net.ResolveUDPAddr("udp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", l.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.addr, err)
	}
	l.conn = conn

	logger.Info("UDP override listener started", "addr", conn.LocalAddr().String())

	go l.readLoop()
	return nil
}

// Addr returns the bound address, or empty before Start
func (l *UDPListener) Addr() string {
	if l.conn == nil {
		return ""
	}
	return l.conn.LocalAddr().String()
}

// Close stops the listener
func (l *UDPListener) Close() error {
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	<-l.done
	return err
}

func (l *UDPListener) readLoop() {
	defer close(l.done)

	buf := make([]byte, 256)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			// Closed socket ends the loop.
			return
		}

		l.handleDatagram(strings.TrimSpace(string(buf[:n])))
	}
}

func (l *UDPListener) handleDatagram(text string) {
	if text == "" {
		return
	}

	if strings.EqualFold(text, "clear") {
		l.queue.Push(zoom.Command{Type: zoom.CmdClearMouseOverride})
		return
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		logger.Warn("ignoring malformed override datagram", "payload", text)
		return
	}

	x, errX := strconv.ParseFloat(fields[0], 64)
	y, errY := strconv.ParseFloat(fields[1], 64)
	if errX != nil || errY != nil {
		logger.Warn("ignoring non-numeric override datagram", "payload", text)
		return
	}

	l.queue.Push(zoom.Command{Type: zoom.CmdSetMouseOverride, X: x, Y: y})
}
