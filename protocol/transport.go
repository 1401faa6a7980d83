package protocol

import (
	"fmt"
	"net"
	"time"
)

const (
	// RequestBufferSize bounds a server-side datagram read.
	RequestBufferSize = 65000
	// ReplyBufferSize bounds a client-side reply read.
	ReplyBufferSize = 5000
	// ReplyTimeout caps the wait on a synchronous request.
	ReplyTimeout = time.Second
)

// Send transmits one request datagram to host. When block is set it waits
// up to ReplyTimeout for a single reply datagram and returns its payload;
// otherwise it returns immediately after the send (fire-and-forget).
// Timeouts and transport failures surface as errors for the caller to
// treat as a dropped update or a failed lookup.
func Send(host string, req Request, block bool) (string, error) {
	conn, err := net.Dial("udp", host)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", host, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(req.Encode())); err != nil {
		return "", fmt.Errorf("send %s: %w", req.Action, err)
	}
	if !block {
		return "", nil
	}

	if err := conn.SetReadDeadline(time.Now().Add(ReplyTimeout)); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}
	buf := make([]byte, ReplyBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("await %s reply: %w", req.Action, err)
	}
	return string(buf[:n]), nil
}
