// Package transport supervises the TCP connection to the controller,
// reconnecting with exponential backoff whenever the connection drops.
// It has no knowledge of frame structure; it only ever hands raw bytes
// to a caller-supplied sink.
package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/cenkalti/backoff"
)

// readBufferSize is the chunk size used for each Read call on the
// connection; frames are reassembled downstream by the decoder's
// splitter, so this need not align with any frame boundary.
const readBufferSize = 4096

// Supervisor dials host:port and feeds every byte it reads to Sink,
// reconnecting indefinitely on failure.
type Supervisor struct {
	Host string
	Port int

	// Sink receives raw bytes read from the connection. It must not
	// block for long, since it is called directly from the read loop.
	Sink func([]byte)
}

// Run dials and reads until ctx is canceled. It never returns an error
// for a dropped connection; it only returns when ctx is done.
func (s *Supervisor) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, err := s.dial(ctx, addr)
		if err != nil {
			return err
		}
		if conn == nil {
			// ctx was canceled while dialing.
			return ctx.Err()
		}

		log.Printf("transport: connected to %s", addr)
		s.readLoop(ctx, conn)
		conn.Close()
		log.Printf("transport: disconnected from %s, reconnecting", addr)
	}
}

// dial connects to addr, retrying with exponential backoff until it
// succeeds or ctx is canceled.
func (s *Supervisor) dial(ctx context.Context, addr string) (net.Conn, error) {
	var conn net.Conn

	op := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		c, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			log.Printf("transport: dial %s failed: %v", addr, err)
			return err
		}
		conn = c
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0 // retry forever

	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Supervisor) readLoop(ctx context.Context, conn net.Conn) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.Sink(chunk)
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("transport: read error: %v", err)
			}
			return
		}
	}
}
