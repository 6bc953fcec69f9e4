package sync

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
)

// Server accepts TCP sync clients and registers them with the hub. Clients
// are write-only from the hub's point of view; anything they send is drained
// and dropped.
type Server struct {
	Addr string
	Hub  *Hub
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

// Run listens until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	log.Printf("[tcp-sync] listening on %s", s.Addr)

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	s.Hub.Add(conn)
	s.Hub.Welcome(conn)
	log.Printf("[tcp-sync] client connected: %s", conn.RemoteAddr())

	defer func() {
		s.Hub.Remove(conn)
		log.Printf("[tcp-sync] client disconnected: %s", conn.RemoteAddr())
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		// drain
	}
}
