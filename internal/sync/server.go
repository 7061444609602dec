package sync

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"pricecompare/internal/logging"
)

const subscribeTimeout = 10 * time.Second

type subscribeMessage struct {
	Token string `json:"token"`
}

// Server accepts line-delimited JSON subscribers over TCP. A client's first
// line must be {"token": "..."}.
type Server struct {
	Addr    string
	Hub     *Hub
	Resolve Resolver

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub, resolve Resolver) *Server {
	return &Server{Addr: addr, Hub: hub, Resolve: resolve}
}

func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	logging.Logger().Info("[tcp-sync] listening", "addr", ln.Addr().String())
	return nil
}

// ListenAddr reports the bound address once Listen has succeeded.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) Run() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("sync: server not listening")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(c net.Conn) {
	log := logging.Logger()

	sc := bufio.NewScanner(c)
	_ = c.SetReadDeadline(time.Now().Add(subscribeTimeout))
	profileID, err := s.subscribe(sc)
	if err != nil {
		_, _ = c.Write([]byte("{\"type\":\"error\",\"error\":\"invalid token\"}\n"))
		_ = c.Close()
		log.Info("[tcp-sync] rejected client", "remote", c.RemoteAddr().String(), "err", err)
		return
	}
	_ = c.SetReadDeadline(time.Time{})

	s.Hub.Add(c, profileID)
	s.Hub.Welcome(c, profileID)
	log.Info("[tcp-sync] client connected", "remote", c.RemoteAddr().String(), "profile", profileID)

	defer func() {
		s.Hub.Remove(c)
		log.Info("[tcp-sync] client disconnected", "remote", c.RemoteAddr().String())
	}()

	// Keep the connection alive; anything after the subscribe line is ignored.
	for sc.Scan() {
	}
}

func (s *Server) subscribe(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("sync: no subscribe line")
	}
	var msg subscribeMessage
	if err := json.Unmarshal(sc.Bytes(), &msg); err != nil {
		return "", err
	}
	token := strings.TrimSpace(msg.Token)
	if token == "" || s.Resolve == nil {
		return "", errors.New("sync: token required")
	}
	return s.Resolve(token)
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
