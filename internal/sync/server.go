package sync

import (
	"bufio"
	"net"
	"strings"

	"github.com/rs/zerolog"
)

// Server accepts long-lived TCP clients that watch the event feed as JSON
// lines. The only command a client may send is "SUB <user_id>" to narrow the
// feed to one user; everything else is ignored.
type Server struct {
	Addr string
	Hub  *Hub

	log zerolog.Logger
	ln  net.Listener
}

func NewServer(addr string, hub *Hub, log zerolog.Logger) *Server {
	return &Server{
		Addr: addr,
		Hub:  hub,
		log:  log.With().Str("component", "sync-tcp").Logger(),
	}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info().Str("addr", s.Addr).Msg("sync listener started")

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		s.Hub.Add(conn)
		s.Hub.Welcome(conn)
		s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer func() {
		s.Hub.Remove(conn)
		s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if user, ok := strings.CutPrefix(line, "SUB "); ok {
			user = strings.TrimSpace(user)
			s.Hub.SetFilter(conn, user)
			s.log.Debug().Str("user", user).Msg("client subscribed")
		}
	}
}

func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
