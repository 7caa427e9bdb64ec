// Package fakeservice runs an in-process n0t3b00k service for tests.
//
// It speaks the same byte stream as the real service, so clients using
// either framing can talk to it. Faults can be injected per command.
package fakeservice

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	greeting = "Welcome to the 1337 n0t3b00k!\n"
	prompt   = "> "
	helpText = "\nThis is a notebook service. Commands:\n" +
		"reg USER PW - Register new account\n" +
		"log USER PW - Login to account\n" +
		"set TEXT..... - Set a note\n" +
		"user  - List all users\n" +
		"list - List all notes\n" +
		"exit - Exit!\n" +
		"dump - Dump the database\n" +
		"get ID\n"
)

type Option func(*Server)

// WithGreeting replaces the banner (a trailing newline is added).
func WithGreeting(s string) Option {
	return func(srv *Server) { srv.greeting = s + "\n" }
}

// WithReply makes cmd answer with reply (a trailing newline is added)
// instead of executing it.
func WithReply(cmd, reply string) Option {
	return func(srv *Server) { srv.replies[cmd] = reply + "\n" }
}

// WithHangup closes the connection as soon as cmd is received.
func WithHangup(cmd string) Option {
	return func(srv *Server) { srv.hangups[cmd] = true }
}

// WithStall makes cmd never answer.
func WithStall(cmd string) Option {
	return func(srv *Server) { srv.stalls[cmd] = true }
}

// WithoutPrompt suppresses the prompt after the greeting.
func WithoutPrompt() Option {
	return func(srv *Server) { srv.noPrompt = true }
}

type Server struct {
	ln net.Listener

	greeting string
	replies  map[string]string
	hangups  map[string]bool
	stalls   map[string]bool
	noPrompt bool

	mu        sync.Mutex
	users     map[string]string
	userOrder []string
	notes     map[string]string
	userNotes map[string][]string
	commands  []string

	wg     sync.WaitGroup
	conns  map[net.Conn]struct{}
	closed chan struct{}
}

// Start listens on a random loopback port and serves until Close.
func Start(opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &Server{
		ln:        ln,
		greeting:  greeting,
		replies:   map[string]string{},
		hangups:   map[string]bool{},
		stalls:    map[string]bool{},
		users:     map[string]string{},
		notes:     map[string]string{},
		userNotes: map[string][]string{},
		conns:     map[net.Conn]struct{}{},
		closed:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.accept()
	return s, nil
}

// Host is the listening address without the port.
func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Commands returns the command words received so far, in order.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Note returns the stored text for id.
func (s *Server) Note(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return n, ok
}

// SetNote overwrites a stored note, simulating a service that lost data.
func (s *Server) SetNote(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[id] = text
}

// DeleteUser removes an account.
func (s *Server) DeleteUser(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, name)
	for i, u := range s.userOrder {
		if u == name {
			s.userOrder = append(s.userOrder[:i], s.userOrder[i+1:]...)
			break
		}
	}
}

func (s *Server) Close() error {
	close(s.closed)
	err := s.ln.Close()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				s.mu.Lock()
				delete(s.conns, conn)
				s.mu.Unlock()
				_ = conn.Close()
			}()
			s.serve(conn)
		}()
	}
}

func (s *Server) serve(conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(time.Minute))

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	var current string

	w.WriteString(s.greeting)
	if s.noPrompt {
		_ = w.Flush()
		<-s.closed
		return
	}

	for {
		w.WriteString(prompt)
		if err := w.Flush(); err != nil {
			return
		}

		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		cmd, arg, _ := strings.Cut(line, " ")

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		switch {
		case cmd == "exit":
			return
		case s.hangups[cmd]:
			return
		case s.stalls[cmd]:
			<-s.closed
			return
		}
		if reply, ok := s.replies[cmd]; ok {
			w.WriteString(reply)
			continue
		}

		w.WriteString(s.execute(cmd, arg, line, &current))
	}
}

// execute mirrors the service's dispatch: short or unknown input gets help.
func (s *Server) execute(cmd, arg, line string, current *string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line == "?" || len(line) < 4 {
		return helpText
	}

	switch cmd {
	case "user":
		var b strings.Builder
		for i, u := range s.userOrder {
			fmt.Fprintf(&b, "User %d: %s\n", i, u)
		}
		return b.String()
	case "reg":
		name, pw, _ := strings.Cut(arg, " ")
		if _, ok := s.users[name]; !ok {
			s.userOrder = append(s.userOrder, name)
		}
		s.users[name] = pw
		return "User successfully registered\n"
	case "log":
		name, pw, _ := strings.Cut(arg, " ")
		stored, ok := s.users[name]
		if !ok {
			return "User not found!\n"
		}
		if stored != pw {
			return "Wrong password!\n"
		}
		*current = name
		return "Successfully logged in!\n"
	case "set":
		if *current == "" {
			return "Not logged in!\n"
		}
		sum := md5.Sum([]byte(arg))
		id := hex.EncodeToString(sum[:])
		s.notes[id] = arg
		s.userNotes[*current] = append(s.userNotes[*current], id)
		return "Note saved! ID is " + id + "!\n"
	case "get":
		n, ok := s.notes[arg]
		if !ok {
			return "This note does not exist!\n"
		}
		return n + "\n"
	case "list":
		if *current == "" {
			return "Not logged in!\n"
		}
		var b strings.Builder
		for i, id := range s.userNotes[*current] {
			fmt.Fprintf(&b, "Note %d: %s\n", i, id)
		}
		return b.String()
	case "dump":
		var b strings.Builder
		b.WriteString("Users:\n")
		for _, u := range s.userOrder {
			b.WriteString(u + ":" + s.users[u] + "\n")
			for i, id := range s.userNotes[u] {
				b.WriteString("\t Note " + strconv.Itoa(i) + ":" + id + ":" + s.notes[id] + "\n")
			}
		}
		return b.String()
	default:
		return helpText
	}
}
