// Package ws serves remote cube clients over WebSocket. Every connection
// owns its own executor.
package ws

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/journal"
	"github.com/SeamusWaldron/rubik/internal/protocol"
	"github.com/SeamusWaldron/rubik/internal/session"
)

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 5 * time.Second
	outQueue         = 64
)

// Options configures a Server.
type Options struct {
	// Executor options applied to every connection.
	Cube []rubik.Option
	// Store records timed attempts when set.
	Store session.Store
	// Journal records every committed change when set.
	Journal *journal.Writer
	// IdleTimeout closes connections that stay silent. Zero means 60s.
	IdleTimeout time.Duration
	Logger      *log.Logger
}

// Server accepts WebSocket clients and gives each one its own executor,
// timed session and journal stream.
type Server struct {
	opts     Options
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server. Zero options fall back to a discarded log
// and a 60s idle timeout.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	return &Server{
		opts: opts,
		log:  opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// conn is the per-connection state.
type conn struct {
	id   string
	ws   *websocket.Conn
	ex   *rubik.Executor
	sess *session.Session
	out  chan []byte
	ctx  context.Context
	log  *log.Logger

	// requestID is the id of the request being handled. Executor
	// callbacks run on the reader goroutine inside handle, so replies
	// they send can echo it.
	requestID string
}

// Handler upgrades the request, expects HELLO within the handshake timeout
// and then serves the connection until it closes or goes idle.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		wsConn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Debug("upgrade failed", "err", err)
			return
		}
		defer wsConn.Close()

		hello, ok := s.handshake(wsConn)
		if !ok {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := s.newConn(ctx, wsConn, hello)
		c.log.Info("client connected", "name", hello.ClientName)
		defer c.log.Info("client disconnected")

		if err := writeJSON(wsConn, protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       c.id,
			State:           c.ex.State(),
			Solved:          c.ex.IsSolved(),
		}); err != nil {
			return
		}

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = wsConn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := wsConn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = wsConn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
			_, msg, err := wsConn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			c.handle(msg)
		}
	}
}

func (s *Server) handshake(wsConn *websocket.Conn) (protocol.HelloMsg, bool) {
	var hello protocol.HelloMsg
	_ = wsConn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := wsConn.ReadMessage()
	if err != nil {
		return hello, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(wsConn, "expected HELLO")
		return hello, false
	}
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(wsConn, "malformed HELLO")
		return hello, false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(wsConn, "bad protocol_version")
		return hello, false
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}
	return hello, true
}

func (s *Server) newConn(ctx context.Context, wsConn *websocket.Conn, hello protocol.HelloMsg) *conn {
	id := uuid.NewString()
	logger := s.log.With("session", id[:8])

	opts := append([]rubik.Option{}, s.opts.Cube...)
	opts = append(opts, rubik.WithAnimationHold(hello.AnimationHold), rubik.WithLogger(logger))

	c := &conn{
		id:  id,
		ws:  wsConn,
		ex:  rubik.NewExecutor(opts...),
		out: make(chan []byte, outQueue),
		ctx: ctx,
		log: logger,
	}

	c.ex.OnMove(func(ev rubik.MoveEvent) {
		c.send(protocol.MovedMsg{
			Type:      protocol.TypeMoved,
			RequestID: c.requestID,
			Move:      ev.Move.Notation(),
			MoveCount: ev.MoveCount,
			Solved:    ev.Solved,
			State:     c.ex.State(),
		})
	})
	c.ex.OnStateChange(func(ev rubik.StateEvent) {
		if ev.Cause == rubik.CauseMove {
			return
		}
		c.send(c.stateMsg(c.requestID, ev.Cause.String()))
	})

	c.sess = session.New(session.WithStore(s.opts.Store), session.WithLogger(logger))
	c.sess.Attach(c.ex)
	c.sess.OnFinish(func(res session.Result) {
		c.send(protocol.SolvedMsg{
			Type:      protocol.TypeSolved,
			RequestID: c.requestID,
			SolveID:   res.SolveID,
			TimeMs:    res.Duration.Milliseconds(),
			MoveCount: res.MoveCount,
			Best:      res.Best,
		})
	})

	if s.opts.Journal != nil {
		journal.Attach(c.ex, s.opts.Journal, c.id, logger)
	}
	return c
}

// handle runs one client request. Responses and notifications are queued
// in commit order.
func (c *conn) handle(msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		c.sendError("", protocol.ErrProtoBadRequest, "malformed json")
		return
	}
	if err := protocol.ValidateClient(msg); err != nil {
		c.sendError(base.RequestID, protocol.ErrProtoBadRequest, err.Error())
		return
	}
	c.requestID = base.RequestID
	defer func() { c.requestID = "" }()

	switch base.Type {
	case protocol.TypeMove:
		var m protocol.MoveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			c.sendError(base.RequestID, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		if _, err := c.ex.ApplyMove(m.Move); err != nil {
			c.send(protocol.NewError(base.RequestID, err))
		}

	case protocol.TypeScramble:
		var m protocol.ScrambleMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			c.sendError(base.RequestID, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		moves, err := c.scramble(m)
		if err != nil {
			c.send(protocol.NewError(base.RequestID, err))
			return
		}
		c.send(protocol.ScrambledMsg{Type: protocol.TypeScrambled, RequestID: base.RequestID, Moves: protocol.Notation(moves)})

	case protocol.TypeReset:
		if err := c.ex.Reset(); err != nil {
			c.send(protocol.NewError(base.RequestID, err))
		}

	case protocol.TypeSetState:
		var m protocol.SetStateMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			c.sendError(base.RequestID, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		st, err := protocol.ParseState(m.State)
		if err == nil {
			err = c.ex.SetState(st)
		}
		if err != nil {
			c.send(protocol.NewError(base.RequestID, err))
		}

	case protocol.TypeSettle:
		c.ex.Settle()
		c.send(c.stateMsg(base.RequestID, ""))

	case protocol.TypeGetState:
		c.send(c.stateMsg(base.RequestID, ""))

	case protocol.TypeSolution:
		moves, err := c.ex.Solution()
		if err != nil {
			c.send(protocol.NewError(base.RequestID, err))
			return
		}
		c.send(protocol.SolutionMsg{Type: protocol.TypeSolution, RequestID: base.RequestID, Moves: protocol.Notation(moves)})

	case protocol.TypeHello:
		c.sendError(base.RequestID, protocol.ErrProtoBadRequest, "already greeted")
	}
}

func (c *conn) scramble(m protocol.ScrambleMsg) ([]rubik.Move, error) {
	if len(m.Moves) == 0 {
		n := rubik.ScrambleDefault
		if m.Count != nil {
			n = *m.Count
		}
		return c.ex.Scramble(n)
	}
	moves := make([]rubik.Move, len(m.Moves))
	for i, tok := range m.Moves {
		mv, err := rubik.ParseMove(tok)
		if err != nil {
			return nil, err
		}
		moves[i] = mv
	}
	if err := c.ex.ScrambleWith(moves); err != nil {
		return nil, err
	}
	return moves, nil
}

func (c *conn) stateMsg(requestID, cause string) protocol.StateMsg {
	st := c.ex.State()
	return protocol.StateMsg{
		Type:      protocol.TypeState,
		RequestID: requestID,
		Cause:     cause,
		State:     st,
		Solved:    st.IsSolved(),
		MoveCount: c.ex.MoveCount(),
		Phase:     st.Phase().String(),
		Status:    c.ex.Status().String(),
	}
}

func (c *conn) sendError(requestID, code, message string) {
	c.send(protocol.ErrorMsg{Type: protocol.TypeError, RequestID: requestID, Code: code, Message: message})
}

func (c *conn) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error("cannot encode message", "err", err)
		return
	}
	select {
	case c.out <- b:
	case <-c.ctx.Done():
	}
}

func closeWith(wsConn *websocket.Conn, reason string) {
	_ = wsConn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
		time.Now().Add(time.Second))
}

func writeJSON(wsConn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = wsConn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return wsConn.WriteMessage(websocket.TextMessage, b)
}
