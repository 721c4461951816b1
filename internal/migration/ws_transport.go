package migration

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// WSTransport implements Transport over a full mesh of WebSocket
// connections, one per peer pair, for islands running as separate
// processes. Connection setup follows a fixed convention to avoid a
// dial/accept race: the lower-ranked peer in a pair dials, the
// higher-ranked peer listens and accepts.
type WSTransport struct {
	rank int
	size int

	mu    sync.Mutex
	conns map[int]*websocket.Conn

	inbox  chan []byte
	server *http.Server
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// DialMesh starts listening on listenAddr and connects to every peer in
// peerAddrs whose rank is greater than this process's rank, retrying
// each dial until it succeeds or dialTimeout elapses. peerAddrs is
// indexed by rank; peerAddrs[rank] is unused (it is this process's own
// address).
func DialMesh(rank int, listenAddr string, peerAddrs []string, dialTimeout time.Duration) (*WSTransport, error) {
	t := &WSTransport{
		rank:  rank,
		size:  len(peerAddrs),
		conns: make(map[int]*websocket.Conn),
		inbox: make(chan []byte, 8),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/migrate", t.handleAccept)
	t.server = &http.Server{Addr: listenAddr, Handler: mux}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("migration: listen on %s: %w", listenAddr, err)
	}

	go func() {
		_ = t.server.Serve(ln)
	}()

	g, _ := errgroup.WithContext(context.Background())

	for dest, addr := range peerAddrs {
		if dest <= rank {
			continue // peers at or below our rank dial us instead
		}

		dest, addr := dest, addr
		g.Go(func() error {
			return t.dialPeer(dest, addr, dialTimeout)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *WSTransport) dialPeer(dest int, addr string, timeout time.Duration) error {
	url := fmt.Sprintf("ws://%s/migrate", addr)
	deadline := time.Now().Add(timeout)

	var conn *websocket.Conn

	for {
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			conn = c
			break
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("migration: dial rank %d at %s: %w", dest, addr, err)
		}

		time.Sleep(100 * time.Millisecond)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(strconv.Itoa(t.rank))); err != nil {
		return fmt.Errorf("migration: handshake with rank %d: %w", dest, err)
	}

	t.mu.Lock()
	t.conns[dest] = conn
	t.mu.Unlock()

	go t.readLoop(conn)

	return nil
}

func (t *WSTransport) handleAccept(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return
	}

	remoteRank, err := strconv.Atoi(string(msg))
	if err != nil {
		conn.Close()
		return
	}

	t.mu.Lock()
	t.conns[remoteRank] = conn
	t.mu.Unlock()

	go t.readLoop(conn)
}

func (t *WSTransport) readLoop(conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if msgType != websocket.BinaryMessage {
			continue
		}

		select {
		case t.inbox <- data:
		default:
			// Transport-level slot is busy; drop, mirroring the engine's
			// own single-slot policy one layer down.
		}
	}
}

func (t *WSTransport) Rank() int { return t.rank }
func (t *WSTransport) Size() int { return t.size }

func (t *WSTransport) PostSend(buf []byte, dest, tag int) (Request, error) {
	t.mu.Lock()
	conn, ok := t.conns[dest]
	t.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("migration: no connection to rank %d", dest)
	}

	req := &asyncRequest{}
	payload := append([]byte(nil), buf...)

	go func() {
		req.complete(conn.WriteMessage(websocket.BinaryMessage, payload))
	}()

	return req, nil
}

func (t *WSTransport) PostRecv(buf []byte) (Request, error) {
	req := &asyncRequest{}

	go func() {
		data := <-t.inbox
		copy(buf, data)
		req.complete(nil)
	}()

	return req, nil
}

// Close tears down every connection and stops accepting new ones.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, conn := range t.conns {
		conn.Close()
	}

	return t.server.Close()
}
