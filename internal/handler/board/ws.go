package board

import (
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"hyperboard/internal/board"
	"hyperboard/internal/consts"
	"hyperboard/pkg/logger"
	"net/http"
	"sync"
	"time"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

type message struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data"`
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Hub 维护所有 websocket 连接，排行榜每次抓取成功后广播给所有客户端
type Hub struct {
	svc      Leaderboard
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(svc Leaderboard) *Hub {
	return &Hub{
		svc:     svc,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Broadcast 推送新结果，客户端队列满时丢弃，不阻塞调用方
func (h *Hub) Broadcast(r *board.RankedResult) {
	data, err := json.Marshal(message{Action: consts.ActionBoardUpdate, Data: r})
	if err != nil {
		logger.Errorf("marshal board update: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("websocket upgrade: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		cl.close()
		conn.Close()
	}()

	// 连上后先推一次当前状态
	h.sendInitial(cl)

	go cl.writePump()
	cl.readPump()
}

func (h *Hub) sendInitial(c *client) {
	var msg message
	if r, ok := h.svc.Snapshot(0); ok {
		msg = message{Action: consts.ActionBoardUpdate, Data: r}
	} else {
		msg = message{Action: consts.ActionBoardState, Data: StatusResp{
			State:     h.svc.State().String(),
			LastState: h.svc.LastState().String(),
		}}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.send <- data
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只用来感知断开和处理 pong，客户端发来的消息忽略
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
