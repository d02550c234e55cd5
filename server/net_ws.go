package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ClientConn 负责发送（写）数据到观众的轻量包装。
// Enqueue 与 Close 只在所属 Session 的锁内调用
type ClientConn struct {
	ws     *websocket.Conn
	send   chan outFrame
	closed bool
}

type outFrame struct {
	kind int // websocket.TextMessage / websocket.BinaryMessage
	data []byte
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan outFrame, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃），返回是否入队
func (c *ClientConn) Enqueue(f Format, b []byte) bool {
	if c.closed {
		return false
	}
	kind := websocket.TextMessage
	if f == FormatMsgpack {
		kind = websocket.BinaryMessage
	}
	select {
	case c.send <- outFrame{kind: kind, data: b}:
		return true
	default:
		// 为了实时性，丢弃本帧（防止阻塞回合推进）
		return false
	}
}

// Close 关闭发送队列，写协程发完剩余消息后关闭连接
func (c *ClientConn) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(msg.kind, msg.data); err != nil {
			return
		}
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over"),
		time.Now().Add(time.Second))
}

// readPump 读取观众命令；连接断开时通知比赛在回合边界移除该观众
func (c *ClientConn) readPump(s *Session, id ViewerID) {
	defer c.ws.Close()
	defer s.RequestLeave(id, c)
	c.ws.SetReadLimit(1 << 16)
	_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		var im InputMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			s.SendError(id, "malformed command")
			continue
		}
		switch ParseCommand(im) {
		case CmdSnapshot:
			s.SendSnapshot(id)
		default:
			s.SendError(id, "unknown command "+im.Type)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS 观众接入：?match=<id>&format=json|msgpack&viewer=alice
// match 为空时订阅最近开始的一场
func HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := ParseFormat(q.Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mm := GetMatchManager()
	var s *Session
	if id := q.Get("match"); id != "" {
		s, err = mm.Get(id)
	} else {
		s, err = mm.Latest()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	viewerID := ViewerID(q.Get("viewer"))
	if viewerID == "" {
		viewerID = ViewerID(uuid.NewString())
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	s.Join(&Viewer{ID: viewerID, Format: format, Conn: client})
	Log.Infof("viewer joined: match=%s viewer=%s format=%s", s.ID, viewerID, format)

	go client.writePump()
	go client.readPump(s, viewerID)
}
