package server

import "strings"

// Command 观众入站命令
type Command int

const (
	CmdNone     Command = iota
	CmdSnapshot         // 立即重发最近一回合
)

// 入站命令的简单 JSON 结构（WebSocket 文本消息）
// 示例：{"type":"snapshot"}
type InputMessage struct {
	Type string `json:"type"`
}

// ParseCommand 把入站消息解释为命令，未知类型返回 CmdNone
func ParseCommand(im InputMessage) Command {
	switch strings.ToLower(im.Type) {
	case "snapshot":
		return CmdSnapshot
	default:
		return CmdNone
	}
}
