package server

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// 推送给观众的消息类型
const (
	MsgRound = "round"
	MsgFinal = "final"
	MsgError = "error"
)

// Format 观众订阅的编码格式：json 文本帧或 msgpack 二进制帧
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat 解析查询参数，空值默认 json
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

// Encode 把 payload 包进 {t, p} 信封
func Encode(f Format, t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload")
	}
	switch f {
	case FormatMsgpack:
		pb, err := msgpack.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return msgpack.Marshal(msgpackEnvelope{T: t, P: pb})
	default:
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return json.Marshal(jsonEnvelope{T: t, P: pb})
	}
}

// Decode 解出信封类型和 payload
func Decode[T any](f Format, b []byte) (string, T, error) {
	var out T
	if len(b) == 0 {
		return "", out, fmt.Errorf("decode envelope: empty frame")
	}
	switch f {
	case FormatMsgpack:
		var e msgpackEnvelope
		if err := msgpack.Unmarshal(b, &e); err != nil {
			return "", out, err
		}
		if len(e.P) == 0 {
			return e.T, out, fmt.Errorf("empty payload for type %q", e.T)
		}
		err := msgpack.Unmarshal(e.P, &out)
		return e.T, out, err
	default:
		var e jsonEnvelope
		if err := json.Unmarshal(b, &e); err != nil {
			return "", out, err
		}
		if len(e.P) == 0 {
			return e.T, out, fmt.Errorf("empty payload for type %q", e.T)
		}
		err := json.Unmarshal(e.P, &out)
		return e.T, out, err
	}
}
