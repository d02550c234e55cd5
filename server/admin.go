package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/invopop/jsonschema"

	"soccermatch/match"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleMatches 比赛管理
// GET    /matches           列出全部比赛
// POST   /matches           开一场新比赛，可选 JSON {"seed":1,"roundIntervalMs":50}
// DELETE /matches?id=<id>   取消比赛
func HandleMatches(w http.ResponseWriter, r *http.Request) {
	mm := GetMatchManager()

	type startBody struct {
		Seed            *int64 `json:"seed,omitempty"`
		RoundIntervalMs *int   `json:"roundIntervalMs,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, mm.List())
		return
	case http.MethodPost:
		opts := mm.Defaults()
		if r.ContentLength != 0 {
			var body startBody
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
			if body.Seed != nil {
				opts.Seed = *body.Seed
			}
			if body.RoundIntervalMs != nil {
				if *body.RoundIntervalMs < 0 {
					http.Error(w, "roundIntervalMs must be >= 0", http.StatusBadRequest)
					return
				}
				opts.RoundInterval = time.Duration(*body.RoundIntervalMs) * time.Millisecond
			}
		}
		s, err := mm.StartMatch(opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, s.Info())
		return
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if err := mm.Stop(id); err != nil {
			if errors.Is(err, ErrUnknownMatch) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		Log.Infof("match stop requested: id=%s", id)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
}

// HandleMetrics 输出指定比赛的运行指标
// GET /metrics?match=<id>，match 为空时取最近一场
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	mm := GetMatchManager()
	var (
		s   *Session
		err error
	)
	if id := r.URL.Query().Get("match"); id != "" {
		s, err = mm.Get(id)
	} else {
		s, err = mm.Latest()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	info := s.Info()
	payload := map[string]any{
		"match":   info.ID,
		"state":   info.State,
		"round":   info.Round,
		"score":   info.Score,
		"viewers": s.Viewers(),
		"metrics": s.Metrics().Snapshot(),
	}
	writeJSON(w, http.StatusOK, payload)
}

// RoundSchema 回合记录（观众推送的 round 帧 payload）的 JSON Schema
func RoundSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(match.RoundRecord))
	schema.Title = "Soccer Match Round Record"
	schema.Description = "Per-round record published on the live feed as the payload of a \"round\" frame."
	return schema
}

// HandleSchema GET /schema
func HandleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, RoundSchema())
}
