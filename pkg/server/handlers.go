package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/embedchat-ai/embedchat/pkg/cache"
	"github.com/embedchat-ai/embedchat/pkg/models"
	"github.com/embedchat-ai/embedchat/pkg/wikipedia"
)

const cacheHeader = "X-Embedchat-Cache"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	r.Body.Close()

	var req models.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeJSONError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" {
		writeJSONError(w, http.StatusBadRequest, "last message must be a user turn")
		return
	}

	// Cache check. The key fingerprints only the recent turns, so a repeat
	// of the same exchange hits even under a longer history.
	key := cache.DeriveKey(req.Messages)
	if s.deps.Responses != nil {
		if reply, ok := s.deps.Responses.Get(key); ok {
			s.respondChat(w, r, req, reply, true, "")
			return
		}
	}

	background, source := s.lookupBackground(r.Context(), last.Content)

	reply, err := s.deps.Model.Complete(r.Context(), req.Messages, background)
	if err != nil {
		s.log.Error("model call failed", "err", err)
		writeJSONError(w, http.StatusBadGateway, "model unavailable")
		return
	}

	if s.deps.Responses != nil {
		s.deps.Responses.Set(key, reply)
	}
	s.respondChat(w, r, req, reply, false, source)
}

// lookupBackground fetches Wikipedia context for factual questions, going
// through the lookup cache first. Lookup failures only skip enrichment.
func (s *Server) lookupBackground(ctx context.Context, question string) (background, source string) {
	if s.deps.Wiki == nil || s.deps.WikiLookups == nil || !wikipedia.Worthwhile(question) {
		return "", ""
	}

	qkey := "wiki:" + strings.ToLower(strings.TrimSpace(question))
	result, ok := s.deps.WikiLookups.Get(qkey)
	if !ok {
		var err error
		result, err = s.deps.Wiki.Lookup(ctx, question)
		if err != nil {
			if !errors.Is(err, wikipedia.ErrNoResult) {
				s.log.Warn("wikipedia lookup failed", "err", err)
			}
			return "", ""
		}
		s.deps.WikiLookups.Set(qkey, result)
	}
	return result.Title + ": " + result.Extract, "model+wikipedia"
}

func (s *Server) respondChat(w http.ResponseWriter, r *http.Request, req models.ChatRequest, reply string, cached bool, source string) {
	if source == "" {
		source = "model"
	}

	conversationID := req.ConversationID
	if s.deps.Transcripts != nil {
		id, err := s.deps.Transcripts.Append(r.Context(), conversationID, []models.ChatMessage{
			req.Messages[len(req.Messages)-1],
			{Role: "assistant", Content: reply},
		}, cached)
		if err != nil {
			s.log.Warn("transcript append failed", "err", err)
		} else {
			conversationID = id
		}
	}

	resp := models.ChatResponse{
		ConversationID: conversationID,
		Reply:          reply,
		Cached:         cached,
		Source:         source,
	}
	body, err := json.Marshal(resp)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	if cached {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.deps.Responses != nil {
		if msg, ok := s.deps.Responses.Get(welcomeKey); ok {
			w.Header().Set(cacheHeader, "hit")
			body, _ := json.Marshal(models.WelcomeResponse{Message: msg})
			writeJSON(w, http.StatusOK, body)
			return
		}
	}

	msg, err := s.deps.Model.Welcome(r.Context(), s.cfg.Widget.WelcomePrompt)
	if err != nil {
		s.log.Error("welcome generation failed", "err", err)
		writeJSONError(w, http.StatusBadGateway, "model unavailable")
		return
	}
	if s.deps.Responses != nil {
		s.deps.Responses.Set(welcomeKey, msg)
	}

	w.Header().Set(cacheHeader, "miss")
	body, _ := json.Marshal(models.WelcomeResponse{Message: msg})
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats := make(map[string]models.CacheStats)
	if s.deps.Responses != nil {
		stats["responses"] = s.deps.Responses.Stats()
	}
	if s.deps.WikiLookups != nil {
		stats["wikipedia"] = s.deps.WikiLookups.Stats()
	}

	body, err := json.Marshal(stats)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode stats")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.deps.Responses != nil {
		s.deps.Responses.Clear()
	}
	if s.deps.WikiLookups != nil {
		s.deps.WikiLookups.Clear()
	}
	s.log.Info("caches cleared")
	writeJSON(w, http.StatusOK, []byte(`{"cleared":true}`))
}

func (s *Server) handleLoaderJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(s.deps.Widget.LoaderJS())
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.deps.Widget.ChatHTML())
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.deps.Widget.LandingHTML())
}
