// Package telegramtest provides an in-process fake of the Telegram Bot API
// for tests that drive a real *bot.Bot.
package telegramtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
)

// Token is accepted by the fake server.
const Token = "123456:TESTTOKEN"

// Call is one recorded Bot API request.
type Call struct {
	Method string
	Fields map[string]string
	// Files maps multipart file field names to their uploaded contents.
	Files map[string][]byte
}

// Server records every Bot API call and answers with canned successes.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	fail     map[string]bool
	updates  []json.RawMessage
	updateID int64
}

// NewServer starts a fake Bot API server closed at test cleanup.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{fail: make(map[string]bool)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Bot returns a client talking to the fake server.
func (s *Server) Bot(t *testing.T, opts ...bot.Option) *bot.Bot {
	t.Helper()
	b, err := bot.New(Token, append([]bot.Option{bot.WithServerURL(s.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}
	return b
}

// Fail makes every later call to method return a Bot API error.
func (s *Server) Fail(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = true
}

// EnqueueText queues a private-chat text message from chat 42 for the next
// getUpdates. A leading "/word" is marked as a bot_command entity the way
// Telegram clients send it.
func (s *Server) EnqueueText(text string) {
	msg := map[string]any{
		"message_id": 1,
		"date":       0,
		"chat":       map[string]any{"id": 42, "type": "private"},
		"from":       map[string]any{"id": 7, "is_bot": false, "first_name": "Tester"},
		"text":       text,
	}
	if strings.HasPrefix(text, "/") {
		end := strings.IndexAny(text, " \n\t")
		if end < 0 {
			end = len(text)
		}
		msg["entities"] = []map[string]any{{"type": "bot_command", "offset": 0, "length": end}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateID++
	raw, _ := json.Marshal(map[string]any{"update_id": s.updateID, "message": msg})
	s.updates = append(s.updates, raw)
}

// Methods returns the method of every recorded call, in arrival order.
func (s *Server) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	for i, c := range s.calls {
		out[i] = c.Method
	}
	return out
}

// Calls returns the recorded calls to method, in arrival order.
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	call := Call{Method: method, Fields: map[string]string{}, Files: map[string][]byte{}}

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				call.Fields[k] = v[0]
			}
		}
		for k, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			f, err := headers[0].Open()
			if err != nil {
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			call.Files[k] = data
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	failing := s.fail[method]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
		return
	}

	switch method {
	case "getMe":
		io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"FitCoach","username":"FitCoachBot"}}`)
	case "getUpdates":
		s.mu.Lock()
		pending := s.updates
		s.updates = nil
		s.mu.Unlock()
		if len(pending) > 0 {
			result, _ := json.Marshal(pending)
			io.WriteString(w, `{"ok":true,"result":`+string(result)+`}`)
			return
		}
		// Stand in for long polling without spinning.
		select {
		case <-r.Context().Done():
		case <-time.After(50 * time.Millisecond):
		}
		io.WriteString(w, `{"ok":true,"result":[]}`)
	case "sendMessage", "sendAnimation":
		io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	default:
		io.WriteString(w, `{"ok":true,"result":true}`)
	}
}
