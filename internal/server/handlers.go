package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cchalm/study-buddy/internal/ai"
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrNoImage    = errors.New("no file uploaded")
)

// Audit endpoint names, which also prefix the stored object names
const (
	endpointChat      = "chat"
	endpointCorrect   = "correct"
	endpointSummarize = "summarize"
	endpointImage     = "image"

	imageAuditInput = "image uploaded"
)

type textRequest struct {
	Text string `json:"text"`
}

// handleChat continues the session's conversation. The user turn and the reply are appended together only once
// the model has answered, so a failed call leaves the history untouched
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := GetSessionID(ctx)

	text, err := readText(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	userTurn := ai.UserTurn(text)
	lines, err := s.conversations.RenderPrompt(ctx, sessionID, ai.ChatPreamble, userTurn)
	if err != nil {
		writeError(w, err)
		return
	}

	reply, err := s.models.Generate(ctx, ai.TextParts(lines...))
	if err != nil {
		log.Printf("Chat generation failed for session %s: %v", sessionID, err)
		writeError(w, err)
		return
	}

	if err := s.conversations.Append(ctx, sessionID, userTurn, ai.AssistantTurn(reply)); err != nil {
		writeError(w, err)
		return
	}
	s.recordAudit(r, text, reply, endpointChat)

	writeOK(w, "reply", reply)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.conversations.Clear(ctx, GetSessionID(ctx)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	s.handleTextPrompt(w, r, endpointCorrect, "corrected", ai.CorrectPrompt)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	s.handleTextPrompt(w, r, endpointSummarize, "summary", ai.SummarizePrompt)
}

// handleTextPrompt serves the stateless text endpoints: build a prompt from the request text, generate, audit
func (s *Server) handleTextPrompt(w http.ResponseWriter, r *http.Request, endpoint string, key string, buildPrompt func(string) []ai.Part) {
	text, err := readText(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.models.Generate(r.Context(), buildPrompt(text))
	if err != nil {
		log.Printf("%s generation failed: %v", endpoint, err)
		writeError(w, err)
		return
	}
	s.recordAudit(r, text, result, endpoint)

	writeOK(w, key, result)
}

// handleImage analyzes an uploaded image. The declared content type of the upload is passed to the model as is
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, fmt.Errorf("image exceeds %d bytes: %w", maxBytesErr.Limit, err))
			return
		}
		writeError(w, ErrNoImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("failed to read uploaded image: %w", err))
		return
	}

	result, err := s.models.Generate(r.Context(), ai.ImagePrompt(header.Header.Get("Content-Type"), data))
	if err != nil {
		log.Printf("Image analysis failed for %q: %v", header.Filename, err)
		writeError(w, err)
		return
	}
	s.recordAudit(r, imageAuditInput, result, endpointImage)

	writeOK(w, "result", result)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.models.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeOK(w, "models", names)
}

// recordAudit writes an audit record. Failures are logged and otherwise ignored
func (s *Server) recordAudit(r *http.Request, input string, output string, endpoint string) {
	name, err := s.audit.Log(r.Context(), input, output, endpoint)
	if err != nil {
		log.Printf("Audit logging for %s failed: %v", endpoint, err)
		return
	}
	if name != "" {
		log.Printf("Logged interaction to %s", name)
	}
}

// readText decodes a {"text": ...} body. A missing or malformed body reads as empty text
func readText(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return "", fmt.Errorf("request body exceeds %d bytes: %w", maxBytesErr.Limit, err)
		}
		req = textRequest{}
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", ErrEmptyInput
	}
	return text, nil
}

func writeOK(w http.ResponseWriter, key string, value any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, key: value})
}

// writeError reports err to the client. Input errors map to 400 and everything else, including provider errors
// whose message is passed through verbatim, to 500
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrNoImage):
		status = http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, map[string]any{"ok": false, "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
