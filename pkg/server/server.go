package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/hotserve/internal/logger"
	"github.com/bastiangx/hotserve/internal/utils"
	"github.com/bastiangx/hotserve/pkg/config"
	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/bastiangx/hotserve/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for one completion session
type Server struct {
	session      suggest.IAutocompleter
	config       *config.Config
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(session suggest.IAutocompleter, cfg *config.Config) *Server {
	return NewServerWithIO(session, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server on the given streams
func NewServerWithIO(session suggest.IAutocompleter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	bw := bufio.NewWriter(w)
	return &Server{
		session: session,
		config:  cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  logger.New("ipc"),
	}
}

// Start processes requests until the input stream ends.
// A request that cannot be decoded ends the loop since the stream cannot be resynchronized.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return err
		}
		s.requestCount++
		s.handleRequest(req)
	}
}

// handleRequest dispatches a decoded request on its action
func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case ActionInput:
		s.handleInput(req)
	case ActionComplete:
		s.handleComplete(req)
	case ActionReset:
		s.session.Reset()
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionStats:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Stats: s.session.Stats()})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
}

func (s *Server) handleInput(req Request) {
	if utf8.RuneCountInString(req.Char) != 1 {
		s.sendError(req.ID, "'ch' must hold exactly one character", 400)
		return
	}
	c, _ := utf8.DecodeRuneInString(req.Char)

	commitsBefore := s.session.Stats()["commits"]
	start := time.Now()
	sentences, err := s.session.Input(c)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Debug("Rejected keystroke", "key", utils.VisibleKey(c), "err", err)
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}

	ranks := utils.CreateRankList(len(sentences))
	out := make([]CompletionSuggestion, len(sentences))
	for i, sentence := range sentences {
		out[i] = CompletionSuggestion{Sentence: sentence, Rank: ranks[i]}
	}
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		Pending:     s.session.Pending(),
		Committed:   s.session.Stats()["commits"] > commitsBefore,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleComplete(req Request) {
	if req.Prefix == "" {
		s.sendError(req.ID, "missing 'p' parameter", 400)
		return
	}
	if len(req.Prefix) > s.config.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), 400)
		return
	}

	start := time.Now()
	suggestions, err := s.session.Complete(req.Prefix)
	elapsed := time.Since(start)
	if err != nil {
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Sentence: sg.Sentence, Rank: ranks[i], Frequency: sg.Frequency}
	}
	s.logger.Debugf("Took [ %v ] for prefix '%s'", elapsed, req.Prefix)
	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		Pending:     s.session.Pending(),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// sendResponse encodes response and flushes it to the client
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, trie.ErrInvalidCharacter), errors.Is(err, trie.ErrSentenceTooLong):
		return 400
	}
	return 500
}
