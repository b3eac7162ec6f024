// Package cli handles interactive keystroke input for debugging sessions
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/hotserve/internal/logger"
	"github.com/bastiangx/hotserve/internal/utils"
	"github.com/bastiangx/hotserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Commands understood besides keystrokes.
const (
	cmdReset = ":reset"
	cmdStats = ":stats"
)

// InputHandler replays each line read from stdin as a sequence of keystrokes
// and prints the ranked suggestions after every one of them.
type InputHandler struct {
	session       suggest.IAutocompleter
	reader        io.Reader
	logger        *log.Logger
	showFrequency bool
	lineCount     int
}

// NewInputHandler creates a handler reading stdin
func NewInputHandler(session suggest.IAutocompleter, showFrequency bool) *InputHandler {
	return NewInputHandlerWithIO(session, showFrequency, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler on the given streams
func NewInputHandlerWithIO(session suggest.IAutocompleter, showFrequency bool, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		session:       session,
		reader:        r,
		logger:        logger.NewWithWriter(w, ""),
		showFrequency: showFrequency,
	}
}

// Start begins the interface loop. It returns nil once the input ends.
func (h *InputHandler) Start() error {
	h.logger.Print("HotServe CLI [BETA]")
	h.logger.Printf("type characters and press Enter, '%c' commits a sentence (Ctrl+C to exit):", suggest.Terminator)

	scanner := bufio.NewScanner(h.reader)
	for {
		h.logger.Print("> " + h.session.Pending())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		h.handleLine(line)
	}
}

// handleLine feeds a line to the session one keystroke at a time.
// A rejected keystroke stops the rest of the line; the pending input
// keeps everything accepted before it.
func (h *InputHandler) handleLine(line string) {
	h.lineCount++
	switch strings.TrimSpace(line) {
	case cmdReset:
		h.session.Reset()
		h.logger.Print("pending input discarded")
		return
	case cmdStats:
		h.printStats()
		return
	}

	for _, c := range line {
		start := time.Now()
		sentences, err := h.session.Input(c)
		elapsed := time.Since(start)
		if err != nil {
			h.logger.Errorf("%v", err)
			return
		}
		if c == suggest.Terminator {
			h.logger.Print("committed")
			continue
		}
		h.logger.Debugf("Took [ %v ] for key %s", elapsed, utils.VisibleKey(c))
		h.printSuggestions(sentences)
	}
}

func (h *InputHandler) printSuggestions(sentences []string) {
	pending := h.session.Pending()
	if len(sentences) == 0 {
		h.logger.Printf("'%s': no suggestions", pending)
		return
	}

	var freqs map[string]uint64
	if h.showFrequency {
		if ranked, err := h.session.Complete(pending); err == nil {
			freqs = make(map[string]uint64, len(ranked))
			for _, r := range ranked {
				freqs[r.Sentence] = r.Frequency
			}
		}
	}

	h.logger.Printf("'%s':", pending)
	for i, s := range sentences {
		clSentence := fmt.Sprintf("\033[38;5;75m%s\033[0m", s)
		if freqs != nil {
			h.logger.Printf("%2d. %-40s (freq: %8s)", i+1, clSentence, utils.FormatWithCommas(freqs[s]))
			continue
		}
		h.logger.Printf("%2d. %s", i+1, clSentence)
	}
}

func (h *InputHandler) printStats() {
	stats := h.session.Stats()
	h.logger.Print("session stats",
		"sentences", stats["sentences"],
		"nodes", stats["nodes"],
		"commits", stats["commits"],
		"keystrokes", stats["keystrokes"],
		"cacheHits", stats["cacheHits"])
}
