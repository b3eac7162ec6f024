package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// ErrMalformedLine is returned for text lines that are not <weight>\t<sentence>.
var ErrMalformedLine = errors.New("malformed corpus line")

// Corpus is a pair of parallel lists ready for suggest.New.
type Corpus struct {
	Sentences []string
	Weights   []int
}

// Len returns the number of entries.
func (c *Corpus) Len() int { return len(c.Sentences) }

func (c *Corpus) add(sentence string, weight int) {
	c.Sentences = append(c.Sentences, sentence)
	c.Weights = append(c.Weights, weight)
}

type tomlCorpus struct {
	Entry []struct {
		Sentence string `toml:"sentence"`
		Weight   int    `toml:"weight"`
	} `toml:"entry"`
}

// Load reads a corpus file in any supported format. Sentences are not
// validated against the alphabet here; the trie rejects them on insert.
func Load(path string) (*Corpus, error) {
	format, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}

	var c *Corpus
	switch format {
	case FormatText:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		c, err = ReadText(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case FormatTOML:
		c, err = loadTOML(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	log.Debugf("Loaded %d corpus entries from %s (%s)", c.Len(), path, format)
	return c, nil
}

// ReadText parses <weight>\t<sentence> lines. Blank lines and lines
// starting with // are skipped.
func ReadText(r io.Reader) (*Corpus, error) {
	c := &Corpus{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
			continue
		}
		weightStr, sentence, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: %w: missing tab separator", lineNo, ErrMalformedLine)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(weightStr))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: weight %q", lineNo, ErrMalformedLine, weightStr)
		}
		c.add(sentence, weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadTOML(path string) (*Corpus, error) {
	var doc tomlCorpus
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, err
	}
	c := &Corpus{}
	for _, e := range doc.Entry {
		c.add(e.Sentence, e.Weight)
	}
	return c, nil
}
