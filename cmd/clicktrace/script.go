package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rsclarke/clicktrace/internal/dom"
)

// step is one line of an interaction script:
//
//	{"type":"click","target":"#buy"}
//	{"type":"keyup","target":"form input","key":"a","metaKey":false}
type step struct {
	Type    string  `json:"type"`
	Target  string  `json:"target"`
	Key     *string `json:"key,omitempty"`
	MetaKey bool    `json:"metaKey"`
	line    int
}

// readScript parses a JSON-lines script. Blank lines and lines starting with
// '#' are skipped.
func readScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var s step
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("script line %d: %w", n, err)
		}
		switch s.Type {
		case dom.EventClick, dom.EventKeyup:
		default:
			return nil, fmt.Errorf("script line %d: unsupported event type %q", n, s.Type)
		}
		if strings.TrimSpace(s.Target) == "" {
			return nil, fmt.Errorf("script line %d: missing target", n)
		}
		s.line = n
		steps = append(steps, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return steps, nil
}

// event resolves the step's target in doc and builds the native event.
func (s step) event(doc *dom.Document) (dom.Event, error) {
	target, err := doc.Query(s.Target)
	if err != nil {
		return dom.Event{}, fmt.Errorf("script line %d: %w", s.line, err)
	}
	ev := dom.Event{Type: s.Type, Target: target, MetaKey: s.MetaKey}
	if s.Key != nil {
		ev.Key = *s.Key
		ev.HasKey = true
	}
	return ev, nil
}
