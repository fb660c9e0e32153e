package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"
)

// headBytes caps how much of a transcript is read to find its metadata.
// Transcripts grow to hundreds of MB; the first user turn is near the top.
const headBytes = 32 * 1024

// contentPattern pulls a prompt out of a line that is no longer valid JSON,
// usually because the head read cut it off.
var contentPattern = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.){10,200})`)

var (
	externalUserMarker = []byte(`"userType":"external"`)
	userTypeMarker     = []byte(`"type":"user"`)
	assistantMarker    = []byte(`"type":"assistant"`)
)

// logRecord is the subset of a transcript line the scanner looks at.
type logRecord struct {
	Type      string `json:"type"`
	UserType  string `json:"userType"`
	SessionID string `json:"sessionId"`
	CWD       string `json:"cwd"`
	GitBranch string `json:"gitBranch"`
	Timestamp string `json:"timestamp"`
	Message   *struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// promptText returns the text of a message whose content is either a plain
// string or a list of parts, using the first "text" part.
func (r *logRecord) promptText() string {
	if r.Message == nil || len(r.Message.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Message.Content, &s); err == nil {
		return s
	}
	var parts []contentPart
	if err := json.Unmarshal(r.Message.Content, &parts); err != nil {
		return ""
	}
	for _, p := range parts {
		if p.Type == "text" {
			return p.Text
		}
	}
	return ""
}

// externalPrompt returns the prompt of an external user turn if it is usable.
func (r *logRecord) externalPrompt() (string, bool) {
	if r.Type != "user" || r.UserType != "external" || r.Message == nil {
		return "", false
	}
	text := r.promptText()
	if NeedsRecovery(text) {
		return "", false
	}
	return text, true
}

// NeedsRecovery reports whether a stored prompt is useless for display and
// should be re-read from the transcript.
func NeedsRecovery(prompt string) bool {
	return prompt == "" ||
		prompt == rawNoPrompt ||
		strings.HasPrefix(prompt, interruptMark) ||
		strings.HasPrefix(prompt, "<")
}

// RecoverFirstPrompt reads the head of the transcript at path and returns the
// first external user prompt that does not itself need recovery.
// ok is false when the file is unreadable or nothing usable was found;
// callers keep the prompt they already had.
func RecoverFirstPrompt(path string) (prompt string, ok bool) {
	lines, err := readHeadLines(path)
	if err != nil {
		return "", false
	}
	for _, line := range lines {
		var rec logRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			if text, ok := fallbackPrompt(line); ok {
				return text, true
			}
			continue
		}
		if text, ok := rec.externalPrompt(); ok {
			return text, true
		}
	}
	return "", false
}

// fallbackPrompt applies the regex extraction to a line that failed to parse.
// Only lines that look like external user turns are considered.
func fallbackPrompt(line []byte) (string, bool) {
	if !bytes.Contains(line, externalUserMarker) || !bytes.Contains(line, userTypeMarker) {
		return "", false
	}
	m := contentPattern.FindSubmatch(line)
	if m == nil {
		return "", false
	}
	text := unescapeContent(string(m[1]))
	if NeedsRecovery(text) {
		return "", false
	}
	return text, true
}

// unescapeContent undoes the JSON escapes that matter for display. The
// replacements run in sequence, not as a single pass.
func unescapeContent(s string) string {
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// readHeadLines reads at most headBytes from the start of path and splits
// them into non-blank lines. The last line may be truncated.
func readHeadLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, headBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var lines [][]byte
	for _, line := range bytes.Split(buf[:n], []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
