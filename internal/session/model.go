package session

import (
	"regexp"
	"strings"
	"time"
)

// Session is one recorded Claude conversation as shown in the browser.
// Values are replaced wholesale on every reload, never mutated in place.
type Session struct {
	SessionID    string `json:"sessionId"`
	ProjectPath  string `json:"projectPath"`
	RepoName     string `json:"repoName"`
	GitBranch    string `json:"gitBranch"`
	FirstPrompt  string `json:"firstPrompt"`
	MessageCount int    `json:"messageCount"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	SourceFile   string `json:"sourceFile"`
}

// IndexEntry is one element of the "entries" array in sessions-index.json.
// ParseLog produces the same shape from a raw transcript.
type IndexEntry struct {
	SessionID    string `json:"sessionId"`
	ProjectPath  string `json:"projectPath"`
	GitBranch    string `json:"gitBranch"`
	FirstPrompt  string `json:"firstPrompt"`
	MessageCount int    `json:"messageCount"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
}

const (
	noBranch      = "(none)"
	unknownRepo   = "(unknown)"
	noPrompt      = "(no prompt)"
	interrupted   = "(interrupted)"
	rawNoPrompt   = "No prompt"
	interruptMark = "[Request interrupted"
)

// timestampLayout matches the fixed-width ISO-8601 form Claude writes, so
// string comparison orders timestamps correctly.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Normalize turns a raw entry into a display-ready Session.
func Normalize(e IndexEntry, sourceFile string) Session {
	branch := e.GitBranch
	if branch == "" {
		branch = noBranch
	}
	modified := e.Modified
	if modified == "" {
		modified = e.Created
	}
	return Session{
		SessionID:    e.SessionID,
		ProjectPath:  e.ProjectPath,
		RepoName:     RepoName(e.ProjectPath),
		GitBranch:    branch,
		FirstPrompt:  CleanPrompt(e.FirstPrompt),
		MessageCount: max(e.MessageCount, 0),
		Created:      e.Created,
		Modified:     modified,
		SourceFile:   sourceFile,
	}
}

// RepoName returns the last segment of a project path, accepting both
// Windows and POSIX separators.
//
//	C:\source\repos\my-app       -> my-app
//	/home/user/projects/cool-lib -> cool-lib
func RepoName(projectPath string) string {
	if projectPath == "" {
		return unknownRepo
	}
	normalized := strings.TrimRight(strings.ReplaceAll(projectPath, `\`, "/"), "/")
	name := normalized[strings.LastIndex(normalized, "/")+1:]
	if name == "" {
		return normalized
	}
	return name
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	planPrefixPattern = regexp.MustCompile(`(?i)^Implement the following plan:\s*`)
	headerPattern     = regexp.MustCompile(`^#{1,3}\s+`)
	controlWSPattern  = regexp.MustCompile(`[\r\n\t]+`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
)

// CleanPrompt converts a raw first prompt into one line of display text.
// Markup tags are stripped, interrupt markers collapse to "(interrupted)" and
// whitespace is normalized.
func CleanPrompt(raw string) string {
	if raw == "" || raw == rawNoPrompt {
		return noPrompt
	}

	text := tagPattern.ReplaceAllString(raw, "")
	if strings.HasPrefix(text, interruptMark) {
		return interrupted
	}

	text = planPrefixPattern.ReplaceAllString(text, "")
	text = headerPattern.ReplaceAllString(text, "")
	text = controlWSPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(multiSpacePattern.ReplaceAllString(text, " "))

	if text == "" {
		return noPrompt
	}
	return text
}
