// Package logger provides namespaced debug logging switched on through the
// DEBUG environment variable, following the conventions of the npm debug
// package:
//
//	DEBUG=*                   every namespace
//	DEBUG=dispatch:*          every namespace under dispatch
//	DEBUG=ghapi:client,cli:*  a list of patterns
//	DEBUG=*,-ghapi:*          exclusions win over inclusions
//
// Output goes to stderr as "<namespace> <message> +<elapsed>", coloured per
// namespace when stderr is a terminal and DEBUG_COLORS is not "0".
package logger

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agenticqa/gh-preflight/pkg/timeutil"
	"github.com/agenticqa/gh-preflight/pkg/tty"
)

// Logger writes debug lines for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu      sync.Mutex
	lastLog time.Time
}

var (
	debugEnv    = os.Getenv("DEBUG")
	debugColors = os.Getenv("DEBUG_COLORS") != "0"
	isTTY       = tty.IsStderrTerminal()

	// output is swapped in tests.
	output io.Writer = os.Stderr

	// ANSI 256 colours readable on light and dark backgrounds.
	colorPalette = []string{
		"\033[38;5;33m",
		"\033[38;5;35m",
		"\033[38;5;166m",
		"\033[38;5;125m",
		"\033[38;5;37m",
		"\033[38;5;161m",
		"\033[38;5;136m",
		"\033[38;5;124m",
		"\033[38;5;28m",
		"\033[38;5;63m",
		"\033[38;5;95m",
		"\033[38;5;21m",
	}

	colorReset = "\033[0m"
)

// New creates a Logger for namespace. Whether it is enabled is decided once,
// here, from the DEBUG patterns.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace),
		color:     selectColor(namespace),
		lastLog:   time.Now(),
	}
}

// Enabled reports whether the logger writes anything.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Namespace returns the namespace the logger was created with.
func (l *Logger) Namespace() string {
	return l.namespace
}

// Printf logs a formatted line. A trailing newline is always added.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print logs its operands concatenated as fmt.Sprint does.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(message string) {
	l.mu.Lock()
	now := time.Now()
	elapsed := timeutil.FormatDuration(now.Sub(l.lastLog))
	l.lastLog = now
	l.mu.Unlock()

	name := l.namespace
	if l.color != "" {
		name = l.color + l.namespace + colorReset
	}
	fmt.Fprintf(output, "%s %s +%s\n", name, message, elapsed)
}

// selectColor hashes the namespace onto the palette so a namespace keeps its
// colour across runs.
func selectColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	if _, err := h.Write([]byte(namespace)); err != nil {
		return ""
	}
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

func computeEnabled(namespace string) bool {
	enabled := false
	for pattern := range strings.SplitSeq(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if excluded, ok := strings.CutPrefix(pattern, "-"); ok {
			if matchPattern(namespace, excluded) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matchPattern supports a single "*" at the start, end or middle of pattern.
func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	prefix, suffix, found := strings.Cut(pattern, "*")
	if !found {
		return false
	}
	return len(namespace) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(namespace, prefix) &&
		strings.HasSuffix(namespace, suffix)
}
