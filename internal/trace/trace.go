// Package trace handles informational output on stderr.
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type outputLevel int

const (
	levelWarning outputLevel = iota - 1
	levelNone
	levelInfo
	levelTrace
	levelDebug
)

var currentOutputLevel = levelInfo

var output io.Writer = colorable.NewColorableStderr()

var prefixes = map[outputLevel]*color.Color{
	levelWarning: color.New(color.FgYellow, color.Bold),
	levelInfo:    color.New(color.FgGreen),
	levelTrace:   color.New(color.FgCyan),
	levelDebug:   color.New(color.FgMagenta),
}

func init() {
	DetectColor(os.Stderr)
}

// DetectColor enables colored prefixes only when f is a terminal and
// NO_COLOR is unset.
func DetectColor(f *os.File) {
	_, nocolor := os.LookupEnv("NO_COLOR")
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	color.NoColor = nocolor || !tty
}

// DisableColor turns colored prefixes off.
func DisableColor() {
	color.NoColor = true
}

// SetOutput redirects all output to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := output
	output = w
	return prev
}

func AdjustVerbosity(howMuch int) {
	currentOutputLevel = outputLevel(howMuch + int(currentOutputLevel))
}

// SetVerbosity sets the level directly: 0 is info, 1 trace, 2 debug.
func SetVerbosity(level int) {
	currentOutputLevel = outputLevel(level) + levelInfo
}

func Silent() {
	currentOutputLevel = levelNone
}

func outputStderr(l outputLevel, n string, v ...any) {
	if l > currentOutputLevel {
		return
	}
	w := make([]any, len(v)+1)
	w[0] = prefixes[l].Sprint(n)
	copy(w[1:], v)
	fmt.Fprintln(output, w...)
}

func Info(v ...any) {
	outputStderr(levelInfo, "[info]", v...)
}

func Trace(v ...any) {
	outputStderr(levelTrace, "[trace]", v...)
}

func Debug(v ...any) {
	outputStderr(levelDebug, "[debug]", v...)
}

func Warning(v ...any) {
	outputStderr(levelWarning, "[warning]", v...)
}

// Tracef formats like fmt.Sprintf before tracing.
func Tracef(format string, v ...any) {
	if levelTrace > currentOutputLevel {
		return
	}
	Trace(fmt.Sprintf(format, v...))
}

// Debugf formats like fmt.Sprintf before debugging.
func Debugf(format string, v ...any) {
	if levelDebug > currentOutputLevel {
		return
	}
	Debug(fmt.Sprintf(format, v...))
}
