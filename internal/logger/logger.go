package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the structured logger used throughout this module.
type Logger = zerolog.Logger

var (
	isDevelopment = true

	mu        sync.Mutex
	byService = make(map[string]Logger)
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Get returns the logger for component, creating it on first use.
// Unlike a single memoized global logger, each component gets its
// own bound "component" field.
func Get(component string) Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := byService[component]; ok {
		return l
	}

	var l Logger
	if isDevelopment {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("[%5s]", i))
			},
			FormatMessage: func(i any) string {
				return fmt.Sprintf("| %s |", i)
			},
			FormatCaller: func(i any) string {
				return filepath.Base(fmt.Sprintf("%s", i))
			},
			PartsExclude: []string{zerolog.TimestampFieldName},
		}
		l = zerolog.New(consoleWriter).Level(zerolog.TraceLevel).With().
			Timestamp().Str("component", component).Caller().Logger()
	} else {
		l = zerolog.New(os.Stderr).With().Timestamp().Str("component", component).Logger()
	}
	byService[component] = l
	return l
}

// SetDevelopment toggles between the human-readable console writer
// and the plain structured writer. It only affects loggers created
// after the call.
func SetDevelopment(value bool) {
	mu.Lock()
	defer mu.Unlock()
	isDevelopment = value
}
