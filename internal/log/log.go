package log

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// Init sets up apex/log with a custom handler and a log level from the
// REPORTD_LOG env variable.
func Init() {
	level := strings.ToUpper(os.Getenv("REPORTD_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&Handler{})
	log.SetLevelFromString(level)
}

// Handler formats log entries and writes them to stderr
type Handler struct{}

// HandleLog implements the log.Handler interface
func (h *Handler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var fields []string
	for k, v := range e.Fields {
		fields = append(fields, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(fields)

	if len(fields) > 0 {
		fmt.Fprintf(os.Stderr, "%s %.1s %s %s\n", timestamp, level, e.Message, strings.Join(fields, " "))
	} else {
		fmt.Fprintf(os.Stderr, "%s %.1s %s\n", timestamp, level, e.Message)
	}
	return nil
}
