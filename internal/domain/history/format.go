package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	summaryMaxChars  = 200
	summaryKeepChars = 197
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// formatDuration renders a timer duration as whole hours, minutes or seconds.
func formatDuration(d *time.Duration) string {
	if d == nil {
		return "unknown"
	}
	secs := int64(d.Seconds())
	switch {
	case secs >= 3600:
		return fmt.Sprintf("%dh", int64(math.RoundToEven(float64(secs)/3600)))
	case secs >= 60:
		return fmt.Sprintf("%dm", int64(math.RoundToEven(float64(secs)/60)))
	}
	return fmt.Sprintf("%ds", secs)
}

// summarizeValue renders v as compact JSON, shortened to 200 characters.
func summarizeValue(v any) string {
	if v == nil {
		return "null"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	text := ""
	if err := enc.Encode(v); err != nil {
		text = fmt.Sprint(v)
	} else {
		text = strings.TrimSuffix(buf.String(), "\n")
	}
	if utf8.RuneCountInString(text) <= summaryMaxChars {
		return text
	}
	return string([]rune(text)[:summaryKeepChars]) + "..."
}
