package temporal

import (
	"fmt"
	"os"

	"github.com/rpggio/temporal-xray/internal/domain/event"
	"go.temporal.io/sdk/client"
)

// LoadHistoryFile reads a history exported with `temporal workflow show -o json`.
func LoadHistoryFile(path string) ([]event.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	h, err := client.HistoryFromJSON(f, client.HistoryJSONOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse history file %s: %w", path, err)
	}
	return ConvertEvents(h.GetEvents()), nil
}
