package notebook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

// parseNoteID extracts the id from "Note saved! ID is <32 chars>...".
func parseNoteID(reply string) (string, error) {
	_, rest, found := strings.Cut(reply, NoteSavedMarker)
	if !found {
		return "", fmt.Errorf("marker %q not found", NoteSavedMarker)
	}
	if len(rest) < models.NoteIDLength {
		return "", fmt.Errorf("note id too short: %d chars", len(rest))
	}
	return rest[:models.NoteIDLength], nil
}

// parseIndexedList parses lines of the form "<label> <index>: <value>"
// (the label is optional) and returns the values in order.
func parseIndexedList(block string) ([]string, error) {
	if block == "" {
		return []string{}, nil
	}

	lines := strings.Split(block, "\n")
	values := make([]string, 0, len(lines))
	for _, line := range lines {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("line %q: missing separator", line)
		}
		fields := strings.Fields(label)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %q: missing index", line)
		}
		if _, err := strconv.Atoi(fields[len(fields)-1]); err != nil {
			return nil, fmt.Errorf("line %q: bad index: %w", line, err)
		}
		values = append(values, value)
	}
	return values, nil
}
