package groups

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/aydeggy-dot/proximity/internal/logging"
)

// File represents the structure of a groups.json seed file
type File struct {
	Groups []Group `json:"groups"`
}

// ParseGroupsFile reads and parses a groups.json file
func ParseGroupsFile(path string) (*File, error) {
	return ParseGroupsFileWithLogLevel(path, logging.LogLevelError)
}

// ParseGroupsFileWithLogLevel reads and parses a groups.json file with logging support.
// Entries without an id are assigned a fresh uuid. Entries with an out-of-range
// location center are rejected, since downstream distance math assumes valid
// coordinates.
func ParseGroupsFileWithLogLevel(path string, logLevel logging.LogLevel) (*File, error) {
	if logLevel <= logging.LogLevelDebug {
		log.Printf("Reading groups file from: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if logLevel <= logging.LogLevelError {
			log.Printf("Failed to read groups file at %s: %v", path, err)
		}
		return nil, fmt.Errorf("failed to read groups file: %w", err)
	}

	if logLevel <= logging.LogLevelInfo {
		log.Printf("Read %d bytes from groups file", len(data))
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		if logLevel <= logging.LogLevelError {
			log.Printf("Failed to parse JSON from groups file: %v", err)
		}
		return nil, fmt.Errorf("failed to parse groups file: %w", err)
	}

	var located int
	for i := range file.Groups {
		g := &file.Groups[i]

		if g.Name == "" {
			return nil, fmt.Errorf("group at index %d has no name", i)
		}
		if g.Category != "" {
			if _, err := ParseCategory(g.Category); err != nil {
				return nil, fmt.Errorf("group %q: %w", g.Name, err)
			}
		}
		if g.LocationCenter != nil {
			if err := g.LocationCenter.Validate(); err != nil {
				return nil, fmt.Errorf("group %q: invalid location center: %w", g.Name, err)
			}
			located++
		}
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
	}

	if logLevel <= logging.LogLevelInfo {
		log.Printf("Parsed groups file: %d groups, %d with a location center", len(file.Groups), located)
	}

	return &file, nil
}
