// Package state persists TUI preferences between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smartlib/libreg/internal/logger"
)

const fileName = "tui-prefs.json"

// Prefs holds preferences of the registration TUI.
type Prefs struct {
	Hints   HintsPrefs   `json:"hints"`
	Picture PicturePrefs `json:"picture"`
}

// HintsPrefs controls the key help footer.
type HintsPrefs struct {
	Visible bool `json:"visible"`
}

// PicturePrefs remembers where the last logo was picked from.
type PicturePrefs struct {
	LastDir string `json:"last_dir,omitempty"`
}

// Default returns the preferences of a first run.
func Default() *Prefs {
	return &Prefs{Hints: HintsPrefs{Visible: true}}
}

// Path returns the preferences file under dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, fileName)
}

// Load reads preferences from dataDir, falling back to defaults when the
// file is missing or unreadable.
func Load(dataDir string) *Prefs {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read TUI preferences: %v", err)
		}
		return Default()
	}

	p := Default()
	if err := json.Unmarshal(data, p); err != nil {
		logger.Warn("Failed to parse TUI preferences: %v", err)
		return Default()
	}
	return p
}

// Save writes p to dataDir, creating the directory if needed.
func Save(dataDir string, p *Prefs) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}

	path := Path(dataDir)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	logger.Debug("TUI preferences saved to %s", path)
	return nil
}

// RememberPicture records the directory of a picked logo path.
func (p *Prefs) RememberPicture(path string) {
	if path == "" {
		return
	}
	p.Picture.LastDir = filepath.Dir(path)
}
