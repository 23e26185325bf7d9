package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// Load reads and parses the JSON configuration document at path.
//
// Failures map onto apperror.Kind as spelled out in the external
// interface: a missing file and a read failure are both KindNotFound/
// KindExternalTool-adjacent I/O problems, surfaced here as KindNotFound
// (file absent) or KindParse (file present but unreadable or malformed),
// matching the "FileNotFound / FileReadFailed / JsonParseFailed" trio.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, apperror.Wrap(apperror.KindNotFound, "config.Load: file not found", err)
		}
		return Config{}, apperror.Wrap(apperror.KindParse, "config.Load: file read failed", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperror.Wrap(apperror.KindParse, "config.Load: json parse failed", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
