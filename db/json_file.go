package db

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// loadJSONList reads a JSON array from path into a slice of T.
// A missing or blank file yields an empty slice. Read and parse errors are
// logged and also yield an empty slice, so a corrupt file never stops the server.
func loadJSONList[T any](path string, logger logrus.FieldLogger) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithError(err).WithField("file", path).Error("Error reading file")
		}
		return []T{}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []T{}
	}

	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		logger.WithError(err).WithField("file", path).Error("Error parsing file")
		return []T{}
	}
	if list == nil {
		list = []T{}
	}
	return list
}

// saveJSONList overwrites path with list as two-space indented JSON.
func saveJSONList[T any](path string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding list")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
