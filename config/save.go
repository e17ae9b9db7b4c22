package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/pretty"

	"github.com/dshills/easyjson/registry"
)

// prettyOptions formats exported documents with four-space
// indentation, keeping short arrays on one line.
var prettyOptions = &pretty.Options{Width: 80, Indent: "    "}

// Save encodes the named configuration as indented JSON and writes it
// to path. Saving an unloaded name is reported as
// registry.ErrEntryNotFound. Export is always explicit; no in-memory
// mutation writes to disk on its own.
func (s *Service) Save(name, path string) error {
	doc, ok := s.reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", registry.ErrEntryNotFound, name)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	return os.WriteFile(path, pretty.PrettyOptions(raw, prettyOptions), 0o644)
}
