package file

import (
	"path/filepath"
	"strings"

	"github.com/sqldef/jsondef"
	"github.com/sqldef/jsondef/database"
)

// Pseudo database for comparison between description files
type FileDatabase struct {
	file string
}

func NewDatabase(file string) *FileDatabase {
	return &FileDatabase{
		file: file,
	}
}

// ExportDescription parses the file. A description without a name is named
// after the file, e.g. `app` for `schemas/app.json`.
func (f *FileDatabase) ExportDescription() (*database.Description, error) {
	buf, err := jsondef.ReadFile(f.file)
	if err != nil {
		return nil, err
	}
	desc, err := database.ParseDescription([]byte(buf))
	if err != nil {
		return nil, err
	}
	if desc.Name == "" {
		base := filepath.Base(f.file)
		desc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return desc, nil
}

func (f *FileDatabase) Close() error {
	return nil
}
