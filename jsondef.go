package jsondef

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/sqldef/jsondef/database"
	"github.com/sqldef/jsondef/schema"
)

type Options struct {
	DesiredFile string
	Export      bool
	Debug       bool
	Config      database.GeneratorConfig
	Logger      database.Logger // default: database.StdoutLogger
}

// Main function shared by all commands
func Run(db database.Database, options *Options) error {
	logger := options.Logger
	if logger == nil {
		logger = database.StdoutLogger{}
	}

	currentDesc, err := db.ExportDescription()
	if err != nil {
		return fmt.Errorf("failed to export the current schema: %w", err)
	}

	if options.Export {
		buf, err := database.MarshalDescription(currentDesc)
		if err != nil {
			return err
		}
		logger.Print(string(buf))
		return nil
	}

	buf, err := ReadFile(options.DesiredFile)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", options.DesiredFile, err)
	}
	desiredDesc, err := database.ParseDescription([]byte(buf))
	if err != nil {
		return fmt.Errorf("failed to parse '%s': %w", options.DesiredFile, err)
	}

	// Statements address the current database, so both models share its name.
	name := currentDesc.Name
	if name == "" {
		name = desiredDesc.Name
	}
	current, err := schema.ParseDatabase(name, currentDesc)
	if err != nil {
		return fmt.Errorf("current schema: %w", err)
	}
	desired, err := schema.ParseDatabase(name, desiredDesc)
	if err != nil {
		return fmt.Errorf("desired schema: %w", err)
	}

	if options.Debug {
		pp.Fprintln(os.Stderr, "current:", currentDesc)
		pp.Fprintln(os.Stderr, "desired:", desiredDesc)
	}

	ddls, err := schema.GenerateIdempotentDDLs(current, desired, options.Config)
	if err != nil {
		return err
	}
	if len(ddls) == 0 {
		logger.Println("-- Nothing is modified --")
		return nil
	}
	for _, ddl := range ddls {
		logger.Println(ddl)
	}
	return nil
}

// ParseFiles returns the desired file and, when two files are given, the current one.
func ParseFiles(files []string) (string, string, error) {
	switch len(files) {
	case 0:
		return "-", "", nil
	case 1:
		return files[0], "", nil
	case 2:
		return files[1], files[0], nil
	default:
		return "", "", fmt.Errorf("expected only one or two --file options, but got: %v", files)
	}
}

// ReadFile reads a file, or stdin when filepath is "-".
func ReadFile(filepath string) (string, error) {
	var err error
	var buf []byte

	if filepath == "-" {
		stat, _ := os.Stdin.Stat()
		if stat != nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("stdin is not piped")
		}

		buf, err = io.ReadAll(os.Stdin)
	} else {
		buf, err = os.ReadFile(filepath)
	}

	if err != nil {
		return "", err
	}
	return string(buf), nil
}
