package testutil

import (
	"bytes"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/sqldef/jsondef/database"
	"github.com/sqldef/jsondef/schema"
	"github.com/sqldef/jsondef/util"
	"github.com/stretchr/testify/assert"
)

var stripHeredocRegex = regexp.MustCompilePOSIX("^\t*")

type TestCase struct {
	Current       string   // default: empty schema
	Desired       string   // default: empty schema
	Output        *string  // default: nil, only idempotency is checked
	Error         *string  // default: nil
	EnableDrop    *bool    `yaml:"enable_drop"` // default: true
	CheckCollate  bool     `yaml:"check_collate"`
	CheckEngine   bool     `yaml:"check_engine"`
	OptimizeTypes bool     `yaml:"optimize_types"`
	TargetTables  []string `yaml:"target_tables"`
	SkipTables    []string `yaml:"skip_tables"`
}

func init() {
	util.InitSlog()

	// Keep test output quiet unless LOG_LEVEL asks otherwise.
	if os.Getenv("LOG_LEVEL") == "" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
		slog.SetDefault(slog.New(handler))
	}
}

func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	ret := map[string]TestCase{}
	testFileMap := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		if err := dec.Decode(&tests); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if test.EnableDrop == nil {
				enableDrop := true
				test.EnableDrop = &enableDrop
			}
			if existingFile, ok := testFileMap[name]; ok {
				return nil, fmt.Errorf("duplicate test case name '%s': defined in both '%s' and '%s'", name, existingFile, file)
			}
			testFileMap[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// RunTest diffs Current against Desired and compares the statements with Output.
// Desired must always be idempotent against itself.
func RunTest(t *testing.T, test TestCase) {
	t.Helper()

	config := database.GeneratorConfig{
		EnableDrop:    *test.EnableDrop,
		CheckCollate:  test.CheckCollate,
		CheckEngine:   test.CheckEngine,
		OptimizeTypes: test.OptimizeTypes,
		TargetTables:  test.TargetTables,
		SkipTables:    test.SkipTables,
	}

	ddls, err := generate(test.Current, test.Desired, config)
	if test.Error != nil {
		if err == nil {
			t.Errorf("expected error: %s, but got no error", *test.Error)
		} else if err.Error() != *test.Error {
			t.Errorf("expected error: %s, but got: %s", *test.Error, err.Error())
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}

	if test.Output != nil {
		expected := strings.TrimSpace(*test.Output)
		actual := strings.TrimSpace(JoinDDLs(ddls))
		assert.Equal(t, expected, actual, "current → desired")
	}

	// An applied schema already carries the optimized types.
	config.OptimizeTypes = false
	ddls, err = generate(test.Desired, test.Desired, config)
	if err != nil {
		t.Fatal(err)
	}
	if len(ddls) > 0 {
		t.Errorf("Desired schema is not idempotent. Expected no changes when comparing desired to itself, but got:\n```\n%s```", JoinDDLs(ddls))
	}
}

func generate(current string, desired string, config database.GeneratorConfig) ([]string, error) {
	currentDB, err := ParseDatabase(current)
	if err != nil {
		return nil, err
	}
	desiredDB, err := ParseDatabase(desired)
	if err != nil {
		return nil, err
	}
	return schema.GenerateIdempotentDDLs(currentDB, desiredDB, config)
}

// ParseDatabase builds a model named "test" from a JSON or YAML description.
func ParseDatabase(doc string) (*schema.Database, error) {
	desc, err := database.ParseDescription([]byte(doc))
	if err != nil {
		return nil, err
	}
	return schema.ParseDatabase("test", desc)
}

func JoinDDLs(ddls []string) string {
	var builder strings.Builder
	for _, ddl := range ddls {
		builder.WriteString(ddl)
		builder.WriteString("\n")
	}
	return builder.String()
}

func WriteFile(path string, content string) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if _, err := file.Write(([]byte)(content)); err != nil {
		log.Fatal(err)
	}
}

func StripHeredoc(heredoc string) string {
	heredoc = strings.TrimPrefix(heredoc, "\n")
	return stripHeredocRegex.ReplaceAllLiteralString(heredoc, "")
}
