// This package has the schema source layer. Never deal with DDL construction.
package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	DbName   string
	User     string
	Password string
	Host     string
	Port     int
	Socket   string

	// Only MySQL
	MySQLEnableCleartextPlugin bool
	SslMode                    string
	SslCa                      string

	DumpConcurrency int
}

// GeneratorConfig is the immutable set of options of one diff.
type GeneratorConfig struct {
	TargetTables []string
	SkipTables   []string

	CheckCollate  bool // compare collations of database, tables and columns
	CheckEngine   bool // compare storage engines of tables
	EnableDrop    bool // emit DROP for entities missing from the desired schema
	OptimizeTypes bool // rewrite boolean-like enums of the desired schema to TINYINT(1)

	DumpConcurrency int
}

// Abstraction layer for schema sources: live databases or description files
type Database interface {
	ExportDescription() (*Description, error)
	Close() error
}

func ParseGeneratorConfig(configFile string) GeneratorConfig {
	if configFile == "" {
		return GeneratorConfig{}
	}

	buf, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatal(err)
	}

	config, err := parseGeneratorConfig(buf)
	if err != nil {
		log.Fatalf("%s: %s", configFile, err)
	}
	return config
}

func ParseGeneratorConfigString(yamlString string) GeneratorConfig {
	config, err := parseGeneratorConfig([]byte(yamlString))
	if err != nil {
		log.Fatal(err)
	}
	return config
}

func parseGeneratorConfig(buf []byte) (GeneratorConfig, error) {
	var config struct {
		TargetTables    string `yaml:"target_tables"`
		SkipTables      string `yaml:"skip_tables"`
		CheckCollate    bool   `yaml:"check_collate"`
		CheckEngine     bool   `yaml:"check_engine"`
		EnableDrop      bool   `yaml:"enable_drop"`
		OptimizeTypes   bool   `yaml:"optimize_types"`
		DumpConcurrency int    `yaml:"dump_concurrency"`
	}
	if err := yaml.UnmarshalStrict(buf, &config); err != nil {
		return GeneratorConfig{}, fmt.Errorf("invalid generator config: %w", err)
	}

	return GeneratorConfig{
		TargetTables:    splitLines(config.TargetTables),
		SkipTables:      splitLines(config.SkipTables),
		CheckCollate:    config.CheckCollate,
		CheckEngine:     config.CheckEngine,
		EnableDrop:      config.EnableDrop,
		OptimizeTypes:   config.OptimizeTypes,
		DumpConcurrency: config.DumpConcurrency,
	}, nil
}

// MergeGeneratorConfigs merges configs in order. Table lists and the dump
// concurrency of a later config replace earlier ones when set; switches can
// only be turned on.
func MergeGeneratorConfigs(configs []GeneratorConfig) GeneratorConfig {
	var result GeneratorConfig
	for _, config := range configs {
		if len(config.TargetTables) > 0 {
			result.TargetTables = config.TargetTables
		}
		if len(config.SkipTables) > 0 {
			result.SkipTables = config.SkipTables
		}
		if config.DumpConcurrency != 0 {
			result.DumpConcurrency = config.DumpConcurrency
		}
		result.CheckCollate = result.CheckCollate || config.CheckCollate
		result.CheckEngine = result.CheckEngine || config.CheckEngine
		result.EnableDrop = result.EnableDrop || config.EnableDrop
		result.OptimizeTypes = result.OptimizeTypes || config.OptimizeTypes
	}
	return result
}

func splitLines(s string) []string {
	s = strings.Trim(s, "\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
