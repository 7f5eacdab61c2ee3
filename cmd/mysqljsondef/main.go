package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/sqldef/jsondef"
	"github.com/sqldef/jsondef/database"
	"github.com/sqldef/jsondef/database/file"
	"github.com/sqldef/jsondef/database/mysql"
	"github.com/sqldef/jsondef/util"
	"golang.org/x/term"
)

// version and revision are set via -ldflags
var version = "dev"
var revision = "HEAD"

var descriptionSuffixes = []string{".json", ".yml", ".yaml"}

type cliOptions struct {
	User                  string   `short:"u" long:"user" description:"MySQL user name" value-name:"user_name" default:"root"`
	Password              string   `short:"p" long:"password" description:"MySQL user password, overridden by $MYSQL_PWD" value-name:"password"`
	Host                  string   `short:"h" long:"host" description:"Host to connect to the MySQL server" value-name:"host_name" default:"127.0.0.1"`
	Port                  uint     `short:"P" long:"port" description:"Port used for the connection" value-name:"port_num" default:"3306"`
	Socket                string   `short:"S" long:"socket" description:"The socket file to use for connection" value-name:"socket"`
	SslMode               string   `long:"ssl-mode" description:"SSL connection mode(PREFERRED,REQUIRED,DISABLED,CUSTOM)." value-name:"ssl_mode" default:"PREFERRED"`
	SslCa                 string   `long:"ssl-ca" description:"File that contains list of trusted SSL Certificate Authorities" value-name:"ssl_ca"`
	Prompt                bool     `long:"password-prompt" description:"Force MySQL user password prompt"`
	EnableCleartextPlugin bool     `long:"enable-cleartext-plugin" description:"Enable/disable the clear text authentication plugin"`
	File                  []string `long:"file" description:"Read desired schema from the JSON/YAML file, rather than stdin" value-name:"schema_file" default:"-"`
	Export                bool     `long:"export" description:"Just dump the current schema to stdout"`
	EnableDrop            bool     `long:"enable-drop" description:"Enable destructive changes such as DROP for TABLE, COLUMN, INDEX"`
	CheckCollate          bool     `long:"check-collate" description:"Compare collations of the database, tables and columns"`
	CheckEngine           bool     `long:"check-engine" description:"Compare storage engines of tables"`
	OptimizeTypes         bool     `long:"optimize-types" description:"Convert boolean-like ENUM columns of the desired schema to TINYINT(1)"`
	Debug                 bool     `long:"debug" description:"Dump the parsed schemas to stderr"`
	Help                  bool     `long:"help" description:"Show this help"`
	Version               bool     `long:"version" description:"Show this version"`

	// Custom handlers for config flags to preserve order
	Config       func(string) `long:"config" description:"YAML file to specify: target_tables, skip_tables, check_collate, check_engine, enable_drop, optimize_types, dump_concurrency (can be specified multiple times)"`
	ConfigInline func(string) `long:"config-inline" description:"YAML object to specify the same keys as --config (can be specified multiple times)"`
}

// Return parsed options and schema filename
func parseOptions(args []string) (database.Config, *jsondef.Options, string) {
	// Track parsed configs in order
	var configs []database.GeneratorConfig

	var opts cliOptions
	opts.Config = func(path string) {
		configs = append(configs, database.ParseGeneratorConfig(path))
	}
	opts.ConfigInline = func(yaml string) {
		configs = append(configs, database.ParseGeneratorConfigString(yaml))
	}

	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[OPTIONS] [database|current.json|current.yml] < desired.json"
	args, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	if opts.Version {
		fmt.Printf("%s (%s)\n", version, revision)
		os.Exit(0)
	}

	desiredFile, currentFile, err := jsondef.ParseFiles(opts.File)
	if err != nil {
		log.Fatal(err)
	}

	// Flags switch on what the configs leave off.
	configs = append(configs, database.GeneratorConfig{
		EnableDrop:    opts.EnableDrop,
		CheckCollate:  opts.CheckCollate,
		CheckEngine:   opts.CheckEngine,
		OptimizeTypes: opts.OptimizeTypes,
	})
	config := database.MergeGeneratorConfigs(configs)

	options := jsondef.Options{
		DesiredFile: desiredFile,
		Export:      opts.Export,
		Debug:       opts.Debug,
		Config:      config,
	}

	if len(args) > 1 {
		fmt.Printf("Multiple databases are given: %v\n\n", args)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	var databaseName string
	if len(args) == 1 {
		if isDescriptionFile(args[0]) {
			currentFile = args[0]
		} else {
			databaseName = args[0]
		}
	}
	if databaseName == "" && currentFile == "" {
		fmt.Print("No database is specified!\n\n")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	sslMode, ok := driverSslMode(opts.SslMode)
	if !ok {
		fmt.Printf("Wrong value for ssl-mode is given: %v\n\n", opts.SslMode)
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	password, ok := os.LookupEnv("MYSQL_PWD")
	if !ok {
		password = opts.Password
	}

	if opts.Prompt {
		fmt.Printf("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			log.Fatal(err)
		}
		password = string(pass)
	}

	dbConfig := database.Config{
		DbName:                     databaseName,
		User:                       opts.User,
		Password:                   password,
		Host:                       opts.Host,
		Port:                       int(opts.Port),
		Socket:                     opts.Socket,
		MySQLEnableCleartextPlugin: opts.EnableCleartextPlugin,
		SslMode:                    sslMode,
		SslCa:                      opts.SslCa,
		DumpConcurrency:            config.DumpConcurrency,
	}
	return dbConfig, &options, currentFile
}

func isDescriptionFile(arg string) bool {
	for _, suffix := range descriptionSuffixes {
		if strings.HasSuffix(strings.ToLower(arg), suffix) {
			return true
		}
	}
	return false
}

// driverSslMode maps --ssl-mode to the tls parameter of the MySQL driver.
func driverSslMode(mode string) (string, bool) {
	switch strings.ToLower(mode) {
	case "disabled":
		return "false", true
	case "preferred":
		return "preferred", true
	case "required":
		return "true", true
	case "custom":
		return "custom", true
	default:
		return "", false
	}
}

func main() {
	util.InitSlog()
	config, options, currentFile := parseOptions(os.Args[1:])

	var db database.Database
	if len(currentFile) > 0 {
		db = file.NewDatabase(currentFile)
	} else {
		mysqlDB, err := mysql.NewDatabase(config)
		if err != nil {
			log.Fatal(err)
		}
		db = mysqlDB
	}

	err := jsondef.Run(db, options)
	db.Close()
	if err != nil {
		log.Fatal(err)
	}
}
