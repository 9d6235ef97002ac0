// Package cli implements the matrix command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"eisenhower-matrix/config"
)

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree around a fresh viper instance.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile, envFile string

	root := &cobra.Command{
		Use:          "matrix",
		Short:        "Eisenhower matrix task store",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			return config.ReadFile(v, cfgFile)
		},
	}

	fs := root.PersistentFlags()
	fs.StringVar(&cfgFile, "config", "", "config file path (default: ./matrix.yaml)")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.String("log-level", "info", "log level: debug | info | warn | error")
	fs.String("log-format", "text", "log format: text | json")
	fs.String("storage-backend", "file", "storage backend: file | sqlite | redis | table | memory")
	fs.String("storage-dir", "./data", "directory used by the file backend")
	fs.String("sqlite-path", "./data/matrix.db", "database path used by the sqlite backend")
	fs.String("redis-connection-string", "", "redis URL or host:port,password=...,ssl=true")
	fs.String("redis-prefix", "matrix:", "prefix applied to redis keys")
	fs.String("table-connection-string", "", "Azure storage connection string")
	fs.String("table-name", "matrix", "Azure table name")
	fs.String("table-partition", "matrix", "Azure table partition key")

	bindFlag(v, "log_level", fs, "log-level")
	bindFlag(v, "log_format", fs, "log-format")
	bindFlag(v, "storage_backend", fs, "storage-backend")
	bindFlag(v, "storage_dir", fs, "storage-dir")
	bindFlag(v, "sqlite_path", fs, "sqlite-path")
	bindFlag(v, "redis_connection_string", fs, "redis-connection-string")
	bindFlag(v, "redis_prefix", fs, "redis-prefix")
	bindFlag(v, "table_connection_string", fs, "table-connection-string")
	bindFlag(v, "table_name", fs, "table-name")
	bindFlag(v, "table_partition", fs, "table-partition")

	root.AddCommand(
		newServeCmd(v),
		newClearCmd(v),
		newExportCmd(v),
		newInitStorageCmd(v),
		newVersionCmd(),
	)
	return root
}

func bindFlag(v *viper.Viper, key string, fs *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", name, key, err))
	}
}
