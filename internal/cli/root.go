package cli

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command; without a subcommand it generates the dashboard
var rootCmd = &cobra.Command{
	Use:   "ideaboard",
	Short: "ideaboard - static dashboard for idea proposal documents",
	Long: `ideaboard reads the Idea-*.md proposal documents of a repository and
generates one self-contained HTML page with:
- A sortable, searchable table of every idea
- Contributors from commit history, discussion threads and pull requests
- A matrix of ideas that reference each other
- The most-connected ideas

Running ideaboard without a subcommand is the same as 'ideaboard generate'.`,
	Args:          cobra.NoArgs,
	RunE:          runGenerate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of ideaboard.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ideaboard %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ideaboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	addGenerateFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.ideaboard")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	configureEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureEnv maps every configuration key to an IDEABOARD_* variable
// (output.dir -> IDEABOARD_OUTPUT_DIR)
func configureEnv() {
	viper.SetEnvPrefix("IDEABOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees keys viper knows, and the defaults live in a struct
	bindEnvKeys(reflect.TypeOf(model.Config{}), "")

	// Well-known credentials keep their usual names
	_ = viper.BindEnv("github.token", "GITHUB_TOKEN", "IDEABOARD_GITHUB_TOKEN")
	_ = viper.BindEnv("llm.api_key", "OPENAI_API_KEY", "IDEABOARD_LLM_API_KEY")
	_ = viper.BindEnv("llm.base_url", "OPENAI_BASE_URL", "IDEABOARD_LLM_BASE_URL")
}

var durationType = reflect.TypeOf(time.Duration(0))

// bindEnvKeys binds the mapstructure key path of every scalar field below t.
// Lists of tables (repo_map, ordering) are left to the config file.
func bindEnvKeys(t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			continue
		}
		key := prefix + name

		switch {
		case field.Type.Kind() == reflect.Struct && field.Type != durationType:
			bindEnvKeys(field.Type, key+".")
		case field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct:
			continue
		default:
			_ = viper.BindEnv(key)
		}
	}
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	cfg.Verbose = cfg.Verbose || verbose
	return cfg, nil
}

// newLogger builds the diagnostics logger; --verbose adds debug records
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
