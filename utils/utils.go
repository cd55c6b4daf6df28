package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigEnv names the environment variable holding the shared config file path.
const ConfigEnv = "NGSWRAP_CONFIG"

const envPrefix = "NGSWRAP"

type Config struct {
	Samtools   string `mapstructure:"samtools"`
	Java       string `mapstructure:"java"`
	JavaMem    string `mapstructure:"java_mem"`
	GatkJar    string `mapstructure:"gatk_jar"`
	VarScanJar string `mapstructure:"varscan_jar"`
	Python     string `mapstructure:"python"`
	Vcf2Maf    string `mapstructure:"vcf2maf"`
	Threads    int    `mapstructure:"threads"`
	SortMem    string `mapstructure:"sort_mem"`
	Journal    string `mapstructure:"journal"`

	// Source is the file the values were read from, empty when only
	// defaults and environment were used.
	Source string `mapstructure:"-"`
}

var memPattern = regexp.MustCompile(`^[0-9]+[kKmMgG]$`)

func setDefaults(v *viper.Viper) {
	v.SetDefault("samtools", "samtools")
	v.SetDefault("java", "java")
	v.SetDefault("java_mem", "4g")
	v.SetDefault("gatk_jar", "")
	v.SetDefault("varscan_jar", "")
	v.SetDefault("python", "python")
	v.SetDefault("vcf2maf", "")
	v.SetDefault("threads", 1)
	v.SetDefault("sort_mem", "768M")
	v.SetDefault("journal", "")
}

// configType maps shell style config files onto viper's dotenv reader.
func configType(configPath string) string {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case "", ".sh", ".env", ".cfg", ".conf":
		return "env"
	}
	return ""
}

// ReadConfig loads defaults, then the config file (configPath, or the file
// named by NGSWRAP_CONFIG when configPath is empty), then NGSWRAP_<KEY>
// environment overrides. The result is validated before it is returned.
func ReadConfig(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = os.Getenv(ConfigEnv)
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if t := configType(configPath); t != "" {
			v.SetConfigType(t)
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}
	cfg.Source = configPath

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Samtools == "" {
		return errors.New("config: samtools must not be empty")
	}
	if c.Java == "" {
		return errors.New("config: java must not be empty")
	}
	if !memPattern.MatchString(c.JavaMem) {
		return errors.Errorf("config: java_mem %q is not of the form <number>[kmg]", c.JavaMem)
	}
	if !memPattern.MatchString(c.SortMem) {
		return errors.Errorf("config: sort_mem %q is not of the form <number>[kmg]", c.SortMem)
	}
	if c.Threads < 1 {
		return errors.Errorf("config: threads must be at least 1, got %d", c.Threads)
	}
	return nil
}

// Vars returns the template values every wrapper shares.
func (c Config) Vars() map[string]interface{} {
	return map[string]interface{}{
		"samtools":    c.Samtools,
		"java":        c.Java,
		"java_mem":    c.JavaMem,
		"gatk_jar":    c.GatkJar,
		"varscan_jar": c.VarScanJar,
		"python":      c.Python,
		"vcf2maf":     c.Vcf2Maf,
		"threads":     strconv.Itoa(c.Threads),
		"sort_mem":    c.SortMem,
	}
}
