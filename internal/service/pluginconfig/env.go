package pluginconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix namespaces every variable read by the generator.
const EnvPrefix = "MIRAI_HTTP_"

// Defaults applied when a variable is unset.
const (
	DefaultPort      = 8080
	DefaultAuthKey   = "PLEASE_REPLACE_IT"
	DefaultUseReport = true
	DefaultReportURL = "http://172.17.0.1:5000/"
)

// ErrInvalidSetting is returned when a variable cannot be parsed.
var ErrInvalidSetting = errors.New("invalid plugin setting")

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Settings are the typed values read from the environment.
type Settings struct {
	Port      int
	AuthKey   string
	UseReport bool
	ReportURL string
}

// option binds one variable to its default and parser.
type option struct {
	name string
	def  string
	// emptyIsUnset makes an empty value fall back to the default.
	emptyIsUnset bool
	parser       func(value string, s *Settings) error
}

// options lists every recognized variable.
func options() []option {
	return []option{
		{name: "port", def: strconv.Itoa(DefaultPort), emptyIsUnset: true, parser: parsePort},
		{name: "authkey", def: DefaultAuthKey, parser: func(v string, s *Settings) error {
			s.AuthKey = v
			return nil
		}},
		{name: "use_report", def: strconv.FormatBool(DefaultUseReport), parser: func(v string, s *Settings) error {
			s.UseReport = IsTruthy(v)
			return nil
		}},
		{name: "report_url", def: DefaultReportURL, parser: func(v string, s *Settings) error {
			s.ReportURL = v
			return nil
		}},
	}
}

// EnvName returns the full variable name for an option, for example MIRAI_HTTP_PORT.
func EnvName(name string) string {
	return strings.ToUpper(EnvPrefix + name)
}

// Load reads every option through lookup, falling back to defaults.
// A nil lookup reads the process environment.
func Load(lookup LookupFunc) (*Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	settings := new(Settings)

	for _, opt := range options() {
		key := EnvName(opt.name)

		value, ok := lookup(key)
		if !ok || (opt.emptyIsUnset && value == "") {
			value = opt.def
		}

		if err := opt.parser(value, settings); err != nil {
			return nil, fmt.Errorf("%w: %s=%q: %w", ErrInvalidSetting, key, value, err)
		}
	}

	return settings, nil
}

// IsTruthy reports whether s is one of "1", "true", "yes" or "on", ignoring case.
// Surrounding whitespace is not stripped.
func IsTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

var errPortRange = errors.New("port must be between 1 and 65535")

func parsePort(v string, s *Settings) error {
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errPortRange
	}

	s.Port = port

	return nil
}
