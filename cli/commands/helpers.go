package commands

import (
	"context"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/satishbabariya/sqlshim/cli/internal/config"
	"github.com/satishbabariya/sqlshim/cli/internal/ui"
	"github.com/satishbabariya/sqlshim/runtime/client"
)

// readSQL treats input as a file path when such a file exists and as a
// statement otherwise.
func readSQL(fs afero.Fs, input string) (sql string, fromFile bool, err error) {
	if ok, _ := afero.Exists(fs, input); !ok {
		return input, false, nil
	}
	data, err := afero.ReadFile(fs, input)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(string(data)), true, nil
}

// parseArgs converts command-line placeholder arguments. NULL becomes nil
// and decimal numbers become int64 or float64. Anything else stays a
// string; single quotes force a string.
func parseArgs(raw []string) []any {
	out := make([]any, len(raw))
	for i, s := range raw {
		out[i] = parseArg(s)
	}
	return out
}

func parseArg(s string) any {
	if strings.EqualFold(s, "NULL") {
		return nil
	}
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return s[1 : len(s)-1]
	}
	// Zero-padded values such as zip codes stay strings.
	if digits := strings.TrimPrefix(s, "-"); len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return s
	}
	if n, err := cast.ToInt64E(s); err == nil && !strings.ContainsAny(s, ".eExX") {
		return n
	}
	if f, err := cast.ToFloat64E(s); err == nil && !strings.ContainsAny(s, "xX") {
		return f
	}
	return s
}

// offlineClient prepares and translates without a connection.
func offlineClient() (*client.Client, error) {
	opts, err := cfg.ClientOptions(logger)
	if err != nil {
		return nil, err
	}
	return client.New(nil, opts), nil
}

// connect opens a client with the loaded configuration.
func connect(ctx context.Context) (*client.Client, error) {
	opts, err := cfg.ClientOptions(logger)
	if err != nil {
		return nil, err
	}

	spinner, _ := ui.PrintSpinner("Connecting to " + opts.Dialect.DriverName() + "...")
	c, err := client.Open(ctx, cfg.Connect(), opts)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	c.Use(client.LoggingMiddleware(logger))
	return c, nil
}

func appFs() afero.Fs { return config.AppFs }
