package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags, keeping
// each flag's value when it is passed as a separate argument.
//
// Supported forms:
//
//	-c conf.json
//	-config=conf.json
//
// Several loaders (JSON file, env file, flags) read the same command line;
// filtering lets each of them parse only what it owns.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// LookupString returns the value of the last occurrence of any of names
// ("-c", "-config") in args, or "" when none is present.
func LookupString(args []string, names ...string) string {
	var value string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, strings.TrimLeft(n, "-"), "", "")
	}
	_ = fs.Parse(FilterArgs(args, names))

	return value
}

// ConfigPath is the JSON config file given with -c or -config.
func ConfigPath(args []string) string {
	return LookupString(args, "-c", "-config")
}

// EnvFilePath is the dotenv file given with -e or -env.
func EnvFilePath(args []string) string {
	return LookupString(args, "-e", "-env")
}
