package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

// options is the parsed command line.
type options struct {
	version  bool
	debug    bool
	print    bool
	headless bool

	birth   string
	month   string
	vcard   string
	contact string
	port    string
	envFile string

	// envLoaded names the dotenv file that was read, if any.
	envLoaded string
}

// parseOptions reads args, then fills flags left unset from the environment.
// A dotenv file never overrides variables already present in the process environment.
func parseOptions(args []string) (options, error) {
	var o options

	fset := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fset.BoolVar(&o.version, config.FlagVersion, false, config.FlagDescVersion)
	fset.BoolVar(&o.debug, config.FlagDebug, false, config.FlagDescDebug)
	fset.BoolVar(&o.print, config.FlagPrint, false, config.FlagDescPrint)
	fset.BoolVar(&o.headless, config.FlagHeadless, false, config.FlagDescHeadless)
	fset.StringVar(&o.birth, config.FlagBirth, "", config.FlagDescBirth)
	fset.StringVar(&o.month, config.FlagMonth, "", config.FlagDescMonth)
	fset.StringVar(&o.vcard, config.FlagVCard, "", config.FlagDescVCard)
	fset.StringVar(&o.contact, config.FlagContact, "", config.FlagDescContact)
	fset.StringVar(&o.port, config.FlagPort, "", config.FlagDescPort)
	fset.StringVar(&o.envFile, config.FlagEnvFile, "", config.FlagDescEnvFile)

	if err := fset.Parse(args); err != nil {
		return o, err
	}

	explicit := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	loaded, err := loadEnvFile(o.envFile)
	if err != nil {
		return o, err
	}
	o.envLoaded = loaded

	for _, v := range []struct {
		flag, env string
		dst       *string
	}{
		{config.FlagBirth, config.EnvBirth, &o.birth},
		{config.FlagMonth, config.EnvMonth, &o.month},
		{config.FlagVCard, config.EnvVCard, &o.vcard},
		{config.FlagContact, config.EnvContact, &o.contact},
		{config.FlagPort, config.EnvPort, &o.port},
	} {
		if !explicit[v.flag] {
			if val, ok := os.LookupEnv(v.env); ok {
				*v.dst = strings.TrimSpace(val)
			}
		}
	}

	return o, nil
}

// loadEnvFile reads path, or the default .env when path is empty.
// Only an explicitly named file is required to exist.
func loadEnvFile(path string) (string, error) {
	required := path != ""
	if !required {
		path = config.EnvFileName
	}

	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", config.ErrEnvFile, err)
	}
	return path, nil
}

// runMode picks the entry point; -print wins over -headless.
func (o options) runMode() string {
	switch {
	case o.print:
		return config.RunModePrint
	case o.headless:
		return config.RunModeHeadless
	default:
		return config.RunModeGUI
	}
}

// chartConfig maps the command line to an engine request.
// -vcard takes precedence over -birth.
func (o options) chartConfig() engine.ChartConfig {
	cfg := engine.ChartConfig{
		Mode:      config.SourceModeManual,
		BirthDate: o.birth,
		Contact:   o.contact,
		Month:     o.month,
	}
	if o.vcard == "" {
		return cfg
	}

	u, err := url.Parse(o.vcard)
	if err != nil || (u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS) {
		cfg.Mode = config.SourceModeLocal
		cfg.LocalPath = o.vcard
		return cfg
	}

	// Credentials embedded in the URL become Basic Auth.
	cfg.Mode = config.SourceModeWeb
	if u.User != nil {
		cfg.WebUser = u.User.Username()
		cfg.WebPass, _ = u.User.Password()
		u.User = nil
	}
	cfg.WebURL = u.String()
	return cfg
}
