package main

import (
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Default connection settings.
const (
	defaultServer = "irc.freenode.net"
	defaultPort   = "6667"

	// Directory under the home directory holding all server trees.
	defaultIRCDirName = "irc"
)

// defaultPingTimeout is how long the server may stay silent before we
// consider the connection dead. We ping it at a third of this.
const defaultPingTimeout = 300 * time.Second

// Config holds the client's settings after the command line, the optional
// config file, and the built-in defaults are merged.
type Config struct {
	IRCDir   string
	Server   string
	Port     string
	Nick     string
	RealName string

	// Password to send with PASS. HasPassword says whether to send one at
	// all: an unset environment variable means no PASS.
	Password    string
	HasPassword bool

	// Period of time the server may be silent before we give up.
	PingTimeout time.Duration

	Debug bool
}

// loadConfig merges the command line arguments, the optional config file,
// and the built-in defaults, then resolves the identity pieces that come
// from the passwd database.
//
// Precedence: flag, then config file, then default.
func loadConfig(args *Args) (*Config, error) {
	cfg := &Config{
		Server:      defaultServer,
		Port:        defaultPort,
		PingTimeout: defaultPingTimeout,
		Debug:       args.Debug,
	}

	fileValues := map[string]string{}
	if args.ConfigFile != "" {
		var err error
		fileValues, err = config.ReadStringMap(args.ConfigFile)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read config %s",
				args.ConfigFile)
		}
	}

	pick := func(flagValue, key string) string {
		if flagValue != "" {
			return flagValue
		}
		return fileValues[key]
	}

	if v := pick(args.Server, "server"); v != "" {
		cfg.Server = v
	}
	if v := pick(args.Port, "port"); v != "" {
		cfg.Port = v
	}
	cfg.IRCDir = pick(args.IRCDir, "irc-dir")
	cfg.Nick = pick(args.Nick, "nick")
	cfg.RealName = pick(args.RealName, "realname")

	if v := fileValues["ping-timeout"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, "ping-timeout is in invalid format")
		}
		cfg.PingTimeout = d
	}

	passwordVar := pick(args.PasswordVar, "password-env")
	if passwordVar != "" {
		if v, ok := os.LookupEnv(passwordVar); ok {
			cfg.Password = v
			cfg.HasPassword = true
		}
	}

	if err := resolveIdentity(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveIdentity fills in the pieces we take from the passwd database:
// the irc directory under the home directory and the login name as the
// nick. The real name falls back to the nick.
func resolveIdentity(cfg *Config) error {
	if cfg.IRCDir == "" || cfg.Nick == "" {
		u, err := user.Current()
		if err != nil {
			return errors.Wrap(err, "cannot look up current user")
		}

		if cfg.IRCDir == "" {
			cfg.IRCDir = u.HomeDir + "/" + defaultIRCDirName
		}
		if cfg.Nick == "" {
			cfg.Nick = u.Username
		}
	}

	if cfg.RealName == "" {
		cfg.RealName = cfg.Nick
	}

	cfg.IRCDir = strings.TrimRight(cfg.IRCDir, "/")

	return nil
}
