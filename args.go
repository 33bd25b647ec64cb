package main

import "flag"

// Args are command line arguments.
type Args struct {
	IRCDir      string
	Server      string
	Port        string
	Nick        string
	PasswordVar string
	RealName    string
	ConfigFile  string
	Debug       bool
}

func getArgs() *Args {
	ircDir := flag.String("i", "", "Base IRC directory (default: ~/irc).")
	server := flag.String("s", "",
		"Server to connect to (default: irc.freenode.net).")
	port := flag.String("p", "", "TCP port on the server (default: 6667).")
	nick := flag.String("n", "", "Nickname (default: login name).")
	passwordVar := flag.String(
		"k",
		"",
		"Name of an environment variable holding the server password (optional).",
	)
	realName := flag.String("f", "", "Real name (default: nickname).")
	configFile := flag.String("conf", "", "Configuration file (optional).")
	debug := flag.Bool("debug", false,
		"Log each line read from and written to the server.")

	flag.Parse()

	return &Args{
		IRCDir:      *ircDir,
		Server:      *server,
		Port:        *port,
		Nick:        *nick,
		PasswordVar: *passwordVar,
		RealName:    *realName,
		ConfigFile:  *configFile,
		Debug:       *debug,
	}
}
