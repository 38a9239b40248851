package config

import (
	"flag"
	"os"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend gateway (default from Config)
//	-q string   Redis address for the change channel
//	-f string   path of the local SQLite database file
//	-i int      online check interval in seconds
//	-g string   guard identifier stamped on submissions
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-q", "-f", "-i", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the backend gateway")
	fs.StringVar(&cfg.RedisAddr, "q", cfg.RedisAddr, "redis address for the change channel")
	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path of the local database file")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.GuardID, "g", cfg.GuardID, "guard identifier")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
