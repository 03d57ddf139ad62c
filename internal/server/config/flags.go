package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string         REST bind address (e.g. ":8080")
//	-g string         gRPC health bind address (e.g. ":50051")
//	-d string         PostgreSQL DSN
//	-s string         session signing key
//	-t duration       session lifetime (e.g. "168h")
//	-o string         comma-separated CORS origins
//	-m string         RabbitMQ URL
//	-l string         log level
//	-cookie-secure    force the Secure cookie attribute
//	-enforce-types    enforce note type roles
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// -c/-config and -env do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-g", "-d", "-s", "-t", "-o", "-m", "-l",
		"-cookie-secure", "--cookie-secure", "-enforce-types", "--enforce-types",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the REST API")
	fs.StringVar(&config.EndpointAddrHealth, "g", config.EndpointAddrHealth, "address and port to run the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session signing key")
	fs.DurationVar(&config.SessionDuration, "t", config.SessionDuration, "session lifetime")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")
	fs.StringVar(&config.AMQPURL, "m", config.AMQPURL, "RabbitMQ URL (empty disables events)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.CookieSecure, "cookie-secure", config.CookieSecure, "always set the Secure cookie attribute")
	fs.BoolVar(&config.EnforceNoteTypeRoles, "enforce-types", config.EnforceNoteTypeRoles, "reject note types the author's role may not create")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CORSOrigins = splitList(*origins)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
