/*
Ll1gen-server starts the generation service and begins listening for new
connections.

Usage:

	ll1gen-server [flags]
	ll1gen-server [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using a REST protocol. By default, it will listen on localhost:8080. This
can be changed with the --listen/-l flag (or config via environment var).
The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

If a JWT token secret is not given, one will be automatically generated and
seeded with the current system time. As a consequence, in this mode of
operation all tokens are rendered invalid as soon as the server shuts down.
This is suitable for testing, but must be given via either CLI flags or
environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the ll1gen server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable LL1GEN_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable LL1GEN_TOKEN_SECRET. If no secret is specified
		or an empty secret is given, a random secret will be automatically
		generated. Note that any tokens issued with a random secret will
		become invalid as soon as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If not
		given, will default to the value of environment variable
		LL1GEN_DATABASE. If no DB driver is specified or an empty one is
		given, an in-memory database is automatically selected.

	--cache DIR
		Memoize generation runs under DIR, keyed by grammar text. If not
		given, the server runs without a build cache.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/ll1gen/server"
)

const (
	EnvListen = "LL1GEN_LISTEN_ADDRESS"
	EnvSecret = "LL1GEN_TOKEN_SECRET"
	EnvDB     = "LL1GEN_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the ll1gen server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagCache   = pflag.String("cache", "", "Memoize generation runs under the given directory.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.ServerCurrent)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		dbConnStr = "inmem"
	}
	db, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	tokSecret, err := resolveTokenSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          db,
		CacheDir:    *flagCache,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	log.Printf("INFO  Starting %s on %s...", version.ServerCurrent, listenAddr)
	if err := http.ListenAndServe(listenAddr, srv); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

// resolveTokenSecret reads the token secret from the --secret flag or its
// environment variable, padding it to the minimum size by repetition, or
// generates a random one if none is given.
func resolveTokenSecret() ([]byte, error) {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	if tokSecStr == "" {
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret, nil
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < server.MinSecretSize {
		doubled := make([]byte, len(tokSecret)*2)
		copy(doubled, tokSecret)
		copy(doubled[len(tokSecret):], tokSecret)
		tokSecret = doubled
	}
	if len(tokSecret) > server.MaxSecretSize {
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(tokSecret), server.MaxSecretSize)
	}
	return tokSecret, nil
}
