// Command admin creates the first administrator or promotes an existing
// account:
//
//	admin -d postgres://... -email root@example.com [-name Root]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/admincli"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	opts, err := admincli.ParseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)
	b := admincli.NewBootstrapper(db, rm, auth.NewBcryptHasher(bcrypt.DefaultCost), os.Stdin, os.Stdout, logger)

	user, outcome, err := b.Bootstrap(ctx, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("%s: %s <%s> (%s)\n", outcome, user.Name, user.Email, user.ID)
}
