// Command adduser creates an account directly in the database, used to
// bootstrap the first admin before the HTTP API has any users.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/fnutaifi/custody-sheets/internal/auth"
	"github.com/fnutaifi/custody-sheets/internal/models"
	"github.com/fnutaifi/custody-sheets/internal/repository"
	"github.com/fnutaifi/custody-sheets/pkg/database"
	"github.com/fnutaifi/custody-sheets/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Login email")
	role := fs.String("role", models.RoleAdmin, "Role (Admin, TeamLead or Employee)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "data/custody.db", "Path to database file")
	migrationsDir := fs.String("migrations", "migrations", "Path to migrations directory")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: name, email")
	}
	if err := utils.ValidateEmail(*email); err != nil {
		return err
	}
	if !models.ValidRole(*role) {
		return fmt.Errorf("invalid role: %s", *role)
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	logger := zap.NewNop()
	db, err := database.New(database.Config{Path: *dbPath}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewMigrator(db, logger).RunMigrations(*migrationsDir); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password, 0)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        *email,
		PasswordHash: hash,
		Name:         *name,
		Role:         *role,
	}
	if err := repository.NewUserRepository(db.DB, logger).Create(user); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Created %s account %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	// Non-terminal input (pipes, tests)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
