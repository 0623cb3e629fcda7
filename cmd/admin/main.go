// Command admin runs maintenance tasks against the configured store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/s/learnhub/internal/account"
	"github.com/s/learnhub/internal/app"
	"github.com/s/learnhub/internal/config"
	"github.com/s/learnhub/internal/models"
	"github.com/s/learnhub/internal/storage"
)

type opener func(ctx context.Context) (storage.Store, error)

type cli struct {
	app *kingpin.Application

	migrateCmd *kingpin.CmdClause

	setRoleCmd *kingpin.CmdClause
	setRoleUID *string
	setRole    *string

	usersCmd    *kingpin.CmdClause
	usersRole   *string
	usersSearch *string
	usersLimit  *int
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("admin", "LearnHub maintenance commands")}
	c.app.UsageTemplate(kingpin.CompactUsageTemplate)

	c.migrateCmd = c.app.Command("migrate", "Create indexes or tables for the configured store")

	c.setRoleCmd = c.app.Command("set-role", "Change a user's role")
	c.setRoleUID = c.setRoleCmd.Arg("uid", "User id").Required().String()
	c.setRole = c.setRoleCmd.Arg("role", "admin, instructor or student").Required().Enum("admin", "instructor", "student")

	c.usersCmd = c.app.Command("users", "List users, newest first")
	c.usersRole = c.usersCmd.Flag("role", "Only users with this role").Enum("admin", "instructor", "student")
	c.usersSearch = c.usersCmd.Flag("search", "Substring of name or email").String()
	c.usersLimit = c.usersCmd.Flag("limit", "Maximum rows").Default("50").Int()
	return c
}

func (c *cli) run(ctx context.Context, args []string, open opener, out io.Writer) error {
	cmd, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	store, err := open(ctx)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close(context.Background())

	accounts := account.NewService(store.Users())

	switch cmd {
	case c.migrateCmd.FullCommand():
		if err := store.Migrate(ctx); err != nil {
			return errors.Wrap(err, "migrate")
		}
		fmt.Fprintln(out, "migrated")

	case c.setRoleCmd.FullCommand():
		if err := accounts.SetRole(ctx, *c.setRoleUID, models.Role(*c.setRole)); err != nil {
			return errors.Wrapf(err, "set role of %s", *c.setRoleUID)
		}
		fmt.Fprintf(out, "%s is now %s\n", *c.setRoleUID, *c.setRole)

	case c.usersCmd.FullCommand():
		users, err := accounts.List(ctx, storage.UserFilter{
			Role:   models.Role(*c.usersRole),
			Search: *c.usersSearch,
			Page:   storage.Page{Limit: *c.usersLimit},
		})
		if err != nil {
			return errors.Wrap(err, "list users")
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "UID\tROLE\tNAME\tEMAIL\tLAST LOGIN")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.UID, u.Role, u.DisplayName, u.Email, u.LastLoginAt.Format(time.RFC3339))
		}
		return tw.Flush()
	}
	return nil
}

func main() {
	log := logrus.New()
	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	open := func(ctx context.Context) (storage.Store, error) {
		return app.OpenStore(ctx, cfg, log)
	}
	if err := newCLI().run(context.Background(), os.Args[1:], open, os.Stdout); err != nil {
		log.WithError(err).Fatal("admin command failed")
	}
}
