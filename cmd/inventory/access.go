package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/erazemk/inventory/internal/config"
	"github.com/erazemk/inventory/internal/db"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Manage access passwords",
}

var (
	accessPassword string
	accessPerms    []string

	grantPassword string
	grantCategory string
	grantItem     string
)

// errUnknownPassword is returned when no access record uses a password.
var errUnknownPassword = errors.New("no access record uses this password")

var accessAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an access password",
	Long: `Create an access password with the given capabilities. When no
password is given a random one is generated and printed.

Capabilities: all, insert, update, upload, delete.`,
	Args: cobra.NoArgs,
	RunE: runAccessAdd,
}

var accessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List access records",
	Args:  cobra.NoArgs,
	RunE:  runAccessList,
}

var accessGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Let an access password change an existing category or item",
	Args:  cobra.NoArgs,
	RunE:  runAccessGrant,
}

func init() {
	accessGrantCmd.Flags().StringVarP(&grantPassword, "password", "p", "", "existing access password (required)")
	accessGrantCmd.Flags().StringVar(&grantCategory, "category", "", "category id")
	accessGrantCmd.Flags().StringVar(&grantItem, "item", "", "item id")
	accessGrantCmd.MarkFlagRequired("password")
	accessGrantCmd.MarkFlagsMutuallyExclusive("category", "item")
	accessGrantCmd.MarkFlagsOneRequired("category", "item")

	accessAddCmd.Flags().StringVarP(&accessPassword, "password", "p", "", "password (default: generated)")
	accessAddCmd.Flags().StringSliceVarP(&accessPerms, "allow", "a", nil, "capability to grant (repeatable or comma separated)")

	accessCmd.AddCommand(accessAddCmd)
	accessCmd.AddCommand(accessListCmd)
	accessCmd.AddCommand(accessGrantCmd)
}

// parsePerms converts capability names into Perms.
func parsePerms(names []string) (model.Perms, error) {
	var perms model.Perms
	for _, name := range names {
		c, ok := model.ParseCapability(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			return perms, fmt.Errorf("unknown capability %q", name)
		}
		perms.Set(c)
	}
	return perms, nil
}

// openStore opens and migrates the configured database.
func openStore() (*store.Store, *sql.DB, error) {
	database, err := db.Open(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("preparing schema: %w", err)
	}
	return store.New(database), database, nil
}

// checkPasswordLength applies the same bounds the web forms use. password
// must already be trimmed, as that is the form that gets stored.
func checkPasswordLength(password string, limit config.Range) error {
	if n := utf8.RuneCountInString(password); n < limit.Min || n > limit.Max {
		return fmt.Errorf("password must be between %d and %d characters", limit.Min, limit.Max)
	}
	return nil
}

func runAccessAdd(cmd *cobra.Command, args []string) error {
	perms, err := parsePerms(accessPerms)
	if err != nil {
		return err
	}

	password := strings.TrimSpace(accessPassword)
	generated := password == ""
	if generated {
		password, err = generatePassword(16)
		if err != nil {
			return fmt.Errorf("generating password: %w", err)
		}
	}
	if err := checkPasswordLength(password, cfg.Limits.Password); err != nil {
		return err
	}

	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	a, err := st.CreateAccess(context.Background(), password, perms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Access created: %s\n", a.ID)
	fmt.Fprintf(out, "  Capabilities: %s\n", formatPerms(a.Perms))
	if generated {
		fmt.Fprintf(out, "  Password: %s\n", password)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Save this password, it cannot be recovered.")
	}
	return nil
}

func runAccessList(cmd *cobra.Command, args []string) error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	list, err := st.ListAccess(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No access records.")
		return nil
	}
	for _, a := range list {
		fmt.Fprintf(out, "%s  %s\n", a.ID, formatPerms(a.Perms))
	}
	return nil
}

func runAccessGrant(cmd *cobra.Command, args []string) error {
	target := model.CategoryTarget(grantCategory)
	if grantItem != "" {
		target = model.ItemTarget(grantItem)
	}

	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	g, err := grantAccess(context.Background(), st, grantPassword, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Granted access %s on %s %s.\n", g.AccessID, target.Kind, target.ID)
	return nil
}

// grantAccess links the access owning password to an existing target.
func grantAccess(ctx context.Context, st *store.Store, password string, target model.Target) (*model.InstanceAccess, error) {
	if !model.ValidID(target.ID) {
		return nil, fmt.Errorf("invalid %s id %q", target.Kind, target.ID)
	}

	a, err := st.GetAccessByPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errUnknownPassword
	}

	var exists bool
	switch target.Kind {
	case model.KindCategory:
		exists, err = st.CategoryExists(ctx, target.ID)
	case model.KindItem:
		var item *model.Item
		item, err = st.GetItem(ctx, target.ID)
		exists = item != nil
	}
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s %s not found", target.Kind, target.ID)
	}

	granted, err := st.HasGrant(ctx, a.ID, target)
	if err != nil {
		return nil, err
	}
	if granted {
		return nil, fmt.Errorf("access %s is already granted on %s %s", a.ID, target.Kind, target.ID)
	}
	return st.CreateGrant(ctx, a.ID, target)
}

func formatPerms(p model.Perms) string {
	granted := p.Granted()
	if len(granted) == 0 {
		return "(none)"
	}
	names := make([]string, len(granted))
	for i, c := range granted {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}
