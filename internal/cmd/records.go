package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/cocoon/internal/launcher"
	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/record"
	"github.com/gravitrone/cocoon/internal/search"
)

// AddCmd returns the `cocoon add` command.
func AddCmd() *cobra.Command {
	var (
		typ, owner, defaultField, link string
		fieldArgs                      []string
		temporary                      bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a document record",
		Example: `  cocoon add --type Passport --owner alice --default number \
    --field number=P1234567 --field country=USA --link https://drive.example.com/p.pdf`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if strings.TrimSpace(typ) == "" {
				return fmt.Errorf("--type is required")
			}
			fields, err := record.ParseFieldPairs(fieldArgs)
			if err != nil {
				return err
			}
			if defaultField != "" {
				if _, ok := fields.Get(defaultField); !ok {
					return fmt.Errorf("default field %q is not one of the given fields", defaultField)
				}
			}
			if link != "" {
				if err := platform.ValidateLink(link); err != nil {
					return err
				}
			}

			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			rec := record.New(strings.TrimSpace(typ))
			rec.Owner = strings.TrimSpace(owner)
			rec.DefaultField = defaultField
			rec.Fields = fields
			rec.FileLink = strings.TrimSpace(link)
			rec.IsTemporary = temporary

			next, err := s.records.Add(rec)
			if err != nil {
				return err
			}
			if err := s.save(c.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "added %s (%s)\n", rec.Label(), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "document type, e.g. Passport")
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "owner name used by @owner queries")
	cmd.Flags().StringVarP(&defaultField, "default", "d", "", "field copied when the record is committed")
	cmd.Flags().StringArrayVarP(&fieldArgs, "field", "f", nil, "field as key=value (repeatable, order kept)")
	cmd.Flags().StringVarP(&link, "link", "l", "", "http(s) link to the scanned file")
	cmd.Flags().BoolVar(&temporary, "temporary", false, "mark the record as temporary")
	return cmd
}

// ListCmd returns the `cocoon list` command.
func ListCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			out := c.OutOrStdout()
			n := 0
			for _, rec := range s.records {
				if owner != "" && !rec.OwnedBy(owner) {
					continue
				}
				value, _ := rec.DefaultValue()
				fmt.Fprintf(out, "  %s  %s  %s\n", rec.ID, rec.Label(), value)
				n++
			}
			if n == 0 {
				fmt.Fprintln(out, "no records found")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "only records of this owner")
	return cmd
}

// SearchCmd returns the `cocoon search` command.
func SearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Rank records against a query",
		Long:  "Rank records against a query. A leading or standalone @name limits results to that owner.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			out := c.OutOrStdout()
			results := search.NewEngine().Search(s.records, strings.Join(args, " "))
			if len(results) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for i, r := range results {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(out, "  %.3f  %s  %s\n", r.Score, r.Item.ID, r.Item.Label())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results (0 for all)")
	return cmd
}

// CopyCmd returns the `cocoon copy` command.
func CopyCmd() *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "copy <query...>",
		Short: "Copy the default field of the best match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.best(strings.Join(args, " "))
			if err != nil {
				return err
			}
			d := launcher.NewDispatcher(newClipboard(), nil, s.logger)

			var copied bool
			key := rec.DefaultField
			if field != "" {
				key = field
				copied, err = d.CopyField(rec, field)
			} else {
				copied, err = d.CopyDefaultField(rec)
			}
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			if !copied {
				fmt.Fprintf(out, "%s has no %q value to copy\n", rec.Label(), key)
				return nil
			}
			fmt.Fprintf(out, "copied %s of %s\n", key, rec.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "", "copy this field instead of the default")
	return cmd
}

// OpenCmd returns the `cocoon open` command.
func OpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <query...>",
		Short: "Open the file link of the best match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.best(strings.Join(args, " "))
			if err != nil {
				return err
			}
			d := launcher.NewDispatcher(nil, newOpener(s.cfg.DefaultBrowser, s.logger), s.logger)
			opened, err := d.OpenFileLink(c.Context(), rec)
			if err != nil {
				return err
			}
			if !opened {
				fmt.Fprintf(c.OutOrStdout(), "%s has no file link\n", rec.Label())
				return nil
			}
			fmt.Fprintf(c.OutOrStdout(), "opened %s\n", rec.FileLink)
			return nil
		},
	}
}

// RmCmd returns the `cocoon rm` command.
func RmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			rec, _ := s.records.Find(args[0])
			next, err := s.records.Remove(args[0])
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("no record with id %s", args[0])
				}
				return err
			}
			if err := s.save(c.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "removed %s\n", rec.Label())
			return nil
		},
	}
}
