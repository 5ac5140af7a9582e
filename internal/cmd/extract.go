package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/cocoon/internal/config"
	"github.com/gravitrone/cocoon/internal/extract"
	"github.com/gravitrone/cocoon/internal/extract/gemini"
)

// newExtractor builds the model client; replaced in tests.
var newExtractor = func(ctx context.Context, cfg *config.Config) (extract.Extractor, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	client, err := gemini.NewClient(ctx, key)
	if err != nil {
		return nil, err
	}
	return gemini.NewExtractor(client, cfg.GeminiModel), nil
}

// ExtractCmd returns the `cocoon extract` command.
func ExtractCmd() *cobra.Command {
	var (
		typ, owner string
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Create a record from a photo of a document",
		Long: "Send a document photo to Gemini, print the extracted fields and store them as a new record.\n" +
			"Reads the API key from GEMINI_API_KEY or GOOGLE_API_KEY.",
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if strings.TrimSpace(typ) == "" {
				return fmt.Errorf("--type is required")
			}
			img, err := extract.LoadImage(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(c.Context(), c.InOrStdin(), c.OutOrStdout(), c.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			ex, err := newExtractor(c.Context(), s.cfg)
			if err != nil {
				return err
			}
			s.logger.Debug("extracting", "image", args[0], "type", typ)
			res, err := ex.Extract(c.Context(), img, typ)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			out := c.OutOrStdout()
			rec := extract.ToRecord(res, typ, owner)
			rec.Fields.Each(func(k, v string) {
				fmt.Fprintf(out, "  %s: %s\n", k, v)
			})
			if dryRun {
				return nil
			}

			next, err := s.records.Add(rec)
			if err != nil {
				return err
			}
			if err := s.save(c.Context(), next); err != nil {
				return err
			}
			fmt.Fprintf(out, "added %s (%s)\n", rec.Label(), rec.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "document type, e.g. Passport")
	cmd.Flags().StringVarP(&owner, "owner", "o", "", "owner of the document")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the fields without storing a record")
	return cmd
}
