package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/llm"
)

var (
	catalogCategory string
	catalogProvider string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and edit the food catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		source, closeSource, err := e.source(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer closeSource()

		catalog, err := source.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		categories := food.Categories
		if catalogCategory != "" {
			cat, err := food.ParseCategory(catalogCategory)
			if err != nil {
				return err
			}
			categories = []food.Category{cat}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tNAME\tKCAL\tCARB\tPROTEIN\tFAT\tALLERGENS")
		for _, cat := range categories {
			for _, item := range catalog.Items(cat) {
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%s\n",
					cat, item.Name, item.Kcal, item.Carb, item.Protein, item.Fat, strings.Join(item.Allergens, ","))
			}
		}
		return w.Flush()
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the catalog in use as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		source, closeSource, err := e.source(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer closeSource()

		catalog, err := source.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		data, err := food.MarshalCatalog(catalog)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Copy a YAML catalog (or the built-in one) into the database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		catalog, err := food.NewFileSource(path).Load(cmd.Context())
		if err != nil {
			return err
		}

		repo := food.NewRepository(e.db.SQL)
		saved, skipped := 0, 0
		for _, cat := range food.Categories {
			res, err := app.ImportItems(cmd.Context(), repo, cat, catalog.Items(cat), e.logger)
			if err != nil {
				return err
			}
			saved += res.Saved
			skipped += len(res.Skipped)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items (%d already present).\n", saved, skipped)
		return nil
	},
}

var catalogScrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Import items from a web page with a nutrition table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := food.ParseCategory(catalogCategory)
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := app.ImportFromURL(cmd.Context(), food.NewScraper(), food.NewRepository(e.db.SQL), args[0], cat, e.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items (%d already present).\n", res.Saved, len(res.Skipped))
		return nil
	},
}

var catalogEstimateCmd = &cobra.Command{
	Use:   "estimate <name>",
	Short: "Estimate a dish's nutrition with an LLM and add it to the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := food.ParseCategory(catalogCategory)
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		var textGen llm.TextGenerator
		switch catalogProvider {
		case "gemini":
			if e.cfg.GeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY environment variable not set")
			}
			gemini, err := llm.NewGeminiClient(cmd.Context(), e.cfg.GeminiAPIKey)
			if err != nil {
				return fmt.Errorf("failed to initialize Gemini client: %w", err)
			}
			defer gemini.Close()
			textGen = gemini
		case "groq":
			if e.cfg.GroqAPIKey == "" {
				return fmt.Errorf("GROQ_API_KEY environment variable not set")
			}
			textGen = llm.NewGroqClient(e.cfg.GroqAPIKey)
		default:
			return fmt.Errorf("unknown provider %q (want gemini or groq)", catalogProvider)
		}

		item, err := app.EstimateAndSave(cmd.Context(), food.NewEstimator(textGen), food.NewRepository(e.db.SQL), args[0], cat, e.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %g kcal, carb %g g, protein %g g, fat %g g, allergens [%s]\n",
			item.Name, item.Kcal, item.Carb, item.Protein, item.Fat, strings.Join(item.Allergens, ","))
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove an item from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := food.ParseCategory(catalogCategory)
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		return food.NewRepository(e.db.SQL).Delete(cmd.Context(), cat, args[0])
	},
}

func init() {
	catalogListCmd.Flags().StringVarP(&catalogCategory, "category", "c", "", "only list rice, soup or sideDish")
	for _, c := range []*cobra.Command{catalogScrapeCmd, catalogEstimateCmd, catalogDeleteCmd} {
		c.Flags().StringVarP(&catalogCategory, "category", "c", "", "rice, soup or sideDish")
		c.MarkFlagRequired("category")
	}
	catalogEstimateCmd.Flags().StringVar(&catalogProvider, "provider", "gemini", "LLM provider: gemini or groq")

	catalogCmd.AddCommand(catalogListCmd, catalogExportCmd, catalogImportCmd, catalogScrapeCmd, catalogEstimateCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
