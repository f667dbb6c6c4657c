package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the configured GitHub account's repositories once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		if app.importer == nil {
			return errors.New("GITHUB_USERNAME is not set")
		}

		result, err := app.importer.Refresh(cmd.Context())
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("added %d, updated %d, unchanged %d (%d projects total)\n",
			result.Added, result.Updated, result.Unchanged, len(result.Projects))
		printProjects(os.Stdout, result.Projects)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApplication(cmd.Context())
		if err != nil {
			return err
		}
		defer app.close()

		snapshot := app.store.Snapshot()
		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snapshot)
		}
		printCatalog(os.Stdout, snapshot)
		return nil
	},
}

// printProjects writes one line per project
func printProjects(w io.Writer, projects []models.Project) {
	for _, p := range projects {
		marker := " "
		if p.Featured {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %3d  %s", marker, p.ID, p.Title)
		if techs := models.FormatTechnologies(p.Technologies); techs != "" {
			fmt.Fprintf(w, "  [%s]", techs)
		}
		fmt.Fprintln(w)
	}
}

// printCatalog writes projects, skills grouped by category and the learning list
func printCatalog(w io.Writer, c models.Catalog) {
	fmt.Fprintf(w, "Projects (%d, %d featured)\n", len(c.Projects), c.FeaturedCount())
	printProjects(w, c.Projects)

	fmt.Fprintf(w, "\nSkills (%d)\n", len(c.Skills))
	for _, category := range models.SkillCategories {
		var names []string
		for _, s := range c.Skills {
			if s.Category == category {
				names = append(names, fmt.Sprintf("%s %d", s.Name, s.Level))
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", category.Label(), strings.Join(names, ", "))
		}
	}

	if len(c.CurrentlyLearning) > 0 {
		fmt.Fprintf(w, "\nCurrently learning: %s\n", strings.Join(c.CurrentlyLearning, ", "))
	}
}

var flagColumnReport bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		db, err := database.Open(c)
		if err != nil {
			return err
		}
		d := database.New(db)
		defer d.Close()

		if flagColumnReport {
			fmt.Println("Generating column mismatch report...")
			reports, err := database.ColumnReport(db)
			if err != nil {
				return err
			}
			database.PrintColumnReport(reports)
			return nil
		}

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Catalog tables are up to date")
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := config.GetString(config.New(), "ADMIN_PASSWORD", "")
		if len(args) == 1 {
			password = args[0]
		}
		if password == "" {
			return errors.New("pass the password as an argument or set ADMIN_PASSWORD")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		if flagJSON {
			return json.NewEncoder(os.Stdout).Encode(map[string]string{"ADMIN_PASSWORD_HASH": hash})
		}
		fmt.Println(hash)
		return nil
	},
}

var flagJSON bool

func init() {
	migrateCmd.Flags().BoolVar(&flagColumnReport, "report", false, "print columns present in the database but missing from the models instead of migrating")
	hashPasswordCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
	showCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")
}
