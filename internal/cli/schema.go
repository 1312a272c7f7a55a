package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dochub/internal/usecase"
)

var (
	schemaName    string
	schemaType    string
	schemaVersion string
	schemaStatus  string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the schema registry",
}

var schemaIngestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Ingest one schema version",
	Long: `Register a schema version. Re-ingesting an existing version replaces
it; a new version is appended to the schema's version list.

Examples:
  dochub schema ingest billing.json --name billing-api --type openapi --version 2.1.0
  dochub schema ingest events.yaml --name order-events --type asyncapi --version 1.0.0 --status beta`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemaIngest,
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered schemas",
	Args:  cobra.NoArgs,
	RunE:  runSchemaList,
}

var schemaGetCmd = &cobra.Command{
	Use:   "get <name> [version]",
	Short: "Show a schema, or print one version's content",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSchemaGet,
}

func init() {
	schemaIngestCmd.Flags().StringVar(&schemaName, "name", "", "schema name (required)")
	schemaIngestCmd.Flags().StringVar(&schemaType, "type", "", "schema type: openapi, asyncapi, jsonschema (required)")
	schemaIngestCmd.Flags().StringVar(&schemaVersion, "version", "", "schema version (required)")
	schemaIngestCmd.Flags().StringVar(&schemaStatus, "status", "", "version status: stable, beta, deprecated (default stable)")
	schemaCmd.AddCommand(schemaIngestCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaGetCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaIngest(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.schemas.IngestSchema(cmd.Context(), usecase.SchemaIngestRequest{
		Token:   cfg.ServiceToken(),
		Name:    schemaName,
		Type:    schemaType,
		Version: schemaVersion,
		Status:  schemaStatus,
		Content: string(content),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s %s (blob %s)\n", result.Name, result.Version, result.BlobKey)
	return nil
}

func runSchemaList(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	schemas, err := svc.schemas.ListSchemas(cmd.Context())
	if err != nil {
		return err
	}

	if len(schemas) == 0 {
		fmt.Println("No schemas.")
		return nil
	}
	for _, sc := range schemas {
		fmt.Printf("%s (%s)\n", sc.Name, sc.Type)
		for _, v := range sc.Versions {
			fmt.Printf("  %s  %s\n", v.Version, v.Status)
		}
	}
	return nil
}

func runSchemaGet(cmd *cobra.Command, args []string) error {
	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if len(args) == 2 {
		content, err := svc.schemas.GetSchemaContent(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Print(string(content))
		return nil
	}

	sc, err := svc.schemas.GetSchema(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", sc.Name, sc.Type)
	for _, v := range sc.Versions {
		fmt.Printf("  %s  %s  %s\n", v.Version, v.Status, v.BlobKey)
	}
	return nil
}
