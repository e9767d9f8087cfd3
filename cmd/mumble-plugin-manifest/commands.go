package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dessix/mumble-plugin-go/application/manifest"
	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plugin.yaml>...",
		Short: "Check manifests for missing or malformed fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				desc, err := loadDescriptor(path)
				if err != nil {
					slog.Error("invalid manifest", "path", path, "error", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s by %s (API %s)\n",
					path, desc.Name, desc.Version, desc.Author, desc.APIVersion)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d manifests invalid", failed, len(args))
			}
			return nil
		},
	}
}

func loadDescriptor(path string) (entities.Descriptor, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return entities.Descriptor{}, err
	}
	return m.Descriptor()
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the manifest format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := manifest.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return err
		},
	}
}

func newInitCmd() *cobra.Command {
	var (
		author   string
		version  string
		output   string
		features []string
	)
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Write a starter manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &manifest.Manifest{
				Name:       args[0],
				Author:     author,
				Version:    version,
				APIVersion: entities.APIVersion.String(),
				Features:   features,
			}
			if err := m.Validate(); err != nil {
				return err
			}
			data, err := manifest.Encode(m)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if _, err := os.Stat(output); err == nil {
				return fmt.Errorf("%s already exists", output)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}
			slog.Info("wrote manifest", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "plugin author (required)")
	cmd.Flags().StringVar(&version, "version", "0.1.0", "plugin version")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	cmd.Flags().StringSliceVar(&features, "feature", nil, "feature to declare (positional, audio); repeatable")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}
