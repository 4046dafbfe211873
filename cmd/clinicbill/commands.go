package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xxxsen/clinicbill/internal/export"
	"github.com/xxxsen/clinicbill/internal/filestore"
	"github.com/xxxsen/clinicbill/internal/kvstore"
	"github.com/xxxsen/clinicbill/internal/model"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
	"github.com/xxxsen/clinicbill/internal/pkg/jwt"
	"github.com/xxxsen/clinicbill/internal/repo"
	"github.com/xxxsen/clinicbill/internal/report"
	"github.com/xxxsen/clinicbill/internal/service"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withViews(configPath *string, fn func(cmd *cobra.Command, args []string, views *service.SavedViewService) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		kv, err := kvstore.New(cfg.KVStore)
		if err != nil {
			return fmt.Errorf("init kv store: %w", err)
		}
		defer func() {
			_ = kv.Close()
		}()
		return fn(cmd, args, service.NewSavedViewService(repo.NewSavedViewRepo(kv)))
	}
}

func newViewsCmd(configPath *string) *cobra.Command {
	viewsCmd := &cobra.Command{
		Use:   "views",
		Short: "manage saved filter views",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved views",
		RunE: withViews(configPath, func(cmd *cobra.Command, args []string, views *service.SavedViewService) error {
			items, err := views.List(cmd.Context())
			if err != nil && !appErr.IsCorrupted(err) {
				return err
			}
			return printJSON(cmd, items)
		}),
	}

	var (
		profile string
		filters model.ViewFilters
	)
	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "save the given filters as a named view",
		Args:  cobra.MinimumNArgs(1),
		RunE: withViews(configPath, func(cmd *cobra.Command, args []string, views *service.SavedViewService) error {
			item, err := views.Save(cmd.Context(), service.SavedViewCreateInput{
				Name:    strings.Join(args, " "),
				Profile: model.Profile(profile),
				Filters: filters,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, item)
		}),
	}
	saveCmd.Flags().StringVar(&profile, "profile", string(model.ProfileCustom), "financeiro|faturista|gestor|custom")
	saveCmd.Flags().StringVar(&filters.Period, "period", "month", "day|week|month|quarter|year|custom")
	saveCmd.Flags().StringVar(&filters.Unit, "unit", model.FilterAll, "unit id")
	saveCmd.Flags().StringVar(&filters.Professional, "professional", model.FilterAll, "professional id")
	saveCmd.Flags().StringVar(&filters.Payer, "payer", model.FilterAll, "payer id")

	loadCmd := &cobra.Command{
		Use:   "load <id>",
		Short: "print the filters of a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: withViews(configPath, func(cmd *cobra.Command, args []string, views *service.SavedViewService) error {
			item, err := views.LoadByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, item)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: withViews(configPath, func(cmd *cobra.Command, args []string, views *service.SavedViewService) error {
			item, err := views.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, item)
		}),
	}

	viewsCmd.AddCommand(listCmd, saveCmd, loadCmd, deleteCmd)
	return viewsCmd
}

func newExportCmd(configPath *string) *cobra.Command {
	var (
		dataset string
		format  string
		outDir  string
		filters model.ViewFilters
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write a dataset export to a local directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			store, err := filestore.NewLocal(outDir)
			if err != nil {
				return err
			}
			file, err := newExportService(cfg).ExportDataset(cmd.Context(), dataset, format, filters, export.ToStore(store, ""))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), file.Name)
			return err
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", report.DatasetOverview, strings.Join(report.Datasets, "|"))
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv|xls")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&filters.Period, "period", "month", "period filter")
	cmd.Flags().StringVar(&filters.Unit, "unit", model.FilterAll, "unit filter")
	cmd.Flags().StringVar(&filters.Professional, "professional", model.FilterAll, "professional filter")
	cmd.Flags().StringVar(&filters.Payer, "payer", model.FilterAll, "payer filter")
	return cmd
}

func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		profile string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue a bearer token for the dashboard api",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(subject) == "" {
				return fmt.Errorf("--subject is required")
			}
			ttl := time.Duration(cfg.Auth.JWTTTLHours) * time.Hour
			token, err := jwt.GenerateToken(subject, profile, []byte(cfg.Auth.JWTSecret), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringVar(&profile, "profile", "", "dashboard profile carried in the token")
	return cmd
}
