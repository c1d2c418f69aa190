package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/browseassist/internal/settings"
)

func newSettingsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored settings",
	}
	cmd.AddCommand(newSettingsShowCmd(o), newSettingsSetCmd(o), newSettingsSiteCmd(o))
	return cmd
}

func newSettingsShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings with the API key redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.NewStore(o.cfg.SettingsPath).Load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s.Redacted())
		},
	}
}

func newSettingsSetCmd(o *options) *cobra.Command {
	var (
		base, key, model string
		helper           bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update stored settings; only the given flags change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			store := settings.NewStore(o.cfg.SettingsPath)
			s, err := store.Update(func(s settings.Settings) settings.Settings {
				if f.Changed("base") {
					s.BaseURL = base
				}
				if f.Changed("key") {
					s.APIKey = key
				}
				if f.Changed("model") {
					s.Model = model
				}
				if f.Changed("helper") {
					s.EnableGlobalHelper = helper
				}
				return s
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (model %s)\n", store.Path, s.ModelOrDefault())
			return err
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "OpenAI-compatible base URL")
	cmd.Flags().StringVar(&key, "key", "", "API key")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().BoolVar(&helper, "helper", true, "enable the in-page writing helper")
	return cmd
}

func newSettingsSiteCmd(o *options) *cobra.Command {
	var enable bool
	cmd := &cobra.Command{
		Use:   "site <host>",
		Short: "Disable the writing helper on a site, or re-enable it with --enable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := settings.NewStore(o.cfg.SettingsPath)
			s, err := store.Update(func(s settings.Settings) settings.Settings {
				return s.WithSiteDisabled(args[0], !enable)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "helper on %s: %t\n", args[0], s.HelperEnabled(args[0]))
			return err
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "remove the site from the disabled list")
	return cmd
}
