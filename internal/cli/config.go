package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/whhaicheng/news-scraper/internal/domain/config"
	"github.com/whhaicheng/news-scraper/internal/infra/configfile"
	"github.com/whhaicheng/news-scraper/internal/infra/keyring"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML: defaults, then the config
file, then ` + configfile.EnvPrefix + `* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configfile.Load(globalOpts.ConfigPath)
			if err != nil {
				return err
			}
			data, err := configfile.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newSetPasswordCmd())
	cmd.AddCommand(newDeletePasswordCmd())
	return cmd
}

func newSetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Store the history database password",
		Long: `Read the history database password from the first line of stdin and
store it encrypted in history.secrets_dir. The DSN refers to it with the
` + keyring.PasswordPlaceholder + ` token. Set ` + MasterKeyEnv + ` to choose the master password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configfile.Load(globalOpts.ConfigPath)
			if err != nil {
				return err
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("read password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("empty password")
			}

			secrets, err := openSecrets(cfg.History)
			if err != nil {
				return err
			}
			if err := secrets.Set(cmd.Context(), keyring.HistoryPasswordKey, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password stored")
			if !strings.Contains(cfg.History.DSN, keyring.PasswordPlaceholder) {
				fmt.Fprintf(cmd.OutOrStdout(), "Note: history.dsn does not contain %s\n", keyring.PasswordPlaceholder)
			}
			return nil
		},
	}
}

func newDeletePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-password",
		Short: "Remove the stored history database password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configfile.Load(globalOpts.ConfigPath)
			if err != nil {
				return err
			}
			secrets, err := openSecrets(cfg.History)
			if err != nil {
				return err
			}
			if err := secrets.Delete(cmd.Context(), keyring.HistoryPasswordKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password deleted")
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalOpts.ConfigPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := configfile.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
