package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"secupload/internal/app"
	"secupload/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, app.FormatError(err))
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "upload", "export").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// stdin is shared so consecutive piped passphrases are not lost to buffering.
var stdin = bufio.NewReader(os.Stdin)

// readPassphrase takes the passphrase from SECUPLOAD_PASSPHRASE when set,
// otherwise prompts on the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	if p, ok := os.LookupEnv("SECUPLOAD_PASSPHRASE"); ok {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:           "secupload",
	Short:         "Secure media upload tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Images:     %s\n", cfg.Storage.ImagesDir)
		fmt.Printf("Videos:     %s\n", cfg.Storage.VideosDir)
		fmt.Printf("Registry:   %s %s\n", cfg.Registry.Type, cfg.Registry.DataDir)
		fmt.Printf("Vault:      %s %s\n", cfg.Vault.Type, cfg.Vault.FSVaultRoot)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		if len(cfg.URL.TLDWhitelist) > 0 {
			fmt.Printf("URL TLDs:   %s\n", strings.Join(cfg.URL.TLDWhitelist, " "))
		}
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("keys-init")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return errors.New("passphrases do not match")
		}

		if err := a.SetupKeys(passphrase); err != nil {
			return err
		}
		fmt.Println("Encryption keys created.")
		return nil
	},
}

// upload command
var uploadCmd = &cobra.Command{
	Use:   "upload PATH",
	Short: "Upload an image or video file, or every file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")

		a, err := newApp("upload")
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := os.Stat(args[0])
		if err != nil || !info.IsDir() {
			id, err := a.Upload(args[0])
			if err != nil {
				return err
			}
			fmt.Println(app.FormatUploaded(id))
			return nil
		}

		results, err := a.UploadDir(args[0], recursive)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Printf("FAIL %s  %s\n", r.Path, app.FormatError(r.Err))
				continue
			}
			fmt.Printf("OK   %s  %s\n", r.Path, r.ID)
		}
		fmt.Printf("Uploaded %d of %d file(s)\n", len(results)-failed, len(results))
		if failed > 0 {
			return fmt.Errorf("%d upload(s) failed", failed)
		}
		return nil
	},
}

// verify command
var verifyCmd = &cobra.Command{
	Use:   "verify UUID",
	Short: "Check that an upload exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("verify")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Verify(args[0])
		if err != nil {
			return err
		}
		fmt.Println(app.FormatReport(report))
		return nil
	},
}

// path command
var pathCmd = &cobra.Command{
	Use:   "path UUID",
	Short: "Print the destination path of an upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("path")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Path(args[0])
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("list")
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.List()
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No uploads registered.")
			return nil
		}

		for _, f := range files {
			fmt.Printf("%s  %s  %-5s  %s\n",
				f.ID,
				f.UploadedAt.Format("2006-01-02 15:04:05"),
				f.Category,
				f.DestinationPath,
			)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export UUID",
	Short: "Write the original bytes of an upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp("export")
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if a.NeedsPassphrase() {
			if passphrase, err = readPassphrase("Passphrase: "); err != nil {
				return err
			}
		}

		if output == "" || output == "-" {
			return a.Export(args[0], passphrase, os.Stdout)
		}

		f, err := os.OpenFile(output, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := a.Export(args[0], passphrase, f); err != nil {
			f.Close()
			os.Remove(output)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %s to %s\n", args[0], output)
		return nil
	},
}

// check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate identifiers and URLs",
}

var checkURLCmd = &cobra.Command{
	Use:   "url URL",
	Short: "Check that a string is a well-formed URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tlds []string
		if cmd.Flags().Changed("tld") {
			tlds, _ = cmd.Flags().GetStringSlice("tld")
		}

		a, err := newApp("check-url")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckURL(args[0], tlds); err != nil {
			return err
		}
		fmt.Println("Valid URL")
		return nil
	},
}

var checkUUIDCmd = &cobra.Command{
	Use:   "uuid UUID",
	Short: "Check that a string is a version 5 UUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("check-uuid")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckUUID(args[0]); err != nil {
			return err
		}
		fmt.Println("Valid UUID")
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Snapshot the registry to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("backup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupRegistry(args[0]); err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Registry backed up to %s\n", args[0])
		return nil
	},
}

// shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the interactive menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("shell")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Shell(os.Stdin, os.Stdout)
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// check subcommands
	checkCmd.AddCommand(checkURLCmd)
	checkCmd.AddCommand(checkUUIDCmd)
	checkURLCmd.Flags().StringSlice("tld", nil, "Accepted top-level domain, e.g. .com (repeatable; overrides config)")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write to FILE instead of stdout")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(shellCmd)
}
