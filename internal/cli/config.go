package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/pipeline"
)

// loadConfig decodes a TOML config file on top of the default options.
// Unknown keys are rejected so a typo does not silently fall back to a
// default.
func loadConfig(path string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config file %s not found", path)
		}
		return opts, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cannot parse config file %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// configCommand prints the effective configuration as TOML, ready to be
// saved and passed back with --config.
func (c *CLI) configCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

With --config, the file is loaded and validated first. Redirect the
output to start a new config file:

  imagesheet config > imagesheet.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.DefaultOptions()
			if path != "" {
				var err error
				if opts, err = loadConfig(path); err != nil {
					return err
				}
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(opts)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "TOML config file to load")
	return cmd
}
