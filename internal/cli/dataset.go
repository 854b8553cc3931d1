package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mossgen/internal/extract"
	"github.com/roach88/mossgen/internal/harness"
	"github.com/roach88/mossgen/internal/world"
)

// DatasetFlags holds the flags shared by every command that builds from a
// dataset: where the dataset lives and how the run is configured.
type DatasetFlags struct {
	// Dir is a directory of CUE logic files. Empty means the embedded
	// default dataset.
	Dir string

	// OptionsFile is an optional YAML file of run options, in the same
	// shape scenario files use.
	OptionsFile string

	// Ending overrides the ending from the options file when set (>= 0).
	Ending int
}

// Register adds the shared dataset flags to a command.
func (d *DatasetFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.Dir, "dataset", "d", "", "dataset directory (default: embedded)")
	cmd.Flags().StringVar(&d.OptionsFile, "options", "", "YAML run-options file")
	cmd.Flags().IntVar(&d.Ending, "ending", -1, "ending override (0-4)")
}

// Load resolves the dataset and option set the flags select.
func (d *DatasetFlags) Load() (*extract.Dataset, world.Options, error) {
	var (
		dataset *extract.Dataset
		err     error
	)
	if d.Dir == "" {
		dataset, err = extract.Default()
	} else {
		dataset, err = extract.LoadDir(d.Dir)
	}
	if err != nil {
		return nil, world.Options{}, WrapExitError(ExitCommandError, "loading dataset", err)
	}

	opts, err := d.loadOptions()
	if err != nil {
		return nil, world.Options{}, err
	}
	return dataset, opts, nil
}

func (d *DatasetFlags) loadOptions() (world.Options, error) {
	var spec harness.OptionSpec

	if d.OptionsFile != "" {
		data, err := os.ReadFile(d.OptionsFile)
		if err != nil {
			return world.Options{}, WrapExitError(ExitCommandError, "reading options file", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&spec); err != nil {
			return world.Options{}, WrapExitError(ExitCommandError, "parsing options file", err)
		}
	}

	// Out-of-range endings are not rejected here. Goal selection falls
	// back to the default ending, same as any other configuration source.
	if d.Ending >= 0 {
		spec.Ending = d.Ending
	}

	return spec.ToOptions(), nil
}
