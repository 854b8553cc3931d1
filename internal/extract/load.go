package extract

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed data/rusted_moss.cue
var defaultDataset string

// Default parses the embedded default dataset.
func Default() (*Dataset, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(defaultDataset, cue.Filename("data/rusted_moss.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", formatCUEError(err))
	}
	return FromValue(v)
}

// LoadDir loads a dataset from a directory of CUE files.
func LoadDir(dir string) (*Dataset, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing dataset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", formatCUEError(inst.Err))
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", formatCUEError(err))
	}

	return FromValue(value)
}
