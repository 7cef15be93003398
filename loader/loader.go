// Package loader reads a flash image file from disk and validates it
// against the interpreter's size and shape constraints before it reaches
// the VM.
package loader

import (
	"fmt"
	"os"

	"github.com/Jorgecmartins/riscv-emulator/vm"
)

// Load reads the raw binary flash image at path. It is the CLI's only
// source of guest code: a flat byte blob whose first word the VM later
// reads as the reset vector.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flash image: %w", err)
	}

	if len(data) == 0 {
		return nil, &vm.ConfigError{Reason: "flash image is empty"}
	}
	if uint32(len(data)) >= vm.MaxImageSize {
		return nil, &vm.ConfigError{Reason: fmt.Sprintf("flash image is %d bytes, must be < %d", len(data), vm.MaxImageSize)}
	}

	return data, nil
}
