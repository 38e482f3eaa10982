package publish

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Directory writes the payload into a local directory: workspace.json,
// workspace.hcl when present, and one file per artifact.
type Directory struct {
	Dir string
}

func (d Directory) Name() string { return "directory" }

func (d Directory) Publish(ctx context.Context, p Payload) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d.Dir, err)
	}
	files := map[string][]byte{"workspace.json": p.JSON}
	if p.HCL != nil {
		files["workspace.hcl"] = p.HCL
	}
	for name, data := range p.Artifacts {
		files[name] = data
	}
	for _, name := range slices.Sorted(maps.Keys(files)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("artifact name %q is not a plain file name", name)
		}
		if err := writeFile(filepath.Join(d.Dir, name), files[name]); err != nil {
			return err
		}
	}
	return nil
}

// writeFile replaces path atomically so readers never see partial output.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
