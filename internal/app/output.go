package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// writeOutput sends a rendered artefact to the configured output path, or to
// the app's output when none is set.
func (a *App) writeOutput(render func(w io.Writer) error) error {
	if a.config.OutputPath == "" {
		return render(a.outW)
	}
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("✅ Output written.", "path", a.config.OutputPath)
	return nil
}
