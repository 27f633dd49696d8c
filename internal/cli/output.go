package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/leaderline/pkg/errors"
	"github.com/matzehuels/leaderline/pkg/pipeline"
)

// placementSuffix is appended to the input base name for placement files.
const placementSuffix = ".placement.json"

// stdoutPath selects standard output for a single artifact.
const stdoutPath = "-"

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input, together with a
// ".placement" marker. If output has a format extension (.svg, .pdf, etc.),
// it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".placement")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns the file an artifact of format is written to. JSON
// artifacts get the placement suffix so they never overwrite a JSON chart.
func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + placementSuffix
	}
	return base + "." + format
}

// artifactWriteParams holds the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes every rendered format and prints the written paths.
// A single format goes to output verbatim when one is given, or to standard
// output when output is "-".
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output == stdoutPath {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := artifactPath(base, format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return paths, err
		}
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	status := "Rendered"
	if p.cacheHit {
		status = "Rendered from cache"
	}
	printSuccess("%s %d file(s)", status, len(paths))
	for _, path := range paths {
		printFile(path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput opens path for writing, creating missing parent directories.
// An empty path returns standard output wrapped so that Close is a no-op.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
