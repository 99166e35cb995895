// pre_processor.go implements the WGSL include pre-processor. WGSL has no module system,
// so shared struct declarations live in their own files and are spliced into each
// program with a directive line:
//
//	//#include common.wgsl
//
// Paths are resolved relative to the including file. Each file is included at most once
// per program; a file that includes itself, directly or through others, is an error.
package shader

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
)

const includeDirective = "//#include "

var (
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	fsys fs.FS
}

// PreProcessor expands include directives in WGSL source files.
type PreProcessor interface {
	// Process reads the named file and returns its source with every include directive
	// replaced by the included file's processed source.
	//
	// Parameters:
	//   - name: the root file path within the pre-processor's file system
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if a file cannot be read or includes form a cycle
	Process(name string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor reading sources from fsys.
//
// Parameters:
//   - fsys: the file system holding the WGSL sources
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(fsys fs.FS) PreProcessor {
	return &preProcessor{fsys: fsys}
}

func (p *preProcessor) Process(name string) (string, error) {
	var sb strings.Builder
	if err := p.expand(name, nil, map[string]bool{}, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// expand writes the processed contents of name to sb. stack holds the chain of files
// currently being expanded; done holds every file already written.
func (p *preProcessor) expand(name string, stack []string, done map[string]bool, sb *strings.Builder) error {
	if slices.Contains(stack, name) {
		return fmt.Errorf("include cycle: %s -> %s", strings.Join(stack, " -> "), name)
	}
	if done[name] {
		return nil
	}
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return err
	}
	stack = append(stack, name)

	for i, line := range strings.Split(string(data), "\n") {
		target, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}
		target = strings.TrimSpace(target)
		if target == "" {
			return fmt.Errorf("%s:%d: include without a path", name, i+1)
		}
		if err := p.expand(path.Join(path.Dir(name), target), stack, done, sb); err != nil {
			return fmt.Errorf("%s:%d: %w", name, i+1, err)
		}
	}
	done[name] = true
	return nil
}

// parseEntryPoint finds the first function marked with the stage attribute of shaderType.
// Line comments are ignored.
func parseEntryPoint(source string, shaderType ShaderType) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	re := vertexEntryRegex
	if shaderType == ShaderTypeFragment {
		re = fragmentEntryRegex
	}
	if match := re.FindStringSubmatch(sb.String()); match != nil {
		return match[1]
	}
	return ""
}
