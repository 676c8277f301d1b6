// Command gen-golden regenerates the golden files under term/testdata.
// Run it from the module root after an intentional rendering change.
// Widths come from the existing golden files for each markdown source;
// new sources get the default width set.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/tayoji-io/mdrender"
	"github.com/tayoji-io/mdrender/gm"
	termsurface "github.com/tayoji-io/mdrender/term"
)

var defaultWidths = []int{40, 60, 80}

func main() {
	root := filepath.Join("term", "testdata")
	var paths []string
	widthsByBase := map[string][]int{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
			return nil
		}
		if strings.HasSuffix(path, ".golden") {
			if base, width, ok := parseGoldenWidth(root, path); ok {
				widthsByBase[base] = append(widthsByBase[base], width)
			}
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no markdown files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		useWidths := widthsByBase[goldenBase(root, path)]
		if len(useWidths) == 0 {
			useWidths = defaultWidths
		}
		for _, width := range useWidths {
			out, err := render(src, width)
			if err != nil {
				fatalf("render %s width %d: %v", path, width, err)
			}
			outPath := goldenPath(root, path, width)
			if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
				fatalf("write %s: %v", outPath, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", outPath)
		}
	}
}

// render mirrors the golden test pipeline: parse, build with the
// default sheet, render with the ASCII profile.
func render(src []byte, width int) (string, error) {
	nodes, err := gm.Parse(src)
	if err != nil {
		return "", err
	}
	tree, err := mdrender.New(mdrender.DefaultStyleSheet()).Build(nodes)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = termsurface.Render(termsurface.RenderRequest{
		Writer:  &out,
		Width:   width,
		Nodes:   tree,
		Profile: termenv.Ascii,
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func goldenBase(root string, mdPath string) string {
	rel, err := filepath.Rel(root, mdPath)
	if err != nil {
		rel = mdPath
	}
	base := strings.TrimSuffix(rel, ".md")
	return strings.ReplaceAll(filepath.ToSlash(base), "/", "__")
}

func goldenPath(root string, mdPath string, width int) string {
	return filepath.Join(root, fmt.Sprintf("%s.w%d.golden", goldenBase(root, mdPath), width))
}

func parseGoldenWidth(root string, goldenPath string) (string, int, bool) {
	rel, err := filepath.Rel(root, goldenPath)
	if err != nil {
		return "", 0, false
	}
	rel = filepath.ToSlash(rel)
	name := strings.TrimSuffix(rel, ".golden")
	idx := strings.LastIndex(name, ".w")
	if idx == -1 {
		return "", 0, false
	}
	width, err := strconv.Atoi(name[idx+2:])
	if err != nil || width <= 0 {
		return "", 0, false
	}
	return name[:idx], width, true
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
