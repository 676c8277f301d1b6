package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"github.com/tayoji-io/mdrender"
	"github.com/tayoji-io/mdrender/gm"
	termsurface "github.com/tayoji-io/mdrender/term"
)

const (
	defaultSheetName = "default"
	defaultWidth     = 80
)

func init() {
	version.SetDefaultModule("github.com/tayoji-io/mdrender")
}

func main() {
	var (
		sheetName      string
		sheetOverride  string
		widthFlag      int
		osc8Flag       string
		listSheets     bool
		outPath        string
		fitContent     bool
		preserveBreaks bool
		chromaStyle    string
		noHighlight    bool
	)

	flags := pflag.NewFlagSet("mdrender", pflag.ExitOnError)
	flags.StringVarP(&sheetName, "stylesheet", "t", defaultSheetName, "Style sheet name")
	flags.StringVar(&sheetOverride, "stylesheet-file", "", "YAML style sheet overrides")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&osc8Flag, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&listSheets, "list-stylesheets", false, "List available style sheets")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&fitContent, "fit", false, "Size blocks to their content instead of the full width")
	flags.BoolVar(&preserveBreaks, "preserve-breaks", false, "Keep soft line breaks inside paragraphs")
	flags.StringVar(&chromaStyle, "chroma-style", "monokai", "Chroma style for code highlighting")
	flags.BoolVar(&noHighlight, "no-highlight", false, "Disable code highlighting")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: mdrender [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if listSheets {
		printStyleSheets()
		return
	}

	args := flags.Args()
	reader, closer, err := openInputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	sheet, ok := mdrender.StyleSheetByName(sheetName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown style sheet %q\n\n", sheetName)
		printStyleSheets()
		os.Exit(2)
	}
	if sheetOverride != "" {
		data, err := os.ReadFile(normalizePath(sheetOverride))
		if err != nil {
			fmt.Fprintf(os.Stderr, "read style sheet: %v\n", err)
			os.Exit(1)
		}
		sheet, err = sheet.ApplyYAML(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "apply style sheet: %v\n", err)
			os.Exit(2)
		}
	}

	osc8, err := resolveOSC8(osc8Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", osc8Flag, err)
		os.Exit(2)
	}

	source, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}
	nodes, err := gm.Parse(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}

	opts := []mdrender.Option{
		mdrender.WithFitContent(fitContent),
		mdrender.WithPreserveSoftLineBreaks(preserveBreaks),
	}
	if !noHighlight {
		opts = append(opts, mdrender.WithCodeFormatter(termsurface.ChromaFormatter("terminal256", chromaStyle)))
	}
	tree, err := mdrender.New(sheet, opts...).Build(nodes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}

	if err := termsurface.Render(termsurface.RenderRequest{
		Writer: writer,
		Width:  resolveWidth(widthFlag),
		Nodes:  tree,
		OSC8:   osc8,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func printStyleSheets() {
	for _, name := range mdrender.AvailableStyleSheets() {
		fmt.Fprintln(os.Stdout, name)
	}
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return termsurface.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	return &multiInputReader{sources: sources}, nil, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	clean := normalizePath(path)
	f, err := os.Open(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func strconvAtoi(value string) (int, error) {
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
