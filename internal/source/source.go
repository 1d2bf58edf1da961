// Package source loads the pseudocode text handed to the translator.
//
// A reference is "-" for stdin, an http(s) URL, or a file path. HTML input
// (a saved lesson page, say) is converted to Markdown so the model sees the
// pseudocode and not the markup.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/pseudoscribe/internal/utils"
)

const (
	// Stdin is the reference that reads from standard input.
	Stdin = "-"
	// MaxTextSize caps the loaded text after HTML conversion (64 KiB).
	MaxTextSize = 64 << 10
	// MaxRawSize caps what is read from any source before conversion (1 MiB).
	MaxRawSize = 1 << 20
	// DefaultTimeout bounds a URL fetch.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with URL fetches.
	DefaultUserAgent = "pseudoscribe/1.0"
)

var (
	// ErrEmptyReference is returned when no reference is given.
	ErrEmptyReference = errors.New("source reference cannot be empty")
	// ErrTooLarge is returned when a source exceeds MaxRawSize or its text
	// exceeds MaxTextSize.
	ErrTooLarge = errors.New("source too large")
)

// Document is loaded pseudocode.
type Document struct {
	// Origin is "stdin", the final URL after redirects, or the file path.
	Origin string

	// Text is trimmed and, for HTML input, converted to Markdown.
	Text string

	// FromHTML reports whether Text was converted from HTML.
	FromHTML bool
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	stdin      io.Reader
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// WithStdin sets the reader used for the "-" reference. Defaults to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(l *loader) {
		l.stdin = r
	}
}

// WithHTTPClient sets the client used for URL references.
func WithHTTPClient(client *http.Client) Option {
	return func(l *loader) {
		l.httpClient = client
	}
}

// WithTimeout overrides DefaultTimeout for URL references.
func WithTimeout(d time.Duration) Option {
	return func(l *loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// Load reads the pseudocode named by ref.
func Load(ctx context.Context, ref string, opts ...Option) (*Document, error) {
	l := &loader{
		stdin:     os.Stdin,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(l)
	}

	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrEmptyReference
	case ref == Stdin:
		data, err := readLimited(ctx, l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return build("stdin", data, false)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		return loadFile(ctx, ref)
	}
}

// LoadRaw reads ref ("-" or a file path) verbatim: no HTML conversion and no
// trimming. It is meant for saved model output.
func LoadRaw(ctx context.Context, ref string, opts ...Option) (string, error) {
	l := &loader{stdin: os.Stdin}
	for _, opt := range opts {
		opt(l)
	}

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyReference
	}

	r := l.stdin
	if ref != Stdin {
		f, err := os.Open(ref)
		if err != nil {
			return "", fmt.Errorf("failed to open source: %w", err)
		}
		defer utils.CloseWithLog(f)
		r = f
	}

	data, err := readLimited(ctx, r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadFile(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer utils.CloseWithLog(f)

	data, err := readLimited(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return build(path, data, ext == ".html" || ext == ".htm")
}

func (l *loader) fetch(ctx context.Context, url string) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	client := l.httpClient
	if client == nil {
		client = newHTTPClient(l.timeout)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := readLimited(ctx, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return build(resp.Request.URL.String(), data, mediaType == "text/html")
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects (>10)")
			}
			return nil
		},
	}
}

// readLimited reads at most MaxRawSize bytes from r. The read runs in a
// goroutine so a cancelled ctx returns promptly even if r blocks.
func readLimited(ctx context.Context, r io.Reader) ([]byte, error) {
	type readResult struct {
		data []byte
		err  error
	}

	readChan := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, MaxRawSize+1))
		readChan <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-readChan:
		if result.err != nil {
			return nil, result.err
		}
		if len(result.data) > MaxRawSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxRawSize)
		}
		return result.data, nil
	}
}

func build(origin string, data []byte, html bool) (*Document, error) {
	if !html {
		html = looksLikeHTML(data)
	}

	text := string(data)
	if html {
		markdown, err := htmltomarkdown.ConvertString(text)
		if err != nil {
			return nil, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		text = markdown
	}

	text = strings.TrimSpace(text)
	if len(text) > MaxTextSize {
		return nil, fmt.Errorf("%w: %d bytes of text, limit is %d", ErrTooLarge, len(text), MaxTextSize)
	}
	return &Document{Origin: origin, Text: text, FromHTML: html}, nil
}

func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
