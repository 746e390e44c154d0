package ytdlp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

type OutputStream string

const (
	StreamStdout OutputStream = "stdout"
	StreamStderr OutputStream = "stderr"
)

// subtitleOutputTemplate groups subtitle files per channel and keeps the
// video id recoverable from the filename.
const subtitleOutputTemplate = "%(channel)s/%(title)s [%(id)s].%(ext)s"

// CommonOptions are the knobs shared by listing and download mode:
// outbound proxy, cookie jar, and header overrides that make the
// traffic look like a regular browser session.
type CommonOptions struct {
	ProxyURL         string
	CookiesPath      string
	UserAgent        string
	AcceptLanguage   string
	SocketTimeoutSec int
}

type ListOptions struct {
	ChannelURL string
	MaxEntries int
	Common     CommonOptions
}

type DownloadOptions struct {
	VideoURL  string
	OutputDir string
	SubLangs  string
	SubFormat string
	Common    CommonOptions

	Stdout     io.Writer
	Stderr     io.Writer
	LogWriter  io.Writer
	EchoOutput bool
	Progress   func(stream OutputStream, line string)
}

type DependencyReport struct {
	YTDLPFound bool   `json:"yt_dlp_found"`
	YTDLPPath  string `json:"yt_dlp_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("yt-dlp"); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	return report
}

func CheckDependencies() error {
	if !DependencyStatus().YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	return nil
}

// ChannelListJSON runs yt-dlp in listing mode (flat playlist, metadata
// only, no media fetch) capped at MaxEntries and returns the raw
// collection JSON.
func ChannelListJSON(opts ListOptions) ([]byte, error) {
	if strings.TrimSpace(opts.ChannelURL) == "" {
		return nil, fmt.Errorf("channel URL is required")
	}

	args := []string{"--flat-playlist", "-J"}
	if opts.MaxEntries > 0 {
		args = append(args, "--playlist-end", fmt.Sprintf("%d", opts.MaxEntries))
	}
	args, err := appendCommonArgs(args, opts.Common)
	if err != nil {
		return nil, err
	}
	args = append(args, opts.ChannelURL)

	cmd := exec.Command("yt-dlp", args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("yt-dlp returned empty output")
	}
	return stdout.Bytes(), nil
}

// DownloadSubtitles runs yt-dlp in download mode for a single video,
// fetching subtitle tracks only. Language priority is taken left to
// right from SubLangs; format preference falls back per SubFormat
// (e.g. "srt/best").
func DownloadSubtitles(opts DownloadOptions) error {
	if strings.TrimSpace(opts.VideoURL) == "" {
		return fmt.Errorf("video URL is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return fmt.Errorf("output directory is required")
	}

	args := []string{
		"--no-playlist",
		"--skip-download",
		"--newline",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", normalizeSubLangs(opts.SubLangs),
		"--sub-format", normalizeSubFormat(opts.SubFormat),
		"--retries", "10",
		"--fragment-retries", "10",
		"--file-access-retries", "5",
		"-P", opts.OutputDir,
		"-o", subtitleOutputTemplate,
	}
	args, err := appendCommonArgs(args, opts.Common)
	if err != nil {
		return err
	}
	args = append(args, opts.VideoURL)

	return runCommand(args, opts)
}

func appendCommonArgs(args []string, common CommonOptions) ([]string, error) {
	timeout := common.SocketTimeoutSec
	if timeout <= 0 {
		timeout = 30
	}
	args = append(args, "--socket-timeout", fmt.Sprintf("%d", timeout))
	if ua := strings.TrimSpace(common.UserAgent); ua != "" {
		args = append(args, "--user-agent", ua)
	}
	if al := strings.TrimSpace(common.AcceptLanguage); al != "" {
		args = append(args, "--add-header", "Accept-Language:"+al)
	}
	if strings.TrimSpace(common.CookiesPath) != "" {
		cookiesPath, err := resolveCookiesPath(common.CookiesPath)
		if err != nil {
			return nil, err
		}
		args = append(args, "--cookies", cookiesPath)
	}
	if strings.TrimSpace(common.ProxyURL) != "" {
		args = append(args, "--proxy", strings.TrimSpace(common.ProxyURL))
	}
	return args, nil
}

func normalizeSubLangs(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "tr,en"
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		lang := strings.TrimSpace(p)
		if lang == "" {
			continue
		}
		out = append(out, lang)
	}
	if len(out) == 0 {
		return "tr,en"
	}
	return strings.Join(out, ",")
}

func normalizeSubFormat(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "srt/best"
	}
	return v
}

func resolveCookiesPath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve cookies path %s: %w", p, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("cookies file %s: %w", abs, err)
	}
	return abs, nil
}

func runCommand(args []string, opts DownloadOptions) error {
	cmd := exec.Command("yt-dlp", args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("setup stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var outBuf strings.Builder
	var errBuf strings.Builder
	var mu sync.Mutex
	var wg sync.WaitGroup

	read := func(stream OutputStream, r io.Reader, echoW io.Writer) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)
		scanner.Split(splitByNewlineOrCR)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			appendLimited(&outBuf, &errBuf, stream, line)
			if opts.LogWriter != nil {
				_, _ = io.WriteString(opts.LogWriter, line+"\n")
			}
			mu.Unlock()

			if opts.EchoOutput && echoW != nil {
				_, _ = io.WriteString(echoW, line+"\n")
			}
			if opts.Progress != nil {
				opts.Progress(stream, line)
			}
		}
	}

	wg.Add(2)
	go read(StreamStdout, stdoutPipe, opts.Stdout)
	go read(StreamStderr, stderrPipe, opts.Stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Errorf("yt-dlp failed: %w\n%s\n%s", err, strings.TrimSpace(errBuf.String()), strings.TrimSpace(outBuf.String()))
	}
	return nil
}

func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func appendLimited(outBuf, errBuf *strings.Builder, stream OutputStream, line string) {
	const maxKeep = 8192
	b := outBuf
	if stream == StreamStderr {
		b = errBuf
	}
	if b.Len() >= maxKeep {
		return
	}
	toWrite := line + "\n"
	remain := maxKeep - b.Len()
	if len(toWrite) > remain {
		toWrite = toWrite[:remain]
	}
	b.WriteString(toWrite)
}
