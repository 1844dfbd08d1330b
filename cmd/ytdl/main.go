package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ytdl "github.com/DjDeveloperr/ytdl-core"
	"github.com/DjDeveloperr/ytdl-core/types"
	"github.com/DjDeveloperr/ytdl-core/youtube/formats"
)

func main() {
	var (
		flagQuality    string
		flagFilter     string
		flagOutput     string
		flagInfoOnly   bool
		flagNoProgress bool
		flagTimeout    time.Duration
		flagRetries    int
		flagUA         string
		flagProxy      string
		flagIPv6Block  string
		flagLang       string
		flagRateLimit  string
		flagChunkSize  int64
		flagRange      string
	)

	flag.StringVar(&flagQuality, "quality", "highest", "Quality policy ('highest', 'lowestaudio', ...) or an itag number")
	flag.StringVar(&flagFilter, "filter", "", "Format filter: audioandvideo, video, videoonly, audio, audioonly")
	flag.StringVar(&flagOutput, "output", "", "Output path (file or directory). Empty derives from title + container")
	flag.BoolVar(&flagInfoOnly, "info", false, "Print video info and formats without downloading")
	flag.BoolVar(&flagNoProgress, "no-progress", false, "Disable progress output")
	flag.DurationVar(&flagTimeout, "http-timeout", 30*time.Second, "HTTP timeout (e.g., 30s, 1m)")
	flag.IntVar(&flagRetries, "retries", 3, "HTTP retries for transient errors")
	flag.StringVar(&flagUA, "ua", "", "Override User-Agent header")
	flag.StringVar(&flagProxy, "proxy", "", "Proxy URL (http/https/socks)")
	flag.StringVar(&flagIPv6Block, "ipv6-block", "", "IPv6 CIDR block to dial from (e.g., 2001:db8::/32)")
	flag.StringVar(&flagLang, "lang", "", "Accept-Language value for metadata requests")
	flag.StringVar(&flagRateLimit, "rate-limit", "", "Download rate limit (e.g., 2MiB/s, 500KiB/s)")
	flag.Int64Var(&flagChunkSize, "chunk-size", 0, "Range request size in bytes for unmuxed streams (0 uses default, negative disables)")
	flag.StringVar(&flagRange, "range", "", "Byte range to download (e.g., 0-1048575)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <video_url_or_id>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := strings.TrimSpace(args[0])

	c := ytdl.New().
		WithTimeout(flagTimeout).
		WithRetries(flagRetries).
		WithQuality(flagQuality)
	if flagUA != "" {
		c = c.WithUserAgent(flagUA)
	}
	if flagProxy != "" {
		c = c.WithProxy(flagProxy)
	}
	if flagIPv6Block != "" {
		c = c.WithIPv6Block(flagIPv6Block)
	}
	if flagLang != "" {
		c = c.WithLang(flagLang)
	}
	if flagFilter != "" {
		c = c.WithFilter(formats.Filter(flagFilter))
	}
	if flagOutput != "" {
		c = c.WithOutputPath(flagOutput)
	}
	if flagChunkSize != 0 {
		c = c.WithChunkSize(flagChunkSize)
	}
	if bps := parseRate(flagRateLimit); bps > 0 {
		c = c.WithRateLimit(bps)
	}
	if flagRange != "" {
		r, err := parseRange(flagRange)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid range: %v\n", err)
			os.Exit(2)
		}
		c = c.WithRange(r)
	}
	if !flagNoProgress && !flagInfoOnly {
		c = c.WithProgress(func(p ytdl.Progress) {
			if p.TotalSize > 0 {
				fmt.Fprintf(os.Stdout, "Downloaded %.1f%%\r", p.Percent)
			}
		})
	}

	ctx := context.Background()
	if flagInfoOnly {
		video, err := c.GetInfo(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printInfo(video)
		return
	}

	video, err := c.Download(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "\nSaved: %s\n", video.Title)
}

func printInfo(video *types.VideoInfo) {
	fmt.Printf("Title:    %s\n", video.Title)
	fmt.Printf("Author:   %s\n", video.Author.Name)
	fmt.Printf("Duration: %ds\n", video.LengthSeconds)
	fmt.Printf("Views:    %d\n", video.ViewCount)
	fmt.Printf("Formats:  %d\n\n", len(video.Formats))
	fmt.Printf("%6s  %-12s  %-28s  %10s  %s\n", "itag", "quality", "container/codecs", "bitrate", "flags")
	for _, f := range video.Formats {
		flags := make([]string, 0, 3)
		if f.HasVideo {
			flags = append(flags, "video")
		}
		if f.HasAudio {
			flags = append(flags, "audio")
		}
		if f.IsLive {
			flags = append(flags, "live")
		}
		quality := f.QualityLabel
		if quality == "" {
			quality = f.Quality
		}
		fmt.Printf("%6d  %-12s  %-28s  %10d  %s\n",
			f.Itag, quality, f.Container+"/"+f.Codecs, f.Bitrate, strings.Join(flags, "+"))
	}
}

// parseRange parses "start-end" or "start-" into a byte range.
func parseRange(s string) (*types.Range, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected start-end, got %q", s)
	}
	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, err
	}
	var end int64
	if parts[1] != "" {
		end, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("end %d before start %d", end, start)
		}
	}
	return &types.Range{Start: start, End: end}, nil
}

// parseRate parses strings like "2MiB/s", "500KiB/s" into bytes per second.
func parseRate(s string) int64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0
	}
	mul := int64(1)
	s = strings.TrimSpace(strings.TrimSuffix(s, "/S"))
	sfx := ""
	for _, suf := range []string{"KIB", "MIB", "GIB", "KB", "MB", "GB"} {
		if strings.HasSuffix(s, suf) {
			sfx = suf
			s = strings.TrimSpace(strings.TrimSuffix(s, suf))
			break
		}
	}
	var val float64
	if _, err := fmt.Sscanf(s, "%f", &val); err != nil || val <= 0 {
		return 0
	}
	switch sfx {
	case "KIB":
		mul = 1024
	case "MIB":
		mul = 1024 * 1024
	case "GIB":
		mul = 1024 * 1024 * 1024
	case "KB":
		mul = 1000
	case "MB":
		mul = 1000 * 1000
	case "GB":
		mul = 1000 * 1000 * 1000
	}
	return int64(val * float64(mul))
}
