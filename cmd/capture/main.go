// Command capture parses expense phrases from the command line or stdin.
//
//	capture "coffee 55 and cake 120"
//	echo "昨天買三瓶牛奶每瓶30" | capture -format csv
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/eric1207cvb/expense-capture/internal/domain/capture"
	"github.com/eric1207cvb/expense-capture/internal/domain/capture/export"
	"github.com/eric1207cvb/expense-capture/internal/domain/capture/gemini"
	"github.com/eric1207cvb/expense-capture/pkg/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "capture:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	formatFlag := fs.String("format", "json", "output format: json, csv or xlsx")
	outFlag := fs.String("o", "", "write output to this file instead of stdout")
	categoryFlag := fs.String("category", "", "keep only records of this category (fuzzy)")
	nowFlag := fs.String("now", "", "anchor date YYYY-MM-DD instead of today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Observability.LogLevel}))

	opts := capture.Options{Location: cfg.Capture.Location}
	if *nowFlag != "" {
		anchor, err := civil.ParseDate(*nowFlag)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		fixed := anchor.In(cfg.Capture.Location).Add(12 * time.Hour)
		opts.Now = func() time.Time { return fixed }
	}

	var only capture.Category
	if *categoryFlag != "" {
		c, ok := capture.LookupCategory(*categoryFlag)
		if !ok {
			return fmt.Errorf("unknown category %q", *categoryFlag)
		}
		only = c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := capture.NewService(capture.NewParser(opts), logger)
	if cfg.Capture.ModelEnabled {
		extractor, err := gemini.NewFromAPIKey(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return err
		}
		svc.WithModel(extractor, cfg.Capture.ModelTimeout)
	}

	inputs, err := readInputs(fs.Args(), stdin)
	if err != nil {
		return err
	}

	var records []capture.Record
	for _, in := range inputs {
		result, err := svc.Capture(ctx, in)
		if err != nil {
			return err
		}
		for _, r := range result.Records {
			if only == "" || r.Category == only {
				records = append(records, r)
			}
		}
	}

	out := stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return export.Write(out, format, records, cfg.Capture.Currency)
}

// readInputs joins positional arguments into one phrase, or reads one phrase
// per non-blank stdin line when there are none.
func readInputs(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	var inputs []string
	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return inputs, nil
}
