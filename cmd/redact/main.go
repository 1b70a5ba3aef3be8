package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrianliechti/redactor/config"
	"github.com/adrianliechti/redactor/pkg/client"
	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/jobs/memory"
	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/pipeline"
)

func main() {
	urlFlag := flag.String("url", "", "server url; runs locally when empty")
	tokenFlag := flag.String("token", "", "server token")
	configFlag := flag.String("config", "config.yaml", "config file for local runs")
	outputFlag := flag.String("output", "", "output file")
	categoriesFlag := flag.String("categories", "", "comma separated categories to redact")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: redact [flags] <file.pdf>")
		os.Exit(2)
	}

	input := flag.Arg(0)
	output := *outputFlag

	if output == "" {
		output = filepath.Join(filepath.Dir(input), "redacted_"+filepath.Base(input))
	}

	categories, err := parseCategories(*categoriesFlag)

	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var job *jobs.Job

	if *urlFlag != "" {
		job, err = remote(ctx, *urlFlag, *tokenFlag, input, output, categories)
	} else {
		job, err = local(ctx, *configFlag, input, output, categories)
	}

	if err != nil {
		fatal(err)
	}

	for _, line := range job.Logs {
		fmt.Println(line)
	}

	if job.Status == jobs.StatusFailed {
		fatal(errors.New(job.Error))
	}

	if job.Result != nil {
		for _, d := range job.Result.Detections {
			fmt.Printf("page %d  %-24s %q\n", d.Page, d.Category, d.Text)
		}
	}

	fmt.Println("written", output)
}

func local(ctx context.Context, path, input, output string, categories []pii.Category) (*jobs.Job, error) {
	cfg, err := config.Parse(path)

	if err != nil {
		return nil, err
	}

	registry := memory.New()

	p, err := cfg.Pipeline(registry)

	if err != nil {
		return nil, err
	}

	return process(ctx, p, registry, input, output, categories)
}

type processor interface {
	Process(ctx context.Context, id, input, output string, options *pipeline.ProcessOptions) (*jobs.Result, error)
}

// process runs a job to completion and returns its final state.
func process(ctx context.Context, p processor, registry jobs.Registry, input, output string, categories []pii.Category) (*jobs.Job, error) {
	id := registry.Create(filepath.Base(input))

	options := &pipeline.ProcessOptions{
		Categories: categories,
	}

	result, err := p.Process(ctx, id, input, output, options)

	if err != nil {
		slog.ErrorContext(ctx, "processing failed", "job", id, "error", err)
	}

	job, ok := registry.Get(id)

	if !ok {
		if err != nil {
			return nil, err
		}

		return nil, jobs.ErrNotFound
	}

	if job.Result == nil && result != nil {
		job.Result = result
	}

	return job, nil
}

func remote(ctx context.Context, url, token, input, output string, categories []pii.Category) (*jobs.Job, error) {
	var options []client.RequestOption

	if token != "" {
		options = append(options, client.WithToken(token))
	}

	c := client.New(url, options...)

	f, err := os.Open(input)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	job, err := c.Jobs.New(ctx, client.JobRequest{
		Name:    filepath.Base(input),
		Content: f,

		Categories: categories,
	})

	if err != nil {
		return nil, err
	}

	job, err = c.Jobs.Wait(ctx, job.ID, time.Second)

	if err != nil {
		return nil, err
	}

	if job.Status != jobs.StatusCompleted {
		return job, nil
	}

	out, err := os.Create(output)

	if err != nil {
		return nil, err
	}

	defer out.Close()

	if err := c.Jobs.Download(ctx, job.ID, out); err != nil {
		return nil, err
	}

	return job, c.Jobs.Delete(ctx, job.ID)
}

func parseCategories(val string) ([]pii.Category, error) {
	var result []pii.Category

	for _, item := range strings.Split(val, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}

		c, err := pii.ParseCategory(item)

		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, item)
		}

		result = append(result, c)
	}

	return result, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
