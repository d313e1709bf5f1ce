package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"echo-audit-api/pkg/cache"
	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/extract"
	"echo-audit-api/pkg/orm"
	"echo-audit-api/pkg/task"
	"echo-audit-api/utils"

	"github.com/rs/zerolog/log"
)

type sentenceReport struct {
	Sentence string  `json:"sentence"`
	IsTask   bool    `json:"is_task"`
	Deadline *string `json:"deadline"`
}

// extract runs the task pipeline over a transcript file, or stdin when the
// path is "-". Without -persist nothing is written.
func main() {
	persist := flag.Bool("persist", false, "insert tasks through the configured store")
	now := flag.String("now", "", "reference time for relative dates, as "+extract.DeadlineLayout)
	debug := flag.Bool("debug", false, "sets log level to debug")
	trace := flag.Bool("trace", false, "sets log level to trace")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <transcript.txt|->\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	utils.SetupLogger(*debug, *trace)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	text, err := readTranscript(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read transcript")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	loc, _ := cfg.Location()

	resolverOpts := []extract.ResolverOption{extract.WithLocation(loc)}
	if *now != "" {
		ref, err := time.ParseInLocation(extract.DeadlineLayout, *now, loc)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -now value")
		}
		resolverOpts = append(resolverOpts, extract.WithClock(func() time.Time { return ref }))
	}
	classifier := extract.NewClassifier(cfg.ExtraTaskKeywords...)
	resolver := extract.NewResolver(extract.NewWhenParser(), extract.NewRuleRecognizer(), resolverOpts...)

	if !*persist {
		reports := []sentenceReport{}
		for _, sentence := range extract.Segment(text) {
			r := sentenceReport{Sentence: sentence, IsTask: classifier.IsTask(sentence)}
			if r.IsTask {
				r.Deadline = resolver.ResolveDeadline(sentence)
			}
			reports = append(reports, r)
		}
		writeJSON(reports)
		return
	}

	ctx := context.Background()
	store, err := orm.NewTaskStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect task store")
	}
	defer store.OnShutdown(ctx)

	extractor := task.NewExtractor(store, classifier, resolver, task.WithLocker(cache.NewLocalLocker()))
	writeJSON(extractor.ExtractTasks(ctx, text))
}

func readTranscript(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
