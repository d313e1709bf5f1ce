package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"echo-audit-api/pkg/cache"
	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/extract"
	"echo-audit-api/pkg/orm"
	"echo-audit-api/pkg/task"
	"echo-audit-api/utils"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type seedTask struct {
	Task     string  `json:"task"`
	Priority string  `json:"priority"`
	Deadline *string `json:"deadline"`
}

// toRecord checks a seed row against the rules the pipeline itself follows.
func (s seedTask) toRecord() (task.TaskRecord, error) {
	text := strings.TrimSpace(s.Task)
	if text == "" {
		return task.TaskRecord{}, errors.New("empty task text")
	}
	priority := task.Priority(s.Priority)
	if priority == "" {
		priority = task.PriorityMedium
	}
	if !priority.Valid() {
		return task.TaskRecord{}, errors.Errorf("invalid priority %q", s.Priority)
	}
	if s.Deadline != nil {
		if _, err := time.Parse(extract.DeadlineLayout, *s.Deadline); err != nil {
			return task.TaskRecord{}, errors.Errorf("deadline %q is not in %q form", *s.Deadline, extract.DeadlineLayout)
		}
	}
	return task.TaskRecord{Task: text, Priority: priority, Deadline: s.Deadline}, nil
}

func main() {
	path := flag.String("file", "cmd/seed/tasks.json", "seed tasks file")
	flag.Parse()
	utils.SetupLogger(false, false)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("Error opening seed file")
	}
	var seeds []seedTask
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal().Err(err).Msg("Error parsing seed file")
	}

	ctx := context.Background()
	store, err := orm.NewTaskStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect task store")
	}
	defer store.OnShutdown(ctx)

	// Persist only; no sentences are classified or resolved here.
	extractor := task.NewExtractor(store, nil, nil, task.WithLocker(cache.NewLocalLocker()))

	inserted, skipped := 0, 0
	for i, s := range seeds {
		record, err := s.toRecord()
		if err != nil {
			log.Warn().Err(err).Int("row", i).Str("task", s.Task).Msg("Skipping invalid seed row")
			skipped++
			continue
		}
		rec, err := extractor.Persist(ctx, record)
		if err != nil {
			log.Error().Err(err).Str("task", record.Task).Msg("Failed to seed task")
			continue
		}
		if rec != nil {
			inserted++
		}
	}
	log.Info().Int("inserted", inserted).Int("skipped", skipped).Int("total", len(seeds)).Msg("Seeded tasks")
}
