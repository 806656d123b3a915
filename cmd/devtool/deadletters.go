package main

import (
	"errors"
	"os"
	"sort"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/event"
)

type DeadLettersCommand struct{}

func (c *DeadLettersCommand) Name() string {
	return "dead-letters"
}

func (c *DeadLettersCommand) Description() string {
	return "Summarize undeliverable item events per character"
}

func (c *DeadLettersCommand) Run(args []string) error {
	path := os.Getenv("DEAD_LETTER_PATH")
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = config.DefaultDeadLetterPath
	}
	PrintHeader("Reading dead letters from %s...", path)

	records, err := event.ReadDeadLetters(path)
	if errors.Is(err, os.ErrNotExist) {
		PrintSuccess("No dead-letter file")
		return nil
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		PrintSuccess("No dead letters")
		return nil
	}

	perCharacter := make(map[int64]int)
	perType := make(map[event.Type]int)
	for _, r := range records {
		perCharacter[r.CharacterID]++
		perType[r.Event.Type]++
	}

	ids := make([]int64, 0, len(perCharacter))
	for id := range perCharacter {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		PrintInfo("character %d: %d events", id, perCharacter[id])
	}
	for t, n := range perType {
		PrintInfo("%s: %d", t, n)
	}

	PrintWarning("%d undeliverable events, last at %s", len(records), records[len(records)-1].FailedAt)
	return nil
}
