package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MigrateCommand{})
	registry.Register(&CheckEnvCommand{})
	registry.Register(&DoctorCommand{})

	cmd, ok := registry.Get("migrate")
	require.True(t, ok)
	assert.Equal(t, "migrate", cmd.Name())

	_, ok = registry.Get("deploy")
	assert.False(t, ok)

	var names []string
	for _, c := range registry.List() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"check-env", "doctor", "migrate"}, names)

	var help strings.Builder
	registry.writeHelp(&help)
	assert.Contains(t, help.String(), "migrate")
	assert.Contains(t, help.String(), (&DoctorCommand{}).Description())
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	registry := NewRegistry(&MigrateCommand{})

	assert.ErrorContains(t, registry.Dispatch(nil), "command required")
	assert.ErrorContains(t, registry.Dispatch([]string{"deploy"}), "unknown command: deploy")
	assert.ErrorContains(t, registry.Dispatch([]string{"migrate", "sideways"}), "unknown subcommand")
}

func TestMigrateCommand_ArgumentErrors(t *testing.T) {
	cmd := &MigrateCommand{}

	assert.ErrorContains(t, cmd.Run(nil), "subcommand required")
	assert.ErrorContains(t, cmd.Run([]string{"create"}), "migration name required")
	assert.ErrorContains(t, cmd.Run([]string{"sideways"}), "unknown subcommand")
}

func TestResetDBCommand_RequiresConfirmation(t *testing.T) {
	err := (&ResetDBCommand{}).Run(nil)

	assert.ErrorContains(t, err, "--yes")
}

func TestValidateItemsCommand(t *testing.T) {
	cmd := &ValidateItemsCommand{}

	assert.NoError(t, cmd.Run([]string{"../../configs/items/items.json", "../../configs/schemas/items.schema.json"}))
	assert.Error(t, cmd.Run([]string{"../../configs/items/missing.json"}))
}

func TestDeadLettersCommand(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cmd := &DeadLettersCommand{}
	dir := t.TempDir()

	// CASE 1: Best Case
	path := filepath.Join(dir, "dl.jsonl")
	w, err := event.NewDeadLetterWriter(path)
	require.NoError(t, err)
	n := domain.Notification{Type: domain.NotifyItemAdded, CharacterID: 8}
	require.NoError(t, w.Write(event.NewItemNotificationEvent(n), 3, errors.New("bus down")))
	require.NoError(t, w.Close())
	assert.NoError(t, cmd.Run([]string{path}))

	// CASE 2: Boundary Case
	assert.NoError(t, cmd.Run([]string{filepath.Join(dir, "absent.jsonl")}))

	// CASE 4: Invalid Case
	bad := filepath.Join(dir, "bad.jsonl")
	require.NoError(t, os.WriteFile(bad, []byte("not json\n"), 0644))
	assert.Error(t, cmd.Run([]string{bad}))
}

type stubCommand struct {
	name string
	err  error
	runs int
}

func (s *stubCommand) Name() string            { return s.name }
func (s *stubCommand) Description() string     { return "stub" }
func (s *stubCommand) Run(args []string) error { s.runs++; return s.err }

func TestDoctorCommand_RunsEveryCheck(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	errDB := errors.New("connection refused")
	env := &stubCommand{name: "check-env"}
	db := &stubCommand{name: "check-db", err: errDB}
	items := &stubCommand{name: "validate-items"}

	err := (&DoctorCommand{checks: []Command{env, db, items}}).Run(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.Contains(t, err.Error(), "1 of 3 checks failed")
	assert.Equal(t, 1, items.runs, "checks after a failure still run")

	assert.NoError(t, (&DoctorCommand{checks: []Command{env, items}}).Run(nil))
}
