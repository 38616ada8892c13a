package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FATFIT_CONFIG", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCaloriesCommand(t *testing.T) {
	out, err := runCLI(t, "calories", "--age", "30", "--sex", "male", "--height", "180", "--weight", "80", "--goal", "Lose weight")
	require.NoError(t, err)
	assert.Contains(t, out, "1424 kcal/day")
	assert.Contains(t, out, "goal: lose")
}

func TestCaloriesCommandRejectsNonNumeric(t *testing.T) {
	_, err := runCLI(t, "calories", "--age", "old", "--sex", "female", "--height", "165", "--weight", "60")
	assert.Error(t, err)
}

func TestServeRefusesWithoutSecrets(t *testing.T) {
	t.Setenv("FATSECRET_CLIENT_ID", "")
	t.Setenv("FATSECRET_CLIENT_SECRET", "")
	t.Setenv("JWT_SECRET", "")

	_, err := runCLI(t, "serve")
	assert.ErrorContains(t, err, "missing configuration")
}
