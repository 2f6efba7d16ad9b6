package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinemde/patrol/patrol"
)

const labGrid = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVisitScenario(t *testing.T) {
	out, _, err := execute(t, "", "visit", "--scenario", "example")
	require.NoError(t, err)
	assert.Equal(t, "41\n", out)
}

func TestVisitStdinAndFile(t *testing.T) {
	out, _, err := execute(t, labGrid, "visit", "-")
	require.NoError(t, err)
	assert.Equal(t, "41\n", out)

	path := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, os.WriteFile(path, []byte(labGrid), 0o600))
	out, _, err = execute(t, "", "visit", path)
	require.NoError(t, err)
	assert.Equal(t, "41\n", out)
}

func TestVisitJSON(t *testing.T) {
	out, _, err := execute(t, "", "visit", "--scenario", "lab-example", "--json")
	require.NoError(t, err)

	var report struct {
		SessionID string `json:"session_id"`
		Count     int    `json:"count"`
		Exit      struct {
			Pos patrol.Coord `json:"pos"`
		} `json:"exit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 41, report.Count)
	assert.NotEmpty(t, report.SessionID)
	assert.Equal(t, patrol.Coord{Row: 9, Col: 7}, report.Exit.Pos)
}

func TestVisitTrappedReportsCycle(t *testing.T) {
	_, _, err := execute(t, "", "visit", "--scenario", "ring")
	var cycle *patrol.CycleError
	require.ErrorAs(t, err, &cycle)
}

func TestLoopsList(t *testing.T) {
	out, _, err := execute(t, "", "loops", "--scenario", "example", "--workers", "2", "--list")
	require.NoError(t, err)
	assert.Equal(t, "6\n6,3\n7,6\n7,7\n8,1\n8,3\n9,7\n", out)
}

func TestLoopsAt(t *testing.T) {
	out, _, err := execute(t, "", "loops", "--scenario", "example", "--at", "6,3")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, _, err = execute(t, "", "loops", "--scenario", "example", "--at", "0,0")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, _, err = execute(t, "", "loops", "--scenario", "example", "--at", "6,4")
	var placement *patrol.InvalidPlacementError
	require.ErrorAs(t, err, &placement)
	assert.True(t, patrol.IsInputError(err))

	_, _, err = execute(t, "", "loops", "--scenario", "example", "--at", "six")
	require.Error(t, err)
}

func TestLoopsJSON(t *testing.T) {
	out, _, err := execute(t, labGrid, "loops", "-", "--json", "--workers", "1")
	require.NoError(t, err)

	var report patrol.SearchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 6, report.Count)
	assert.Equal(t, 91, report.Candidates)
	assert.Len(t, report.Placements, 6)
}

func TestRender(t *testing.T) {
	out, _, err := execute(t, "", "render", "--scenario", "square", "--placements")
	require.NoError(t, err)
	assert.Equal(t, ".#...\n.XXX#\n.X.X.\nO^XX.\n...#.\n", out)

	out, _, err = execute(t, "", "render", "--scenario", "example", "--max-lines", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "[... 6 rows omitted ...]")

	// A trapped agent still renders.
	out, stderr, err := execute(t, "", "render", "--scenario", "ring")
	require.NoError(t, err)
	assert.Equal(t, ".#.\n#^#\n.#.\n", out)
	assert.Contains(t, stderr, "never exits")
}

func TestScenarios(t *testing.T) {
	out, _, err := execute(t, "", "scenarios")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(patrol.Scenarios)+1)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out, "lab-example")
	assert.Contains(t, out, "loops")

	out, _, err = execute(t, "", "scenarios", "--json")
	require.NoError(t, err)
	var list []patrol.ScenarioInfo
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, len(patrol.Scenarios))
}

func TestInputErrors(t *testing.T) {
	_, _, err := execute(t, "", "visit", "--scenario", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")

	_, _, err = execute(t, "", "visit")
	require.Error(t, err)

	_, _, err = execute(t, "..#\n...\n", "visit", "-")
	var start *patrol.StartMarkerError
	require.ErrorAs(t, err, &start)

	_, _, err = execute(t, "..^\n..\n", "visit", "-")
	var malformed *patrol.MalformedGridError
	require.ErrorAs(t, err, &malformed)
}

func TestConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patrol.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\nlog_level: debug\n"), 0o600))

	out, stderr, err := execute(t, "", "--config", path, "--log-format", "json", "visit", "--scenario", "edge")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
	assert.Contains(t, stderr, `"msg"`)

	_, _, err = execute(t, "", "--log-format", "xml", "visit", "--scenario", "edge")
	var cfgErr *patrol.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
