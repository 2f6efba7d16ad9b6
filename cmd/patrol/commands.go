package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/martinemde/patrol/patrol"
)

func visitCmd(a *app) *cobra.Command {
	var (
		scenario   string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "visit [grid-file|-]",
		Short: "Count the distinct cells the guard visits before leaving the grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPuzzle(cmd, args, scenario)
			if err != nil {
				return err
			}
			session, stop := a.startSession(p)
			defer stop()

			report, err := session.Patrol(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Count)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "use a built-in scenario instead of a file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the full report as JSON")
	return cmd
}

func loopsCmd(a *app) *cobra.Command {
	var (
		scenario   string
		workers    int
		list       bool
		at         string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "loops [grid-file|-]",
		Short: "Count single obstacle placements that trap the guard in a loop",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPuzzle(cmd, args, scenario)
			if err != nil {
				return err
			}

			if at != "" {
				cell, err := parseCoord(at)
				if err != nil {
					return err
				}
				cycled, err := p.TrialDetectsCycle(cell)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cycled)
				return nil
			}

			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = workers
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			session, stop := a.startSession(p)
			defer stop()

			report, err := session.SearchLoops(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Count)
			if list {
				for _, c := range report.Placements {
					fmt.Fprintf(out, "%d,%d\n", c.Row, c.Col)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "use a built-in scenario instead of a file")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (0 = one per CPU)")
	cmd.Flags().BoolVar(&list, "list", false, "also print each placement as row,col")
	cmd.Flags().StringVar(&at, "at", "", "test a single placement given as row,col")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the full report as JSON")
	return cmd
}

func renderCmd(a *app) *cobra.Command {
	var (
		scenario   string
		maxLines   int
		placements bool
	)
	cmd := &cobra.Command{
		Use:   "render [grid-file|-]",
		Short: "Draw the guard's path (X) and optionally loop placements (O)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPuzzle(cmd, args, scenario)
			if err != nil {
				return err
			}

			visited, err := p.Visited()
			var cycle *patrol.CycleError
			if errors.As(err, &cycle) {
				a.logger.Warn("guard never exits; drawing the path up to the repeat", "state", cycle.State.String())
			} else if err != nil {
				return err
			}

			var found []patrol.Coord
			if placements {
				found, err = patrol.FindCycleInducingPlacements(cmd.Context(), p,
					patrol.WithWorkers(a.cfg.EffectiveWorkers()),
					patrol.WithLogger(a.logger),
				)
				if err != nil {
					return err
				}
			}

			limit := a.cfg.RenderMaxLines
			if cmd.Flags().Changed("max-lines") {
				limit = maxLines
			}
			fmt.Fprintln(cmd.OutOrStdout(), patrol.TruncateLines(patrol.Render(p, visited, found), limit))
			return nil
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "use a built-in scenario instead of a file")
	cmd.Flags().IntVar(&maxLines, "max-lines", 0, "truncate output to this many rows (0 = unlimited)")
	cmd.Flags().BoolVar(&placements, "placements", false, "also run the loop search and mark placements")
	return cmd
}

func scenariosCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios := patrol.ListScenarios()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), scenarios)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tNAME\tVISITED\tPLACEMENTS\n")
			for _, s := range scenarios {
				visited := "loops"
				if s.ExpectedVisited != nil {
					visited = strconv.Itoa(*s.ExpectedVisited)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.DisplayName, visited, s.ExpectedPlacements)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func parseCoord(s string) (patrol.Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return patrol.Coord{}, fmt.Errorf("coordinate %q must be row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return patrol.Coord{}, fmt.Errorf("coordinate %q: bad row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return patrol.Coord{}, fmt.Errorf("coordinate %q: bad column: %w", s, err)
	}
	return patrol.Coord{Row: row, Col: col}, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
