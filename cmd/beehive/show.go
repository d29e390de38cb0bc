package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/japaniel/beehive/pkg/puzzle"
	"github.com/japaniel/beehive/pkg/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date|id>",
		Short: "Print one enriched puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			coll, err := store.NewXMLStore(cfg.Paths.Puzzles).Load()
			if err != nil {
				return err
			}
			p, ok := coll.ByDate(args[0])
			if !ok {
				p, ok = coll.ByID(args[0])
			}
			if !ok {
				return fmt.Errorf("no puzzle with date or id %q in %s", args[0], cfg.Paths.Puzzles)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:     %s\n", p.Date)
			fmt.Fprintf(out, "ID:       %s\n", optString(p.ID))
			fmt.Fprintf(out, "Letters:  %s\n", optString(p.Letters))
			fmt.Fprintf(out, "Count:    %s\n", optInt(p.Count))
			fmt.Fprintf(out, "Pangrams: %s (perfect %s)\n", optInt(p.Pangrams), optInt(p.PerfectPangrams))
			if stats, ok := p.LetterStats.Get(); ok {
				fmt.Fprint(out, "Starts:  ")
				for _, s := range stats {
					fmt.Fprintf(out, " %s=%d", s.Letter, s.Count)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out)

			headers := []string{"WORD", "LEN", "FIRST", "FIRST2", "JUMBLED", "PANGRAM", "PERFECT"}
			rows := make([][]string, 0, len(p.Words))
			for _, w := range p.Words {
				rows = append(rows, []string{
					w.Text,
					optInt(w.Length),
					optString(w.First),
					optString(w.FirstTwo),
					optString(w.Jumbled),
					optBool(w.Pangram),
					optBool(w.PerfectPangram),
				})
			}
			aligns := []columnAlignment{alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
}

func optString(o puzzle.Opt[string]) string {
	if v, ok := o.Get(); ok {
		return v
	}
	return "-"
}

func optInt(o puzzle.Opt[int]) string {
	if v, ok := o.Get(); ok {
		return strconv.Itoa(v)
	}
	return "-"
}

func optBool(o puzzle.Opt[bool]) string {
	v, ok := o.Get()
	switch {
	case !ok:
		return "-"
	case v:
		return "yes"
	default:
		return "no"
	}
}
