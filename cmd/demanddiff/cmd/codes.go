package cmd

import (
	"fmt"
	"time"

	"github.com/dbsmedya/demanddiff/internal/codes"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/report"
	"github.com/spf13/cobra"
)

var activeOnly bool

var codesCmd = &cobra.Command{
	Use:   "codes [code...]",
	Short: "Show balancing authority codes",
	Long: `Codes lists the balancing authorities known to demanddiff, or resolves
the given codes the way reported data is normalized before a comparison.

Example:
  demanddiff codes --active
  demanddiff codes CISO ca NVE`,
	RunE: runCodes,
}

func init() {
	codesCmd.Flags().BoolVar(&activeOnly, "active", false,
		"Only list authorities that have not retired")

	rootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, args []string) error {
	out := config.DefaultConfig().Output
	overrides := GetCLIOverrides()
	if overrides.OutputFormat != "" {
		out.Format = overrides.OutputFormat
	}
	out.Path = overrides.OutputPath
	out.Color = !overrides.NoColor

	reg := codes.DefaultRegistry()

	var authorities []codes.BalancingAuthority
	if len(args) == 0 {
		if activeOnly {
			authorities = reg.Active(time.Now())
		} else {
			authorities = reg.All()
		}
		return writeReport(cmd, &out, &report.AuthorityTable{Authorities: authorities})
	}

	enc := codes.DefaultEncoder()
	unknown := 0
	for _, code := range args {
		canonical, outcome := enc.Encode(code)
		switch outcome {
		case codes.Canonical:
			cmd.Printf("%s: canonical\n", code)
		case codes.Fixed:
			cmd.Printf("%s: fixed to %s\n", code, canonical)
		case codes.Ignored:
			cmd.Printf("%s: ignored\n", code)
			continue
		default:
			cmd.Printf("%s: unknown\n", code)
			unknown++
			continue
		}
		ba, _ := reg.Lookup(canonical)
		if activeOnly && ba.Retired(time.Now()) {
			continue
		}
		authorities = append(authorities, ba)
	}

	if len(authorities) > 0 {
		if err := writeReport(cmd, &out, &report.AuthorityTable{Authorities: authorities}); err != nil {
			return err
		}
	}
	if unknown > 0 {
		return fmt.Errorf("%d unknown code(s)", unknown)
	}
	return nil
}
