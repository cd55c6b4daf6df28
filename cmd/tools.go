/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/gmaffy/ngs-wrap/utils"
	"github.com/spf13/cobra"
	"github.com/valyala/fasttemplate"
)

var depLine = fasttemplate.New("[{{ok}}] {{name}}\t{{path}}\n", "{{", "}}")

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Checks that every configured tool can be found",
	Long: `Resolves samtools, java and python on PATH and checks that the GATK and
VarScan jars and the vcf2maf script exist. Exits non-zero when any is missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := utils.CheckDeps(cfg)
		out := cmd.OutOrStdout()
		if cfg.Source != "" {
			fmt.Fprintf(out, "config: %s\n", cfg.Source)
		}
		for _, d := range deps {
			ok, path := "ok", d.Resolved
			if !d.Found {
				ok, path = "--", d.Path
			}
			if path == "" {
				path = "(not set)"
			}
			depLine.ExecuteFunc(out, func(w io.Writer, tag string) (int, error) {
				switch tag {
				case "ok":
					return w.Write([]byte(ok))
				case "name":
					return w.Write([]byte(d.Name))
				default:
					return w.Write([]byte(path))
				}
			})
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
