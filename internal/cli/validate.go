// validate.go — команда "cbtquiz validate".
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/letsssgooo/cbtquiz/internal/questions"
)

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check dataset files for load errors",
		Long: `Load every dataset in data.csv_dir, or only the given files, and
report missing columns, bad question numbers and duplicates.
Exits with a non-zero status if any dataset fails to load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				names, err := questions.NewLibrary(cfg.Data.CSVDir).List()
				if err != nil {
					return err
				}
				for _, name := range names {
					paths = append(paths, filepath.Join(cfg.Data.CSVDir, name))
				}
			}

			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range paths {
				dataset, err := questions.LoadFile(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
					continue
				}

				unknown := 0
				for _, row := range dataset.Rows() {
					if _, ok := row.Answer(); !ok {
						unknown++
					}
				}

				fmt.Fprintf(out, "ok    %s: %d questions", path, dataset.Len())
				if unknown > 0 {
					fmt.Fprintf(out, ", %d without answer", unknown)
				}
				fmt.Fprintln(out)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d dataset(s) failed validation", failed, len(paths))
			}

			return nil
		},
	}
}
