package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shuttersort/internal/fingerprint"
)

func newStoreCommand(cmdCtx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Fingerprint store utilities",
	}

	storeCmd.AddCommand(newStoreStatsCommand(cmdCtx))

	return storeCmd
}

func newStoreStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show fingerprint store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			algorithm, err := fingerprint.ParseAlgorithm(cfg.Organize.HashAlgorithm)
			if err != nil {
				return err
			}

			store := fingerprint.Open(cfg.Paths.FingerprintDir, algorithm, nil)
			rows := [][]string{
				{"Artifact", store.Path()},
				{"Algorithm", string(store.Algorithm())},
				{"Fingerprints", strconv.Itoa(store.Len())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Property", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
