package commands

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/LilVoxy/flowmap/ETL/models"
	"github.com/spf13/cobra"
)

var (
	rankFilters filterFlags
	rankJSON    bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Выводит рейтинг пар стран для выбранных фильтров",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		payload, err := env.runner.Run(cmd.Context(), rankFilters.params(cmd))
		if err != nil && !errors.Is(err, models.ErrEmptyResult) {
			return describeError(err)
		}

		if rankJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(payload)
		}
		printPayload(payload)
		return nil
	},
}

func init() {
	addFilterFlags(rankCmd, &rankFilters)
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Вывести полный результат в JSON")
	AddCommand(rankCmd)
}
