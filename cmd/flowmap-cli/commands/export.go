package commands

import (
	"fmt"

	"github.com/LilVoxy/flowmap/ETL/load"
	"github.com/spf13/cobra"
)

var (
	exportFilters filterFlags
	exportOutput  string

	geojsonFilters filterFlags
	geojsonOutput  string
)

// exportRunE выполняет прогон и записывает результат в файл или стандартный вывод
func exportRunE(format string, filters *filterFlags, output *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		out, closeOut, err := createOutput(*output)
		if err != nil {
			return err
		}

		if err := env.runner.Export(cmd.Context(), filters.params(cmd), format, out); err != nil {
			closeOut()
			return describeError(err)
		}
		if err := closeOut(); err != nil {
			return fmt.Errorf("ошибка записи выгрузки: %w", err)
		}

		if *output != "" && *output != "-" {
			successColor.Printf("Выгрузка %s записана в %s\n", format, *output)
		}
		return nil
	}
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгружает сводку рейтинга в XLSX",
	Args:  cobra.NoArgs,
	RunE:  exportRunE(load.FormatXLSX, &exportFilters, &exportOutput),
}

var geojsonCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Выгружает дуги и пузыри карты в GeoJSON",
	Args:  cobra.NoArgs,
	RunE:  exportRunE(load.FormatGeoJSON, &geojsonFilters, &geojsonOutput),
}

func init() {
	addFilterFlags(exportCmd, &exportFilters)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "summary.xlsx", "Файл выгрузки (- для стандартного вывода)")
	AddCommand(exportCmd)

	addFilterFlags(geojsonCmd, &geojsonFilters)
	geojsonCmd.Flags().StringVarP(&geojsonOutput, "output", "o", "-", "Файл выгрузки (- для стандартного вывода)")
	AddCommand(geojsonCmd)
}
