package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Глобальные флаги
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "flowmap-cli",
	Short: "Утилита конвейера карты межотраслевых потоков",
	Long: `flowmap-cli выполняет тот же конвейер, что и сервер карты:
загрузка исходных таблиц, слияние, ранжирование пар стран и выгрузка результата.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к YAML-файлу конфигурации")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробное логирование")
}

// AddCommand добавляет подкоманду
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
