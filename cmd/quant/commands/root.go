package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "GPR2M - 매출총이익/시가총액 롱숏 팩터 리서치",
	Long: `GPR2M Unified CLI

재무제표(point-in-time)와 일별 시장 데이터로 월말마다
GPR2M 팩터를 계산하고, 상위/하위 20종목 롱숏 포트폴리오의
다음 달 보유 손익을 측정합니다.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant run
  go run ./cmd/quant run --from 2012-01-01 --to 2013-12-31 --workers 4
  go run ./cmd/quant rebuild --out output
  go run ./cmd/quant calendar
  go run ./cmd/quant data-check`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return nil
		}
		// 이미 설정된 환경변수는 덮어쓰지 않음
		if err := godotenv.Load(configFile); err != nil {
			return fmt.Errorf("load %s: %w", configFile, err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
