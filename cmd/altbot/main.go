// 文件: cmd/altbot/main.go
// altbot CLI 入口

package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "altbot",
	Short: "altbot is a low-latency alt-coin tick processing benchmark",
	Long:  "altbot runs the tick processing pipeline (HotPath/MaintenancePath/ExecutionSimulator) against synthetic or recorded market data and reports latency/throughput.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(benchShadowCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
