// savetool 查看和维护动作列表演示的存档，并离线校验场景配置
package main

import (
	"fmt"
	"os"

	"github.com/decker502/actionlist/cmd/savetool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
