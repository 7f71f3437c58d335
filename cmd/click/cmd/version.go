package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/go-click/click/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  `Show the CLI version, the framework version and the Go toolchain used to build it.`,
		Usage: "click version",
		Run: func(args []string) error {
			printVersion()
			return nil
		},
	})
}

func printVersion() {
	fmt.Printf("click CLI version %s (built %s)\n", Version, BuildTime)
	fmt.Printf("framework %s\n", config.FrameworkVersion)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		fmt.Printf("module %s %s\n", info.Main.Path, info.Main.Version)
	}
	fmt.Printf("go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
