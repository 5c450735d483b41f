package main

import (
	"fmt"
	"log"
	"os"

	"github.com/m3rciful/leadbot/core/buildinfo"
	corecmd "github.com/m3rciful/leadbot/core/cmd"
	"github.com/m3rciful/leadbot/internal/app"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		printVersion()
		return
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("leadbot: %v", err)
	}
}

func printVersion() {
	out := "leadbot " + buildinfo.Version + " (" + buildinfo.Commit + ")"
	if buildinfo.Date != "" {
		out += " built " + buildinfo.Date
	}
	fmt.Println(out)
}
