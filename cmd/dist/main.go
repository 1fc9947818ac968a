// Command dist packages a release: it stamps the icon into the injector executable and writes a
// zip holding the executable, the DLL and the default configuration.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"practicetool/logging"
)

var log = logging.New("dist")

func main() {
	exeFlag := flag.String("exe", "", "Injector executable")
	dllFlag := flag.String("dll", "", "Tool DLL")
	configFlag := flag.String("config", "practicetool.toml", "Default configuration")
	iconFlag := flag.String("icon", "", "Icon (.ico) to stamp into the executable")
	outFlag := flag.String("out", filepath.Join("dist", "practicetool.zip"), "Archive to write")
	flag.Parse()

	if *exeFlag == "" || *dllFlag == "" {
		fmt.Println("Error: --exe and --dll are required")
		flag.Usage()
		os.Exit(1)
	}

	if *iconFlag != "" {
		if err := stampIcon(*exeFlag, *iconFlag); err != nil {
			fmt.Printf("Error stamping icon: %v\n", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outFlag), 0o755); err != nil {
		fmt.Printf("Error creating %s: %v\n", filepath.Dir(*outFlag), err)
		os.Exit(1)
	}
	if err := writeArchive(*outFlag, *exeFlag, *dllFlag, *configFlag); err != nil {
		fmt.Printf("Error writing archive: %v\n", err)
		os.Exit(1)
	}
	log.Infof("wrote %s", *outFlag)
}
