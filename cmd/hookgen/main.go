// Command hookgen writes the hook bindings for the compiled-in registry.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dshills/hookforge/internal/gen"
	"github.com/dshills/hookforge/internal/registry"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		outDir  string
		pkgName string
		verbose bool
	)
	flag.StringVar(&outDir, "out", ".", "Directory to write "+gen.FileName+" into")
	flag.StringVar(&pkgName, "package", "bindings", "Package name of the generated file")
	flag.BoolVar(&verbose, "v", false, "Log each step")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hookgen - generate plugin hook bindings\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hookgen [-out dir] [-package name]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	reg := registry.Default()
	log.WithFields(logrus.Fields{
		"hooks":    len(reg.Hooks()),
		"handlers": len(reg.Handlers()),
	}).Debug("registry loaded")

	path, err := gen.WriteFile(reg, outDir, gen.Options{Package: pkgName})
	if err != nil {
		var integrity *registry.RegistryIntegrityError
		if errors.As(err, &integrity) {
			for _, p := range integrity.Problems {
				log.WithField("problem", p).Error("registry integrity check failed")
			}
		} else {
			log.WithError(err).Error("generation failed")
		}
		return 1
	}

	log.WithField("file", path).Info("bindings written")
	return 0
}
