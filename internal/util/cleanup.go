package util

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// SetupInterruptHandler cancels the run on SIGINT/SIGTERM, removes
// half-written files below outputDir and exits.
func SetupInterruptHandler(cancel context.CancelFunc, outputDir, tempSuffix string) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		cancel()
		CleanupTempFiles(outputDir, tempSuffix)
		RemoveIfEmpty(outputDir)
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()
}

// CleanupTempFiles removes hidden files ending in suffix anywhere below root.
func CleanupTempFiles(root, suffix string) int {
	removed := 0

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		name := d.Name()
		if !strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			fmt.Printf("Error cleaning up %s: %v\n", path, err)
		} else {
			removed++
		}

		return nil
	})

	return removed
}

func RemoveIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	if len(entries) == 0 {
		if err := os.Remove(dir); err == nil {
			fmt.Printf("Removed empty output folder: %s\n", dir)
		}
	}
}
