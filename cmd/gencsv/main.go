// Package main generates a sample ratings CSV suitable for the upload
// endpoint, written to stdout or the file given with -o.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/globalratings/ratingmap/internal/ratings"
)

func main() {
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gencsv: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := ratings.WriteExampleCSV(w); err != nil {
		fmt.Fprintf(os.Stderr, "gencsv: %v\n", err)
		os.Exit(1)
	}
}
