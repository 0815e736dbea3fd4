package ratings

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/jonboulle/clockwork"

	"github.com/globalratings/ratingmap/internal/geo"
)

// exampleCountries are the ten fixed codes used in the downloadable sample.
var exampleCountries = []string{"US", "GB", "DE", "FR", "ES", "IT", "JP", "CN", "IN", "BR"}

const examplePackageName = "com.example.app"

// WriteExampleCSV writes a sample upload file: 30 days ending today, one
// row per country per day, daily ratings random in [1, 5] at 4 decimals,
// total rating fixed to the literal "0".
func WriteExampleCSV(w io.Writer) error {
	return writeExampleCSV(w, clockwork.NewRealClock())
}

func writeExampleCSV(w io.Writer, clock clockwork.Clock) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(RequiredColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, date := range geo.DateRange(clock, 30) {
		for _, country := range exampleCountries {
			daily := fmt.Sprintf("%.4f", 1+rand.Float64()*4)
			if err := cw.Write([]string{date, examplePackageName, country, daily, "0"}); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
