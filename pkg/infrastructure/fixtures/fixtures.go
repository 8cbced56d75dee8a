// Package fixtures embeds the demo scenario: the supplier, article,
// prison, user, warehouse and stock datasets the dashboard ships with.
package fixtures

import (
	"embed"
	"io/fs"

	"github.com/prisonproc/procurement/pkg/domain/repositories"
	"github.com/prisonproc/procurement/pkg/infrastructure/repositories/csv"
)

//go:embed demo/*.csv
var demo embed.FS

// FS returns the demo scenario as a file system rooted at the scenario
// directory
func FS() fs.FS {
	sub, err := fs.Sub(demo, "demo")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load parses the demo scenario
func Load() (*repositories.Dataset, error) {
	return csv.NewLoader(FS()).LoadDataset()
}
