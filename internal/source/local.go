package source

import (
	"fmt"
	"iter"

	"github.com/nao1215/inventoryaudit/internal/csvio"
	"github.com/nao1215/inventoryaudit/internal/model"
)

// LoadInventoryMap reads the agency to inventory URL mapping.
// Later rows for the same agency replace the URL of earlier ones.
func LoadInventoryMap(path string) (*model.InventoryMap, model.SourceInfo, error) {
	info := model.SourceInfo{Name: model.SourceInventoryMap, Location: path}
	m := model.NewInventoryMap()

	for fields, err := range csvio.ReadFile(path, csvio.RawHeader) {
		if err != nil {
			info.Error = err.Error()
			return m, info, fmt.Errorf("failed to load inventory map: %w", err)
		}
		e := model.NewInventoryMapEntry(fields)
		m.Set(e.Agency, e.WebsiteInventory)
		info.Rows++
	}

	info.Available = true
	return m, info, nil
}

// PublicInventory returns a lazy sequence over the public website
// inventory. Header names are lower-cased. The file is opened when
// iteration starts.
func PublicInventory(path string) iter.Seq2[model.PublicInventoryRecord, error] {
	return func(yield func(model.PublicInventoryRecord, error) bool) {
		for fields, err := range csvio.ReadFile(path, csvio.LowerHeader) {
			if err != nil {
				yield(model.PublicInventoryRecord{}, err)
				return
			}
			if !yield(model.NewPublicInventoryRecord(fields), nil) {
				return
			}
		}
	}
}
