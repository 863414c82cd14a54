package wizard

import (
	"slices"

	"github.com/classiflow/classiflow-go/internal/model"
)

// Normalize validates and cleans a step 2 payload. The submit preconditions
// are enforced, blank entries are stripped from every dynamic list, detail
// records without a matching selected or custom data type are dropped, and
// the inventory blob is carried only on the "yes" branch. The controller runs
// it at submit time; the server runs it again over decoded payloads it did
// not build itself.
func Normalize(data model.Step2Data) (model.Step2Data, error) {
	switch {
	case data.HasInventory == "":
		return model.Step2Data{}, ErrInventoryAnswerRequired
	case data.HasInventory == "no" && len(data.SelectedDataTypes) == 0:
		return model.Step2Data{}, ErrDataTypeRequired
	case data.HasInventory == "yes" && data.InventoryData == nil:
		return model.Step2Data{}, ErrInventoryFileRequired
	}

	clean := model.Step2Data{
		HasInventory:      data.HasInventory,
		SelectedDataTypes: slices.Clone(data.SelectedDataTypes),
		CustomDataTypes:   stripBlank(data.CustomDataTypes),
		DataTypeDetails:   map[string]model.DataTypeDetail{},
	}
	if clean.SelectedDataTypes == nil {
		clean.SelectedDataTypes = []string{}
	}

	// The two branches are mutually exclusive: "yes" carries only the
	// inventory blob, anything else carries only the selection data.
	if data.HasInventory == "yes" {
		clean.SelectedDataTypes = []string{}
		clean.CustomDataTypes = []string{}
		clean.InventoryData = data.InventoryData
		return clean, nil
	}

	allowed := make(map[string]struct{}, len(clean.SelectedDataTypes)+len(clean.CustomDataTypes))
	for _, name := range clean.SelectedDataTypes {
		allowed[name] = struct{}{}
	}
	for _, name := range clean.CustomDataTypes {
		allowed[name] = struct{}{}
	}

	for name, detail := range data.DataTypeDetails {
		if _, ok := allowed[name]; !ok {
			continue
		}
		d := cloneDetail(detail)
		d.Regulations = stripBlank(d.Regulations)
		d.StorageOther = stripBlank(d.StorageOther)
		clean.DataTypeDetails[name] = d
	}

	return clean, nil
}
