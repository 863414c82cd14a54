// Package wizard implements the form-state controller for step 2 of the
// onboarding questionnaire. All state lives in memory; the only external call
// is the final submit, handed to a StepSaver collaborator.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/classiflow/classiflow-go/internal/model"
)

// Submit precondition violations. Each blocks submission with a user-facing
// message and no persistence call.
var (
	ErrInventoryAnswerRequired = errors.New("please answer whether you have an up-to-date inventory")
	ErrDataTypeRequired        = errors.New("please select at least one data type")
	ErrInventoryFileRequired   = errors.New("please upload your data inventory JSON file")
)

// ErrInvalidInventoryJSON is returned when an imported inventory file does
// not parse as JSON. Existing state is left untouched.
var ErrInvalidInventoryJSON = errors.New("invalid JSON file")

// StepSaver persists a finalized step 2 result. *service.StepService
// satisfies this.
type StepSaver interface {
	SaveStep2(ctx context.Context, organizationID string, result model.Step2Result) (model.Step2Result, error)
}

// Controller manages the step 2 form as one consolidated state machine:
// the inventory branch selector, data-type selection with per-type detail
// records, dynamic free-text lists, and the JSON inventory import. The
// detail map is owned by the selection methods, which keep its keys a subset
// of the selected plus custom data types at all times.
type Controller struct {
	organizationID string
	saver          StepSaver

	// carried are the regulations chosen in step 1, offered as checkboxes.
	// seedDetails are the detail records from a previously saved step 2
	// result; re-selecting a data type restores its saved detail.
	carried     []string
	seedDetails map[string]model.DataTypeDetail

	hasInventory string
	selected     []string
	custom       []string
	details      map[string]model.DataTypeDetail
	inventory    any

	now func() time.Time
}

// NewController creates a step 2 controller, seeded from any previously
// saved onboarding results for the organization.
func NewController(organizationID string, prior *model.OnboardingResult, saver StepSaver) *Controller {
	c := &Controller{
		organizationID: organizationID,
		saver:          saver,
		carried:        prior.CarriedRegulations(),
		seedDetails:    map[string]model.DataTypeDetail{},
		details:        map[string]model.DataTypeDetail{},
		now:            time.Now,
	}

	if prior != nil && prior.Step2 != nil {
		data := prior.Step2.Data
		c.hasInventory = data.HasInventory
		c.selected = slices.Clone(data.SelectedDataTypes)
		c.custom = slices.Clone(data.CustomDataTypes)
		c.inventory = data.InventoryData
		for name, detail := range data.DataTypeDetails {
			c.seedDetails[name] = cloneDetail(detail)
			c.details[name] = cloneDetail(detail)
		}
	}

	return c
}

// HasInventory returns the current branch selection: "yes", "no" or "".
func (c *Controller) HasInventory() string { return c.hasInventory }

// SetHasInventory switches the branch. The two branches are mutually
// exclusive: "yes" discards all data-type selections and detail records,
// anything else discards the uploaded inventory blob.
func (c *Controller) SetHasInventory(value string) {
	c.hasInventory = value
	if value == "yes" {
		c.selected = nil
		c.custom = nil
		c.details = map[string]model.DataTypeDetail{}
	} else {
		c.inventory = nil
	}
}

// SelectedDataTypes returns the selected data types in selection order.
func (c *Controller) SelectedDataTypes() []string { return slices.Clone(c.selected) }

// CustomDataTypes returns the free-text data-type entries, blanks included.
func (c *Controller) CustomDataTypes() []string { return slices.Clone(c.custom) }

// CarriedRegulations returns the regulation names carried over from step 1.
func (c *Controller) CarriedRegulations() []string { return slices.Clone(c.carried) }

// InventoryData returns the imported inventory blob, nil when absent.
func (c *Controller) InventoryData() any { return c.inventory }

// Detail returns the detail record for a data type, if one exists.
func (c *Controller) Detail(dataType string) (model.DataTypeDetail, bool) {
	detail, ok := c.details[dataType]
	if !ok {
		return model.NewDataTypeDetail(), false
	}
	return cloneDetail(detail), true
}

// ToggleDataType selects or deselects a data type. Selecting creates a
// fully-defaulted detail record, restored from the previously saved result
// when one exists for the same key. Deselecting deletes the detail record so
// no orphaned details are retained.
func (c *Controller) ToggleDataType(dataType string, checked bool) {
	if checked {
		if slices.Contains(c.selected, dataType) {
			return
		}
		c.selected = append(c.selected, dataType)
		detail := model.NewDataTypeDetail()
		if seeded, ok := c.seedDetails[dataType]; ok {
			detail = cloneDetail(seeded)
		}
		c.details[dataType] = detail
		return
	}

	c.selected = slices.DeleteFunc(c.selected, func(s string) bool { return s == dataType })
	delete(c.details, dataType)
}

// AddCustomDataType appends a blank custom entry for in-place editing.
func (c *Controller) AddCustomDataType() {
	c.custom = append(c.custom, "")
}

// UpdateCustomDataType edits a custom entry by position.
func (c *Controller) UpdateCustomDataType(index int, value string) {
	if index < 0 || index >= len(c.custom) {
		return
	}
	c.custom[index] = value
}

// RemoveCustomDataType removes a custom entry by position, deselecting it
// and dropping its detail record if it was selected.
func (c *Controller) RemoveCustomDataType(index int) {
	if index < 0 || index >= len(c.custom) {
		return
	}
	removed := c.custom[index]
	c.custom = append(c.custom[:index], c.custom[index+1:]...)
	if removed != "" {
		c.ToggleDataType(removed, false)
	}
}

// updateDetail applies fn to the detail record of a selected data type.
// Unselected data types have no detail record to edit.
func (c *Controller) updateDetail(dataType string, fn func(*model.DataTypeDetail)) {
	detail, ok := c.details[dataType]
	if !ok {
		return
	}
	fn(&detail)
	c.details[dataType] = detail
}

// SetSensitivity records the sensitivity level for a data type.
func (c *Controller) SetSensitivity(dataType, value string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) { d.Sensitivity = value })
}

// SetBusinessImpact records the business-impact level for a data type.
func (c *Controller) SetBusinessImpact(dataType, value string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) { d.BusinessImpact = value })
}

// SetHasRegulatory answers the regulatory-protection question for a data type.
func (c *Controller) SetHasRegulatory(dataType, value string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) { d.HasRegulatory = value })
}

// ToggleCarriedRegulation checks or unchecks a regulation carried over from
// step 1: checking appends its literal name to the regulations list,
// unchecking removes that exact string. Carried-over and custom entries share
// the same list and are told apart only by membership in the carried set.
func (c *Controller) ToggleCarriedRegulation(dataType, regulation string, checked bool) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if checked {
			if !slices.Contains(d.Regulations, regulation) {
				d.Regulations = append(d.Regulations, regulation)
			}
			return
		}
		d.Regulations = slices.DeleteFunc(d.Regulations, func(s string) bool { return s == regulation })
	})
}

// AddRegulation appends a blank custom regulation entry.
func (c *Controller) AddRegulation(dataType string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		d.Regulations = append(d.Regulations, "")
	})
}

// UpdateRegulation edits a regulation entry by position.
func (c *Controller) UpdateRegulation(dataType string, index int, value string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if index < 0 || index >= len(d.Regulations) {
			return
		}
		d.Regulations[index] = value
	})
}

// RemoveRegulation removes a regulation entry by position.
func (c *Controller) RemoveRegulation(dataType string, index int) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if index < 0 || index >= len(d.Regulations) {
			return
		}
		d.Regulations = append(d.Regulations[:index], d.Regulations[index+1:]...)
	})
}

// ToggleStorage checks or unchecks a predefined storage location.
func (c *Controller) ToggleStorage(dataType, option string, checked bool) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if checked {
			if !slices.Contains(d.Storage, option) {
				d.Storage = append(d.Storage, option)
			}
			return
		}
		d.Storage = slices.DeleteFunc(d.Storage, func(s string) bool { return s == option })
	})
}

// AddStorageOther appends a blank free-text storage entry.
func (c *Controller) AddStorageOther(dataType string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		d.StorageOther = append(d.StorageOther, "")
	})
}

// UpdateStorageOther edits a free-text storage entry by position.
func (c *Controller) UpdateStorageOther(dataType string, index int, value string) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if index < 0 || index >= len(d.StorageOther) {
			return
		}
		d.StorageOther[index] = value
	})
}

// RemoveStorageOther removes a free-text storage entry by position.
func (c *Controller) RemoveStorageOther(dataType string, index int) {
	c.updateDetail(dataType, func(d *model.DataTypeDetail) {
		if index < 0 || index >= len(d.StorageOther) {
			return
		}
		d.StorageOther = append(d.StorageOther[:index], d.StorageOther[index+1:]...)
	})
}

// ImportInventory parses raw file contents as JSON and replaces the inventory
// blob wholesale. On parse failure the existing state is left untouched.
func (c *Controller) ImportInventory(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ErrInvalidInventoryJSON
	}
	c.inventory = parsed
	return nil
}

// Submit validates the preconditions, normalizes the payload and hands it to
// the saver. A saver failure leaves the in-memory form state untouched, so
// resubmitting retries the identical payload.
func (c *Controller) Submit(ctx context.Context) (model.Step2Result, error) {
	details := make(map[string]model.DataTypeDetail, len(c.details))
	for name, detail := range c.details {
		details[name] = cloneDetail(detail)
	}

	data, err := Normalize(model.Step2Data{
		HasInventory:      c.hasInventory,
		SelectedDataTypes: slices.Clone(c.selected),
		CustomDataTypes:   slices.Clone(c.custom),
		DataTypeDetails:   details,
		InventoryData:     c.inventory,
	})
	if err != nil {
		return model.Step2Result{}, err
	}

	result := model.Step2Result{
		Step:      2,
		Title:     model.Step2Title,
		Data:      data,
		Timestamp: c.now().UTC().Format(time.RFC3339),
	}

	return c.saver.SaveStep2(ctx, c.organizationID, result)
}

func cloneDetail(d model.DataTypeDetail) model.DataTypeDetail {
	clone := d
	clone.Regulations = slices.Clone(d.Regulations)
	clone.Storage = slices.Clone(d.Storage)
	clone.StorageOther = slices.Clone(d.StorageOther)
	if clone.Regulations == nil {
		clone.Regulations = []string{}
	}
	if clone.Storage == nil {
		clone.Storage = []string{}
	}
	if clone.StorageOther == nil {
		clone.StorageOther = []string{}
	}
	return clone
}

func stripBlank(entries []string) []string {
	clean := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			clean = append(clean, e)
		}
	}
	return clean
}
