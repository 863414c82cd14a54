package model

// Step titles as they appear in persisted results.
const (
	Step2Title = "Data Landscape"
)

// DataTypeDetail is the per-data-type sub-form of questionnaire step 2:
// sensitivity and business impact on a none/low/medium/high scale, an
// optional regulatory branch with its regulation list, and storage locations.
type DataTypeDetail struct {
	Sensitivity    string   `json:"sensitivity"`
	BusinessImpact string   `json:"businessImpact"`
	HasRegulatory  string   `json:"hasRegulatory"`
	Regulations    []string `json:"regulations"`
	Storage        []string `json:"storage"`
	StorageOther   []string `json:"storageOther"`
}

// NewDataTypeDetail returns a fully-defaulted detail record.
func NewDataTypeDetail() DataTypeDetail {
	return DataTypeDetail{
		Regulations:  []string{},
		Storage:      []string{},
		StorageOther: []string{},
	}
}

// Step2Data is the payload of questionnaire step 2. DataTypeDetails keys are
// always a subset of SelectedDataTypes plus CustomDataTypes. InventoryData is
// only present when HasInventory is "yes".
type Step2Data struct {
	HasInventory      string                    `json:"hasInventory"`
	SelectedDataTypes []string                  `json:"selectedDataTypes"`
	CustomDataTypes   []string                  `json:"customDataTypes"`
	DataTypeDetails   map[string]DataTypeDetail `json:"dataTypeDetails"`
	InventoryData     any                       `json:"inventoryData,omitempty"`
}

// Step2Result is the persisted, normalized output of step 2.
type Step2Result struct {
	Step      int       `json:"step"`
	Title     string    `json:"title"`
	Data      Step2Data `json:"data"`
	Timestamp string    `json:"timestamp"`
}

// SelectionList is a set of predefined choices plus free-text additions.
type SelectionList struct {
	Selected []string `json:"selected"`
	Other    []string `json:"other"`
}

// Step1Data is the payload of questionnaire step 1. Step 2 only consumes its
// regulations, offered later as carried-over checkboxes.
type Step1Data struct {
	PrimaryObjectives SelectionList `json:"primaryObjectives"`
	OrganizationSize  string        `json:"organizationSize"`
	Stakeholders      SelectionList `json:"stakeholders"`
	Regulations       SelectionList `json:"regulations"`
}

// Step1Result is the persisted output of step 1.
type Step1Result struct {
	Step      int       `json:"step"`
	Title     string    `json:"title"`
	Data      Step1Data `json:"data"`
	Timestamp string    `json:"timestamp"`
}

// OnboardingResult aggregates the saved steps for one organization.
type OnboardingResult struct {
	Step1 *Step1Result `json:"step1,omitempty"`
	Step2 *Step2Result `json:"step2,omitempty"`
}

// CarriedRegulations flattens the regulations chosen in step 1, in display
// order, for reuse as checkboxes in step 2.
func (r *OnboardingResult) CarriedRegulations() []string {
	if r == nil || r.Step1 == nil {
		return nil
	}
	regs := make([]string, 0, len(r.Step1.Data.Regulations.Selected)+len(r.Step1.Data.Regulations.Other))
	regs = append(regs, r.Step1.Data.Regulations.Selected...)
	regs = append(regs, r.Step1.Data.Regulations.Other...)
	return regs
}
