package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
)

// Operation names accepted in a run file
const (
	OpEquivalence  = "equivalence"
	OpRBE3         = "rbe3"
	OpRemoveUnused = "removeUnused"
	OpCut          = "cut"
	OpFreeEdges    = "freeEdges"
	OpPatches      = "patches"
	OpJoints       = "joints"
)

// Parameters obtained from the YAML run file
type RunParameters struct {
	Title  string `json:"Title"`
	Mesh   string `json:"Mesh" validate:"required"`
	Output string `json:"Output"` // Written after the last step when set
	Steps  []Step `json:"Steps" validate:"required,min=1,dive"`
}

// Step is one operation applied to the mesh, in file order.
type Step struct {
	Operation string `json:"Operation" validate:"required,oneof=equivalence rbe3 removeUnused cut freeEdges patches joints"`

	// equivalence, rbe3
	Tolerance              float64 `json:"Tolerance" validate:"gte=0"`
	MaxCandidates          int     `json:"MaxCandidates" validate:"gte=0"`
	Subset                 []int   `json:"Subset"`
	AllowAttributeMismatch bool    `json:"AllowAttributeMismatch"`

	// cut
	Axis string `json:"Axis" validate:"omitempty,oneof=-x -y -z"`

	// patches
	Seeds           []int     `json:"Seeds"`
	AngleTolerances []float64 `json:"AngleTolerances" validate:"dive,gte=0,lte=180"`
	Strict          bool      `json:"Strict"`

	// freeEdges, nil for every element
	Elements []int `json:"Elements"`

	// joints
	PIDSets [][]int `json:"PIDSets"`
}

var runValidate *validator.Validate

func init() {
	runValidate = validator.New()
	runValidate.RegisterStructValidation(validateStep, Step{})
}

// validateStep checks the fields each operation needs.
func validateStep(sl validator.StructLevel) {
	s := sl.Current().Interface().(Step)
	switch s.Operation {
	case OpEquivalence, OpRBE3:
		if s.Tolerance <= 0 {
			sl.ReportError(s.Tolerance, "Tolerance", "Tolerance", "required_for_op", s.Operation)
		}
	case OpCut:
		if s.Axis == "" {
			sl.ReportError(s.Axis, "Axis", "Axis", "required_for_op", s.Operation)
		}
	case OpPatches:
		if len(s.Seeds) == 0 {
			sl.ReportError(s.Seeds, "Seeds", "Seeds", "required_for_op", s.Operation)
		}
		if n := len(s.AngleTolerances); n != 1 && n != len(s.Seeds) {
			sl.ReportError(s.AngleTolerances, "AngleTolerances", "AngleTolerances", "one_or_per_seed", "")
		}
	case OpJoints:
		if len(s.PIDSets) < 2 {
			sl.ReportError(s.PIDSets, "PIDSets", "PIDSets", "min_two_groups", "")
		}
	}
}

func (rp *RunParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, rp); err != nil {
		return err
	}
	return rp.Validate()
}

func (rp *RunParameters) Validate() error {
	if err := runValidate.Struct(rp); err != nil {
		return fmt.Errorf("invalid run file: %w", err)
	}
	return nil
}

func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%s]\t\t= Mesh\n", rp.Mesh)
	if rp.Output != "" {
		fmt.Printf("[%s]\t\t= Output\n", rp.Output)
	}
	for i, s := range rp.Steps {
		fmt.Printf("Steps[%d] = %s", i, s.Operation)
		switch s.Operation {
		case OpEquivalence, OpRBE3:
			fmt.Printf(" Tolerance=%g MaxCandidates=%d", s.Tolerance, s.MaxCandidates)
			if s.Subset != nil {
				fmt.Printf(" Subset=%v", s.Subset)
			}
		case OpCut:
			fmt.Printf(" Axis=%s", s.Axis)
		case OpPatches:
			fmt.Printf(" Seeds=%v AngleTolerances=%v", s.Seeds, s.AngleTolerances)
		case OpJoints:
			fmt.Printf(" PIDSets=%v", s.PIDSets)
		}
		fmt.Println()
	}
}
