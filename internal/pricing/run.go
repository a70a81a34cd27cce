package pricing

import (
	"fmt"
	"math"

	"printshop-pricing-backend/internal/model"
)

const mm2PerM2 = 1_000_000.0

// RunSpec describes one production run: the cut size of a piece (trim plus
// bleed on every edge) and how many pieces are ordered.
type RunSpec struct {
	Quantity int
	WidthMm  float64
	HeightMm float64
	BleedMm  float64
}

// RunPlan is the resolved geometry, waste and machine time for a run.
type RunPlan struct {
	// Cut-size area of one piece, bleed included.
	UnitAreaM2 float64
	// Ordered area: UnitAreaM2 times the ordered quantity, waste excluded.
	TotalAreaM2 float64
	// Pieces the press actually produces: running waste plus, for sheet
	// presses, the setup waste sheets charged once per job.
	EffectiveQuantity int
	// EffectiveQuantity as the continuous figure the waste math produced;
	// roll runs are not ceiled to whole pieces.
	EffectivePieces float64
	// Area the press actually runs, waste included.
	EffectiveAreaM2  float64
	MachineTimeHours float64
}

// CutWidth returns the piece width expanded by bleed on both edges.
func (s RunSpec) CutWidth() float64 { return s.WidthMm + 2*s.BleedMm }

// CutHeight returns the piece height expanded by bleed on both edges.
func (s RunSpec) CutHeight() float64 { return s.HeightMm + 2*s.BleedMm }

// ResolveRun computes the waste-adjusted quantity, area and machine time for
// a run on the given machine. Throughput missing for the machine's mode is a
// ConfigurationError even though saved machines are validated, so a stale or
// hand-assembled record still fails loudly instead of dividing by zero.
func ResolveRun(m *model.Machine, spec RunSpec) (RunPlan, error) {
	if spec.Quantity <= 0 {
		return RunPlan{}, &ConfigurationError{Entity: "run", Reason: "quantity must be positive"}
	}
	if spec.WidthMm <= 0 || spec.HeightMm <= 0 {
		return RunPlan{}, &ConfigurationError{Entity: "run", Reason: "piece dimensions must be positive"}
	}

	if err := checkPieceFits(m, spec); err != nil {
		return RunPlan{}, err
	}

	unitArea := spec.CutWidth() * spec.CutHeight() / mm2PerM2
	totalArea := unitArea * float64(spec.Quantity)
	wasteFactor := 1 + m.RunWastePct/100

	plan := RunPlan{
		UnitAreaM2:  unitArea,
		TotalAreaM2: totalArea,
	}

	switch m.Mode {
	case model.ModeSheet:
		if m.SheetsPerHour <= 0 {
			return RunPlan{}, &ConfigurationError{Entity: "machine", ID: m.ID, Reason: "sheetsPerHour is zero for a SHEET machine"}
		}
		plan.EffectiveQuantity = int(math.Ceil(float64(spec.Quantity)*wasteFactor)) + m.SetupWasteSheets
		plan.EffectivePieces = float64(plan.EffectiveQuantity)
		plan.EffectiveAreaM2 = unitArea * plan.EffectivePieces
		plan.MachineTimeHours = m.SetupTimeMin/60 + plan.EffectivePieces/m.SheetsPerHour
	case model.ModeRoll:
		if m.M2PerHour <= 0 {
			return RunPlan{}, &ConfigurationError{Entity: "machine", ID: m.ID, Reason: "m2PerHour is zero for a ROLL machine"}
		}
		// Roll presses have no discrete sheet to waste; setup waste on a
		// roll is running length, which runWastePct already models.
		plan.EffectiveQuantity = int(math.Ceil(float64(spec.Quantity) * wasteFactor))
		plan.EffectivePieces = float64(spec.Quantity) * wasteFactor
		plan.EffectiveAreaM2 = totalArea * wasteFactor
		plan.MachineTimeHours = m.SetupTimeMin/60 + plan.EffectiveAreaM2/m.M2PerHour
	default:
		return RunPlan{}, &ConfigurationError{Entity: "machine", ID: m.ID, Reason: fmt.Sprintf("unknown mode %q", m.Mode)}
	}

	return plan, nil
}

// checkPieceFits rejects pieces whose cut size cannot sit inside the
// machine's printable area in either orientation.
func checkPieceFits(m *model.Machine, spec RunSpec) error {
	w, h := spec.CutWidth(), spec.CutHeight()

	switch m.Mode {
	case model.ModeSheet:
		usableW := m.SheetWidthMm - m.MarginLeftMm - m.MarginRightMm
		usableH := m.SheetHeightMm - m.MarginTopMm - m.MarginBottomMm
		if usableW <= 0 || usableH <= 0 {
			return &ConfigurationError{Entity: "machine", ID: m.ID, Reason: "print margins leave no usable sheet area"}
		}
		if (w > usableW || h > usableH) && (h > usableW || w > usableH) {
			return &ConfigurationError{
				Entity: "machine", ID: m.ID,
				Reason: fmt.Sprintf("piece %vx%vmm does not fit the usable sheet area %vx%vmm", w, h, usableW, usableH),
			}
		}
	case model.ModeRoll:
		usableW := m.RollWidthMm - m.MarginLeftMm - m.MarginRightMm
		if usableW <= 0 {
			return &ConfigurationError{Entity: "machine", ID: m.ID, Reason: "print margins leave no usable roll width"}
		}
		if w > usableW && h > usableW {
			return &ConfigurationError{
				Entity: "machine", ID: m.ID,
				Reason: fmt.Sprintf("piece %vx%vmm exceeds the usable roll width %vmm", w, h, usableW),
			}
		}
	}
	return nil
}
