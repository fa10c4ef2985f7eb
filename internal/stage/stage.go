package stage

// Kind identifies which lifecycle a project follows. Client-billed projects
// move through payment milestones; internal projects have a simpler arc.
type Kind string

const (
	KindClient   Kind = "client"
	KindInternal Kind = "internal"
)

// Stage is a position in a project lifecycle. Stage ids are scoped to a Kind:
// comparing stages from different kinds without passing the kind gives a
// wrong, non-erroring answer.
type Stage string

// Client project stages, in lifecycle order.
const (
	KickOff   Stage = "kick_off"
	PayFirst  Stage = "pay_first"
	Deliver   Stage = "deliver"
	Revise    Stage = "revise"
	PayFinal  Stage = "pay_final"
	Completed Stage = "completed"
)

// Internal project stages, in lifecycle order.
const (
	Concept     Stage = "concept"
	MVP         Stage = "mvp"
	Development Stage = "development"
	Launched    Stage = "launched"
)

// Descriptor holds a stage id plus its display metadata.
type Descriptor struct {
	ID    Stage  `json:"id"`
	Label string `json:"label"`
}

var clientStages = []Descriptor{
	{ID: KickOff, Label: "Kick-off"},
	{ID: PayFirst, Label: "First payment"},
	{ID: Deliver, Label: "Delivery"},
	{ID: Revise, Label: "Revisions"},
	{ID: PayFinal, Label: "Final payment"},
	{ID: Completed, Label: "Completed"},
}

var internalStages = []Descriptor{
	{ID: Concept, Label: "Concept"},
	{ID: MVP, Label: "MVP"},
	{ID: Development, Label: "Development"},
	{ID: Launched, Label: "Launched"},
}

// StagesFor returns the ordered stage descriptors for the given kind. Unknown
// kinds fall back to the client lifecycle.
func StagesFor(kind Kind) []Descriptor {
	if kind == KindInternal {
		return internalStages
	}
	return clientStages
}

// DefaultStage returns the first stage of the given kind's lifecycle.
func DefaultStage(kind Kind) Stage {
	return StagesFor(kind)[0].ID
}

// Valid reports whether st is one of the stages defined for kind.
func Valid(st Stage, kind Kind) bool {
	return indexOf(st, kind) >= 0
}

// Label returns the display label for st, or the raw id if unknown.
func Label(st Stage, kind Kind) string {
	for _, d := range StagesFor(kind) {
		if d.ID == st {
			return d.Label
		}
	}
	return string(st)
}

// ProgressPercent returns how far st is through the kind's lifecycle as a
// whole percentage: (index+1)/len * 100. Unknown stages yield 0.
func ProgressPercent(st Stage, kind Kind) int {
	idx := indexOf(st, kind)
	if idx < 0 {
		return 0
	}
	return (idx + 1) * 100 / len(StagesFor(kind))
}

// IsBefore reports whether st comes strictly before ref in the kind's
// lifecycle. Unknown stages compare as index -1.
func IsBefore(st, ref Stage, kind Kind) bool {
	return indexOf(st, kind) < indexOf(ref, kind)
}

// IsAt reports whether st and ref are the same lifecycle position.
func IsAt(st, ref Stage, kind Kind) bool {
	return indexOf(st, kind) == indexOf(ref, kind)
}

func indexOf(st Stage, kind Kind) int {
	for i, d := range StagesFor(kind) {
		if d.ID == st {
			return i
		}
	}
	return -1
}
