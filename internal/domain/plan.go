package domain

// ArgKind discriminates transaction call arguments.
type ArgKind string

const (
	ArgPure   ArgKind = "pure"
	ArgObject ArgKind = "object"
	ArgResult ArgKind = "result" // References the result of an earlier step in the same plan
)

// ObjectRef pins an on-chain object at the version the plan was built from.
// The version acts as a fencing token: the chain rejects the plan if the
// object has moved past it.
type ObjectRef struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
	Mutable bool   `json:"mutable"`
	Shared  bool   `json:"shared"`
}

// CallArg is a single argument of a call step. Pure values are carried as
// canonical decimal strings (boundary conversion happens in the builder,
// never in the gateway).
type CallArg struct {
	Kind   ArgKind    `json:"kind"`
	Pure   string     `json:"pure,omitempty"`
	Object *ObjectRef `json:"object,omitempty"`
	Result int        `json:"result,omitempty"` // Step index for ArgResult
}

// CallStep is one Move call of a plan, e.g. "deepbook::balance_manager::deposit".
type CallStep struct {
	Target   string    `json:"target"`
	TypeArgs []string  `json:"type_args,omitempty"`
	Args     []CallArg `json:"args"`
}

// TransactionPlan is an ordered set of call steps built from a single
// consistent snapshot of object versions. Steps execute atomically as a unit.
type TransactionPlan struct {
	Sender    string      `json:"sender"`
	GasBudget uint64      `json:"gas_budget"`
	Steps     []CallStep  `json:"steps"`
	Refs      []ObjectRef `json:"refs"` // Every object the plan consumes, with required version
}

// Reference records an object the plan consumes, deduplicated by id.
func (p *TransactionPlan) Reference(ref ObjectRef) {
	for _, r := range p.Refs {
		if r.ID == ref.ID {
			return
		}
	}
	p.Refs = append(p.Refs, ref)
}

// Mutating reports whether the plan touches any mutable object. Pure read
// plans bypass the sequencer.
func (p *TransactionPlan) Mutating() bool {
	for _, r := range p.Refs {
		if r.Mutable {
			return true
		}
	}
	return false
}

// TransactionOutcome is the chain's verdict on a submitted plan.
type TransactionOutcome struct {
	Success  bool              `json:"success"`
	Digest   string            `json:"digest"`
	Versions map[string]uint64 `json:"versions"`          // object id -> new version, mutated and created alike
	Created  []string          `json:"created,omitempty"` // ids of objects the plan brought into existence
	Failure  string            `json:"failure,omitempty"`
}
