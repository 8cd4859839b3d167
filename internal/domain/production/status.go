package production

import "github.com/atelier/backend/internal/domain/shared"

// BatchStatus is the lifecycle status of a production batch
type BatchStatus string

const (
	// StatusProduzindo means materials are already deducted but the run is
	// not yet confirmed complete
	StatusProduzindo BatchStatus = "produzindo"
	// StatusConcluido means the run finished and the produced quantity was
	// added to finished-goods stock
	StatusConcluido BatchStatus = "concluido"
	// StatusPerda means the product was lost; materials stay consumed
	StatusPerda BatchStatus = "perda"
	// StatusEstornado is the terminal reversal state: consumed materials were
	// returned to the ledger
	StatusEstornado BatchStatus = "estornado"
)

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a member of the enumeration
func (s BatchStatus) IsValid() bool {
	switch s {
	case StatusProduzindo, StatusConcluido, StatusPerda, StatusEstornado:
		return true
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions
func (s BatchStatus) IsTerminal() bool {
	return s == StatusEstornado
}

// TransitionEffects describes the compensating writes a status transition
// performs on the two other aggregates. Keeping the policy as data, rather
// than branching inside the engine, keeps the asymmetry auditable: perda
// never returns materials, estorno always does.
type TransitionEffects struct {
	// ReturnMaterials returns every consumed line to the ledger via estorno
	// movements
	ReturnMaterials bool
	// FinishedGoodsDelta is multiplied by the batch quantity and applied to
	// the product's finished-goods counter (-1, 0 or +1)
	FinishedGoodsDelta int
}

// transitionTable is the exhaustive set of allowed status transitions and
// their side effects. Any pair not present is rejected.
var transitionTable = map[BatchStatus]map[BatchStatus]TransitionEffects{
	StatusProduzindo: {
		StatusConcluido: {FinishedGoodsDelta: +1},
		StatusPerda:     {},
		StatusEstornado: {ReturnMaterials: true},
	},
	StatusConcluido: {
		StatusPerda:     {FinishedGoodsDelta: -1},
		StatusEstornado: {ReturnMaterials: true, FinishedGoodsDelta: -1},
	},
	StatusPerda: {
		StatusEstornado: {ReturnMaterials: true},
	},
}

// EffectsFor returns the side effects of moving from one status to another,
// or ErrInvalidStateTransition when the pair is not in the table.
func EffectsFor(from, to BatchStatus) (TransitionEffects, error) {
	if targets, ok := transitionTable[from]; ok {
		if effects, ok := targets[to]; ok {
			return effects, nil
		}
	}
	return TransitionEffects{}, shared.ErrInvalidStateTransition
}

// CanTransition returns true if the transition is allowed
func CanTransition(from, to BatchStatus) bool {
	_, err := EffectsFor(from, to)
	return err == nil
}

// deletionTable describes the compensation applied before a batch is
// physically removed. Deleting destroys the audit trail, so each status
// undoes only what is still outstanding: produzindo returns its materials,
// concluido takes the produced quantity back out of finished goods, perda
// and estornado have nothing left to undo.
var deletionTable = map[BatchStatus]TransitionEffects{
	StatusProduzindo: {ReturnMaterials: true},
	StatusConcluido:  {FinishedGoodsDelta: -1},
	StatusPerda:      {},
	StatusEstornado:  {},
}

// DeletionEffectsFor returns the compensation to run before hard-deleting a
// batch in the given status.
func DeletionEffectsFor(status BatchStatus) (TransitionEffects, error) {
	effects, ok := deletionTable[status]
	if !ok {
		return TransitionEffects{}, shared.NewDomainError("VALIDATION_ERROR", "Unknown batch status")
	}
	return effects, nil
}
