// Package pow implements the proof of work puzzle used to throttle the
// creation of new blocks.
package pow

import (
	"context"
	"strconv"

	"github.com/ardanlabs/microchain/foundation/blockchain/signature"
)

// Difficulty is the number of leading hex 0's a solution hash must have.
const Difficulty = 4

// reportEvery sets how often the search reports progress and checks for
// cancellation.
const reportEvery = 1_000_000

// =============================================================================

// FindProof searches for the smallest proof that solves the puzzle anchored
// to the specified last proof. Candidates are tried in order starting at 0,
// so two runs with the same last proof always produce the same answer.
func FindProof(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("pow: FindProof: MINING: started: lastProof[%d]", lastProof)
	defer ev("pow: FindProof: MINING: completed")

	var proof uint64
	for {
		if proof%1024 == 0 {

			// Did we get cancelled trying to solve the problem.
			if err := ctx.Err(); err != nil {
				ev("pow: FindProof: MINING: CANCELLED: attempts[%d]", proof)
				return 0, err
			}
		}

		if proof > 0 && proof%reportEvery == 0 {
			ev("pow: FindProof: MINING: attempts[%d]", proof)
		}

		if IsValid(lastProof, proof) {
			ev("pow: FindProof: MINING: SOLVED: lastProof[%d]: proof[%d]", lastProof, proof)
			return proof, nil
		}

		proof++
	}
}

// IsValid reports whether the pair of proofs solves the puzzle. The digest
// of the decimal forms of both proofs concatenated together must begin with
// Difficulty hex 0's.
func IsValid(lastProof uint64, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return isHashSolved(Difficulty, signature.Sum(guess))
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	const match = "0000000000000000"

	if len(hash) != 64 || difficulty > len(match) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
