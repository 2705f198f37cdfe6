package proof

import "github.com/forecast-stamps/verifier-go/pkg/hashing"

// Verify reports whether folding trail into leaf reproduces the trail's root.
// A false result with a nil error is a definitive verification failure.
func Verify(leaf hashing.Hash, trail AuditTrail) (bool, error) {
	result, err := Replay(leaf, trail)
	if err != nil {
		return false, err
	}
	return result.Verified, nil
}

// VerifyAgainst is Verify with an additional, independently obtained root
// that the trail's terminal must equal.
func VerifyAgainst(leaf hashing.Hash, trail AuditTrail, expectedRoot hashing.Hash) (bool, error) {
	if _, err := hashing.ParseHashField("", string(expectedRoot)); err != nil {
		return false, &ValidationError{Index: -1, Field: "expected_root", Message: "malformed expected root", Cause: err}
	}
	result, err := Replay(leaf, trail)
	if err != nil {
		return false, err
	}
	return result.Verified && trail.Root == expectedRoot, nil
}

// Replay folds every node of trail into leaf, in order, and returns the
// computed root with the intermediate steps.
func Replay(leaf hashing.Hash, trail AuditTrail) (Result, error) {
	if _, err := hashing.ParseHashField("", string(leaf)); err != nil {
		return Result{}, &ValidationError{Index: -1, Field: "leaf_hash", Message: "malformed leaf hash", Cause: err}
	}
	if err := trail.Validate(); err != nil {
		return Result{}, err
	}

	accumulated := leaf
	steps := make([]Step, 0, len(trail.Nodes))
	for level, node := range trail.Nodes {
		var (
			next hashing.Hash
			err  error
		)
		if node.IsLeftSibling {
			next, err = hashing.Concat(node.SiblingHash, accumulated)
		} else {
			next, err = hashing.Concat(accumulated, node.SiblingHash)
		}
		if err != nil {
			return Result{}, err
		}

		steps = append(steps, Step{
			Level:         level,
			Sibling:       node.SiblingHash,
			IsLeftSibling: node.IsLeftSibling,
			Input:         accumulated,
			Output:        next,
		})
		accumulated = next
	}

	return Result{
		LeafHash:     leaf,
		ComputedRoot: accumulated,
		ExpectedRoot: trail.Root,
		Steps:        steps,
		Verified:     accumulated == trail.Root,
	}, nil
}
