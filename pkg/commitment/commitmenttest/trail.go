package commitmenttest

import (
	"fmt"

	"github.com/forecast-stamps/verifier-go/pkg/hashing"
	"github.com/forecast-stamps/verifier-go/pkg/proof"
)

// TrailFor builds an audit trail for leaf from sibling pre-images. Each
// sibling is the hash of its label; even levels put the sibling on the left.
// The returned trail's Root is the folded value, so it always verifies.
func TrailFor(leaf hashing.Hash, labels ...string) (proof.AuditTrail, error) {
	accumulated := leaf
	nodes := make([]proof.Node, 0, len(labels))
	for level, label := range labels {
		sibling, err := hashing.SumString(label)
		if err != nil {
			return proof.AuditTrail{}, err
		}
		isLeft := level%2 == 0
		if isLeft {
			accumulated, err = hashing.Concat(sibling, accumulated)
		} else {
			accumulated, err = hashing.Concat(accumulated, sibling)
		}
		if err != nil {
			return proof.AuditTrail{}, fmt.Errorf("fold level %d: %w", level, err)
		}
		nodes = append(nodes, proof.Node{SiblingHash: sibling, IsLeftSibling: isLeft})
	}
	return proof.AuditTrail{Nodes: nodes, Root: accumulated}, nil
}
