package equivalence

import (
	"log/slog"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/utils"
)

const allDOF = "123456"

// RigidLinkBuilder ties candidate pairs together with RBE3 elements instead
// of merging them.
type RigidLinkBuilder struct {
	repo mesh.Repository
	cfg  Config
	log  *slog.Logger
}

func NewRigidLinkBuilder(repo mesh.Repository, cfg Config) *RigidLinkBuilder {
	return &RigidLinkBuilder{repo: repo, cfg: cfg, log: utils.OrDiscard(cfg.Logger)}
}

// Build inserts one RBE3 per pair: the lower id is the reference node, the
// higher id the single dependent node with weight 1. Ids continue from the
// largest rigid element id in use. Either every element is inserted or none.
func (rb *RigidLinkBuilder) Build() (created []mesh.RigidElement, err error) {
	var pairs []NodePair
	if pairs, err = findPairs(rb.repo, rb.cfg, "RigidLinkBuilder.Build"); err != nil {
		return
	}
	if len(pairs) == 0 {
		return
	}
	eid := rb.repo.NextFreeID(mesh.RigidKind)
	b := rb.repo.Begin()
	defer b.Rollback()
	for _, p := range pairs {
		r := mesh.RigidElement{
			ID:            eid,
			RefNode:       p.A,
			RefComponents: allDOF,
			Groups:        []mesh.WeightGroup{{Weight: 1, Components: allDOF, Nodes: []int{p.B}}},
		}
		if err = rb.repo.InsertRigidElement(r); err != nil {
			return nil, err
		}
		created = append(created, r)
		eid++
	}
	b.Commit()
	rb.log.Debug("rigid links created", "count", len(created), "first", created[0].ID)
	return
}
