package cleanup

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/notargets/meshclean/mesh"
	"github.com/notargets/meshclean/utils"
)

// Part is the piece of a model carried by one property id.
type Part struct {
	PID  int
	Mesh *mesh.Mesh
}

// SplitByProperty copies the elements of each property id, with the nodes
// they use, into a mesh of their own. Parts come back in ascending property
// id. Rigid elements are not carried and the source is not modified.
func SplitByProperty(repo mesh.Repository, logger *slog.Logger) (parts []Part, err error) {
	const op = "SplitByProperty"
	byPID := make(map[int][]mesh.Element)
	for _, e := range repo.Elements() {
		byPID[e.PID] = append(byPID[e.PID], e)
	}
	pids := make([]int, 0, len(byPID))
	for pid := range byPID {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	for _, pid := range pids {
		part := mesh.NewMesh()
		part.Title = fmt.Sprintf("pid=%d", pid)
		used := make(map[int]bool)
		for _, e := range byPID[pid] {
			for _, nid := range e.Nodes {
				used[nid] = true
			}
		}
		nids := make([]int, 0, len(used))
		for nid := range used {
			nids = append(nids, nid)
		}
		sort.Ints(nids)
		var missing []int
		for _, nid := range nids {
			n, ok := repo.Node(nid)
			if !ok {
				missing = append(missing, nid)
				continue
			}
			if err = part.AddNode(n); err != nil {
				return nil, err
			}
		}
		if len(missing) != 0 {
			return nil, &mesh.LookupError{Op: op, Kind: mesh.NodeKind, IDs: missing}
		}
		for _, e := range byPID[pid] {
			if err = part.AddElement(e); err != nil {
				return nil, err
			}
		}
		parts = append(parts, Part{PID: pid, Mesh: part})
	}
	utils.OrDiscard(logger).Debug("model split by property", "parts", len(parts))
	return
}
