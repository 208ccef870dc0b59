package readers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/meshclean/mesh"
)

// Mesh description layout shared by the YAML and JSON forms:
//
//	title: wing box
//	nodes:
//	  - {id: 1, xyz: [0, 0, 0]}
//	  - {id: 2, xyz: [1, 0, 0], cd: 3}
//	elements:
//	  - {id: 1, card: CTRIA3, pid: 1, nodes: [1, 2, 3]}
//	rigidElements:
//	  - id: 1
//	    refNode: 1
//	    refComponents: "123456"
//	    groups: [{weight: 1, components: "123456", nodes: [2]}]
type meshFile struct {
	Title         string          `json:"title,omitempty"`
	Nodes         []nodeRecord    `json:"nodes"`
	Elements      []elementRecord `json:"elements"`
	RigidElements []rigidRecord   `json:"rigidElements,omitempty"`
}

type nodeRecord struct {
	ID   int        `json:"id"`
	XYZ  [3]float64 `json:"xyz"`
	CP   int        `json:"cp,omitempty"`
	CD   int        `json:"cd,omitempty"`
	PS   int        `json:"ps,omitempty"`
	SEID int        `json:"seid,omitempty"`
}

type elementRecord struct {
	ID    int    `json:"id"`
	Card  string `json:"card"`
	PID   int    `json:"pid"`
	Nodes []int  `json:"nodes"`
}

type rigidRecord struct {
	ID            int           `json:"id"`
	RefNode       int           `json:"refNode"`
	RefComponents string        `json:"refComponents"`
	Groups        []groupRecord `json:"groups"`
}

type groupRecord struct {
	Weight     float64 `json:"weight"`
	Components string  `json:"components"`
	Nodes      []int   `json:"nodes"`
}

// ParseYAML reads a YAML or JSON mesh description.
func ParseYAML(r io.Reader) (*mesh.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var mf meshFile
	if err = yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("invalid mesh description: %w", err)
	}
	msh := mesh.NewMesh()
	msh.Title = mf.Title
	for _, n := range mf.Nodes {
		if err = msh.AddNode(mesh.Node{
			ID:  n.ID,
			XYZ: r3.Vec{X: n.XYZ[0], Y: n.XYZ[1], Z: n.XYZ[2]},
			CP:  n.CP, CD: n.CD, PS: n.PS, SEID: n.SEID,
		}); err != nil {
			return nil, err
		}
	}
	for _, e := range mf.Elements {
		if err = msh.AddElement(mesh.Element{
			ID:    e.ID,
			Type:  mesh.ParseElementType(e.Card),
			Card:  e.Card,
			PID:   e.PID,
			Nodes: e.Nodes,
		}); err != nil {
			return nil, err
		}
	}
	for _, rr := range mf.RigidElements {
		re := mesh.RigidElement{ID: rr.ID, RefNode: rr.RefNode, RefComponents: rr.RefComponents}
		for _, g := range rr.Groups {
			re.Groups = append(re.Groups, mesh.WeightGroup(g))
		}
		if err = msh.InsertRigidElement(re); err != nil {
			return nil, err
		}
	}
	if err = msh.CheckReferences(); err != nil {
		return nil, err
	}
	return msh, nil
}

func toFile(m *mesh.Mesh) (mf meshFile) {
	mf.Title = m.Title
	for _, n := range m.Nodes() {
		mf.Nodes = append(mf.Nodes, nodeRecord{ID: n.ID, XYZ: [3]float64{n.XYZ.X, n.XYZ.Y, n.XYZ.Z},
			CP: n.CP, CD: n.CD, PS: n.PS, SEID: n.SEID})
	}
	for _, e := range m.Elements() {
		mf.Elements = append(mf.Elements, elementRecord{ID: e.ID, Card: e.Card, PID: e.PID, Nodes: e.Nodes})
	}
	for _, r := range m.RigidElements() {
		rr := rigidRecord{ID: r.ID, RefNode: r.RefNode, RefComponents: r.RefComponents}
		for _, g := range r.Groups {
			rr.Groups = append(rr.Groups, groupRecord(g))
		}
		mf.RigidElements = append(mf.RigidElements, rr)
	}
	return
}

// WriteYAML writes the mesh description in YAML form.
func WriteYAML(w io.Writer, m *mesh.Mesh) error {
	data, err := yaml.Marshal(toFile(m))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON writes the mesh description in JSON form.
func WriteJSON(w io.Writer, m *mesh.Mesh) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toFile(m))
}
