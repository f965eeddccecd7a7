package projects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"planline/internal/domain"
	"planline/internal/rules"
)

// SchemaVersion is written into every stored and exported document. Documents
// without the field are version 0.
const SchemaVersion = 1

// Document is the persisted and exported shape of a project.
type Document struct {
	SchemaVersion int `json:"schemaVersion"`
	domain.Project
}

// upgrades[v] lifts a version v document to v+1.
var upgrades = map[int]func(*Document){
	0: upgradeLegacy,
}

// upgradeLegacy handles documents written before versioning: RACI responsibilities
// spelled out in full and collections missing entirely.
func upgradeLegacy(doc *Document) {
	d := &doc.Data
	d.Normalize()
	for i, r := range d.RACI {
		if v, ok := domain.ParseResponsibility(string(r.Responsibility)); ok {
			d.RACI[i].Responsibility = v
		}
	}
}

func encode(p domain.Project) ([]byte, error) {
	p.Data.Normalize()
	return json.Marshal(Document{SchemaVersion: SchemaVersion, Project: p})
}

func encodeIndent(p domain.Project) ([]byte, error) {
	p.Data.Normalize()
	return json.MarshalIndent(Document{SchemaVersion: SchemaVersion, Project: p}, "", "  ")
}

// decode parses a stored document and upgrades it to the current version.
func decode(raw []byte) (domain.Project, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Project{}, err
	}
	if err := upgrade(&doc); err != nil {
		return domain.Project{}, err
	}
	return doc.Project, nil
}

func upgrade(doc *Document) error {
	if doc.SchemaVersion > SchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported %d", doc.SchemaVersion, SchemaVersion)
	}
	for v := doc.SchemaVersion; v < SchemaVersion; v++ {
		step, ok := upgrades[v]
		if !ok {
			return fmt.Errorf("no upgrade from schema version %d", v)
		}
		step(doc)
	}
	doc.SchemaVersion = SchemaVersion
	doc.Data.Normalize()
	derive(&doc.Data)
	return nil
}

// derive recomputes fields that are never trusted from a document: risk scores
// and the dense phase order.
func derive(d *domain.ProjectData) {
	for i, r := range d.Risks {
		d.Risks[i].Score = domain.RiskScore(r.Probability, r.Impact)
	}
	d.Phases = rules.OrderPhases(d.Phases)
}

// present reports whether a raw JSON member exists and is not null.
func present(v json.RawMessage) bool {
	return len(v) > 0 && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// parseImport checks the shape of an external document before it is decoded:
// name, mode and data must be present, and data must carry non-null tasks,
// risks and stakeholders collections.
func parseImport(raw []byte) (domain.Project, error) {
	var head map[string]json.RawMessage
	if err := json.Unmarshal(raw, &head); err != nil {
		return domain.Project{}, domain.ImportError{Reason: "document is not a JSON object", Err: err}
	}
	for _, k := range []string{"name", "mode", "data"} {
		if !present(head[k]) {
			return domain.Project{}, domain.ImportError{Reason: "missing required field " + k}
		}
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(head["data"], &data); err != nil {
		return domain.Project{}, domain.ImportError{Reason: "data is not an object", Err: err}
	}
	for _, k := range []string{"tasks", "risks", "stakeholders"} {
		if !present(data[k]) {
			return domain.Project{}, domain.ImportError{Reason: "missing required field data." + k}
		}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Project{}, domain.ImportError{Reason: "malformed document", Err: err}
	}
	if err := upgrade(&doc); err != nil {
		return domain.Project{}, domain.ImportError{Reason: "unsupported document", Err: err}
	}
	p := doc.Project
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return domain.Project{}, domain.ImportError{Reason: "name is blank"}
	}
	if !p.Mode.Valid() {
		return domain.Project{}, domain.ImportError{Reason: fmt.Sprintf("unknown mode %q", p.Mode)}
	}
	return p, nil
}
