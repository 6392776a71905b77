package ifc

import (
	"fmt"
	"os"
	"strings"
)

// Element is one building element with the derived views the checker
// consumes.
type Element struct {
	ID       int
	GlobalID string
	Type     string
	// PredefinedType is the element's enum tag, when one is present.
	PredefinedType string
	// Attributes holds the directly addressable IfcRoot/IfcObject
	// attributes by name (GlobalId, Name, Description, ObjectType, Tag).
	Attributes map[string]string
	// PropertySets maps pset name to property name to value.
	PropertySets map[string]map[string]string
	// ContainedIn lists the entity types of spatial parents.
	ContainedIn []string
	// Materials lists associated material names.
	Materials []string
	// Classifications maps classification system name to references.
	Classifications map[string][]string
}

// Model is a parsed IFC file.
type Model struct {
	Path     string
	Elements []*Element

	byID map[int]*Element
}

// Open reads and indexes an IFC STEP file.
func Open(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	instances, err := parseStep(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing IFC file %s: %w", path, err)
	}

	m := &Model{Path: path, byID: make(map[int]*Element)}
	for id, inst := range instances {
		if !strings.HasPrefix(inst.Type, "IFC") || strings.HasPrefix(inst.Type, "IFCREL") {
			continue
		}
		if isResourceType(inst.Type) {
			continue
		}
		el := &Element{
			ID:              id,
			Type:            inst.Type,
			Attributes:      make(map[string]string),
			PropertySets:    make(map[string]map[string]string),
			Classifications: make(map[string][]string),
		}
		fillAttributes(el, inst)
		m.byID[id] = el
		m.Elements = append(m.Elements, el)
	}

	for _, inst := range instances {
		switch inst.Type {
		case "IFCRELDEFINESBYPROPERTIES":
			m.applyPropertySet(inst, instances)
		case "IFCRELCONTAINEDINSPATIALSTRUCTURE":
			m.applyContainment(inst, instances)
		case "IFCRELASSOCIATESMATERIAL":
			m.applyMaterial(inst, instances)
		case "IFCRELASSOCIATESCLASSIFICATION":
			m.applyClassification(inst, instances)
		}
	}
	return m, nil
}

// isResourceType filters non-element instances that would otherwise
// pollute entity matching (geometry, property and relationship
// resources).
func isResourceType(typ string) bool {
	for _, prefix := range []string{
		"IFCPROPERTY", "IFCMATERIAL", "IFCCLASSIFICATION", "IFCOWNERHISTORY",
		"IFCPERSON", "IFCORGANIZATION", "IFCAPPLICATION", "IFCUNIT", "IFCSIUNIT",
		"IFCAXIS", "IFCCARTESIAN", "IFCDIRECTION", "IFCLOCALPLACEMENT",
		"IFCGEOMETRIC", "IFCSHAPE", "IFCPRODUCTDEFINITIONSHAPE", "IFCEXTRUDED",
		"IFCPOLYLINE", "IFCRECTANGLE", "IFCREPRESENTATION", "IFCDIMENSIONAL",
		"IFCMEASURE", "IFCVALUE",
	} {
		if strings.HasPrefix(typ, prefix) {
			return true
		}
	}
	return false
}

// fillAttributes maps the positional IfcRoot/IfcObject attributes and
// the trailing predefined-type enum, when present.
func fillAttributes(el *Element, inst *instance) {
	pos := map[int]string{0: "GlobalId", 2: "Name", 3: "Description", 4: "ObjectType", 7: "Tag"}
	for i, name := range pos {
		if i < len(inst.Args) {
			if v := argString(inst.Args[i]); v != "" {
				el.Attributes[name] = v
			}
		}
	}
	el.GlobalID = el.Attributes["GlobalId"]
	if el.GlobalID == "" {
		el.GlobalID = fmt.Sprintf("#%d", el.ID)
	}
	// Predefined type is the last enum-valued argument, e.g. .SOLIDWALL.
	for i := len(inst.Args) - 1; i >= 0; i-- {
		if e := argEnum(inst.Args[i]); e != "" && e != "T" && e != "F" && e != "U" {
			el.PredefinedType = e
			break
		}
	}
}

func (m *Model) applyPropertySet(rel *instance, instances map[int]*instance) {
	if len(rel.Args) < 6 {
		return
	}
	psetRef, ok := argRef(rel.Args[5])
	if !ok {
		return
	}
	pset := instances[psetRef]
	if pset == nil || pset.Type != "IFCPROPERTYSET" || len(pset.Args) < 5 {
		return
	}
	psetName := argString(pset.Args[2])
	props := make(map[string]string)
	for _, propRef := range argRefList(pset.Args[4]) {
		prop := instances[propRef]
		if prop == nil || prop.Type != "IFCPROPERTYSINGLEVALUE" || len(prop.Args) < 3 {
			continue
		}
		props[argString(prop.Args[0])] = argWrapped(prop.Args[2])
	}
	for _, elRef := range argRefList(rel.Args[4]) {
		if el := m.byID[elRef]; el != nil {
			el.PropertySets[psetName] = props
		}
	}
}

func (m *Model) applyContainment(rel *instance, instances map[int]*instance) {
	if len(rel.Args) < 6 {
		return
	}
	parentRef, ok := argRef(rel.Args[5])
	if !ok {
		return
	}
	parent := instances[parentRef]
	if parent == nil {
		return
	}
	for _, elRef := range argRefList(rel.Args[4]) {
		if el := m.byID[elRef]; el != nil {
			el.ContainedIn = append(el.ContainedIn, parent.Type)
		}
	}
}

func (m *Model) applyMaterial(rel *instance, instances map[int]*instance) {
	if len(rel.Args) < 6 {
		return
	}
	matRef, ok := argRef(rel.Args[5])
	if !ok {
		return
	}
	names := materialNames(instances[matRef], instances)
	for _, elRef := range argRefList(rel.Args[4]) {
		if el := m.byID[elRef]; el != nil {
			el.Materials = append(el.Materials, names...)
		}
	}
}

// materialNames resolves a relating material to its material names,
// following layer-set indirections one level.
func materialNames(mat *instance, instances map[int]*instance) []string {
	if mat == nil {
		return nil
	}
	switch mat.Type {
	case "IFCMATERIAL":
		if len(mat.Args) > 0 {
			return []string{argString(mat.Args[0])}
		}
	case "IFCMATERIALLAYERSETUSAGE":
		if len(mat.Args) > 0 {
			if ref, ok := argRef(mat.Args[0]); ok {
				return materialNames(instances[ref], instances)
			}
		}
	case "IFCMATERIALLAYERSET":
		var names []string
		if len(mat.Args) > 0 {
			for _, ref := range argRefList(mat.Args[0]) {
				names = append(names, materialNames(instances[ref], instances)...)
			}
		}
		return names
	case "IFCMATERIALLAYER":
		if len(mat.Args) > 0 {
			if ref, ok := argRef(mat.Args[0]); ok {
				return materialNames(instances[ref], instances)
			}
		}
	}
	return nil
}

func (m *Model) applyClassification(rel *instance, instances map[int]*instance) {
	if len(rel.Args) < 6 {
		return
	}
	refID, ok := argRef(rel.Args[5])
	if !ok {
		return
	}
	clsRef := instances[refID]
	if clsRef == nil || clsRef.Type != "IFCCLASSIFICATIONREFERENCE" || len(clsRef.Args) < 3 {
		return
	}
	identification := argString(clsRef.Args[1])
	if identification == "" {
		identification = argString(clsRef.Args[2])
	}
	system := ""
	if len(clsRef.Args) > 3 {
		if sysID, ok := argRef(clsRef.Args[3]); ok {
			if sys := instances[sysID]; sys != nil {
				// IfcClassification: Source, Edition, EditionDate, Name, ...
				if len(sys.Args) > 3 {
					system = argString(sys.Args[3])
				}
				if system == "" && len(sys.Args) > 0 {
					system = argString(sys.Args[0])
				}
			}
		}
	}
	for _, elRef := range argRefList(rel.Args[4]) {
		if el := m.byID[elRef]; el != nil {
			el.Classifications[system] = append(el.Classifications[system], identification)
		}
	}
}
