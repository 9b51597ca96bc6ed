// Package docindex builds the navigation index of the lander library: the
// builder names and packages shown in a sidebar, and the library types
// implementing each public interface.
package docindex

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/fitness"
	"github.com/mesh-intelligence/lander/pkg/sim"
	"github.com/mesh-intelligence/lander/pkg/trace"
	"github.com/mesh-intelligence/lander/pkg/types"
)

// Sidebar categories.
const (
	CategoryBuilder = "builder"
	CategoryPackage = "package"
)

// ErrUnknownInterface is returned by Implementors.
var ErrUnknownInterface = errors.New("unknown interface")

// Item is a sidebar entry: a name and a possibly empty description.
type Item [2]string

func (it Item) Name() string        { return it[0] }
func (it Item) Description() string { return it[1] }

// Index is the whole navigation index.
type Index struct {
	Items        map[string][]Item   `json:"items"`
	Implementors map[string][]string `json:"implementors"`
}

var builderDocs = map[string]string{
	"iff":      "Choose between two programs on a condition.",
	"constant": "A numeric literal.",
	"T":        "The condition that always holds.",
	"F":        "The condition that never holds.",
}

var packages = []Item{
	{"ast", "The abstract syntax tree of lander control programs."},
	{"darwin", "Populations, selection, mutation and crossover."},
	{"fitness", "Scoring controllers by flying them."},
	{"sim", "Lander physics and the sensor data it produces."},
	{"sqlite", "The SQLite run archive."},
	{"trace", "Saving flight traces and generation records."},
	{"types", "Archive interfaces and entities."},
}

// interfaces maps interface names to their types.
var interfaces = map[string]reflect.Type{
	"Node":                     reflect.TypeFor[ast.Node](),
	"Visitor":                  reflect.TypeFor[ast.Visitor](),
	"Copier":                   reflect.TypeFor[ast.Copier](),
	"Readings":                 reflect.TypeFor[ast.Readings](),
	"Controller":               reflect.TypeFor[sim.Controller](),
	"json.Marshaler":           reflect.TypeFor[json.Marshaler](),
	"encoding.TextMarshaler":   reflect.TypeFor[encoding.TextMarshaler](),
	"encoding.TextUnmarshaler": reflect.TypeFor[encoding.TextUnmarshaler](),
}

// libraryTypes are the named types checked against each interface.
var libraryTypes = []reflect.Type{
	reflect.TypeFor[ast.Program](),
	reflect.TypeFor[ast.Condition](),
	reflect.TypeFor[ast.Expression](),
	reflect.TypeFor[ast.Command](),
	reflect.TypeFor[ast.Sensor](),
	reflect.TypeFor[ast.DeepCopy](),
	reflect.TypeFor[ast.Replace](),
	reflect.TypeFor[ast.BucketCollector](),
	reflect.TypeFor[ast.ReadingsFunc](),
	reflect.TypeFor[sim.SensorData](),
	reflect.TypeFor[sim.ControllerFunc](),
	reflect.TypeFor[sim.World](),
	reflect.TypeFor[darwin.ScoreCard](),
	reflect.TypeFor[fitness.LandingScorer](),
	reflect.TypeFor[fitness.SurvivalScorer](),
	reflect.TypeFor[trace.Output](),
	reflect.TypeFor[types.Run](),
	reflect.TypeFor[types.Champion](),
}

// Sidebar returns the sidebar entries by category, each sorted by name.
func Sidebar() map[string][]Item {
	var builders []Item
	for _, name := range ast.BuilderNames() {
		builders = append(builders, Item{name, builderDocs[name]})
	}
	return map[string][]Item{
		CategoryBuilder: builders,
		CategoryPackage: slices.Clone(packages),
	}
}

// Interfaces returns the names accepted by Implementors, sorted.
func Interfaces() []string {
	names := make([]string, 0, len(interfaces))
	for name := range interfaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Implementors lists the library types implementing the named interface,
// as "pkg.Type" or "*pkg.Type" when only the pointer does.
func Implementors(iface string) ([]string, error) {
	it, ok := interfaces[iface]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInterface, iface)
	}
	impls := []string{}
	for _, t := range libraryTypes {
		switch {
		case t.Implements(it):
			impls = append(impls, t.String())
		case reflect.PointerTo(t).Implements(it):
			impls = append(impls, "*"+t.String())
		}
	}
	slices.Sort(impls)
	return impls, nil
}

// Build returns the full index.
func Build() Index {
	idx := Index{
		Items:        Sidebar(),
		Implementors: make(map[string][]string, len(interfaces)),
	}
	for _, name := range Interfaces() {
		impls, _ := Implementors(name)
		idx.Implementors[name] = impls
	}
	return idx
}
