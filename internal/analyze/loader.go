package analyze

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"
	"time"

	"golang.org/x/tools/go/packages"

	"metanav/internal/common"
	"metanav/typeexpr"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// basicTypes maps go/types basic kinds to runtime types.
var basicTypes = map[types.BasicKind]reflect.Type{
	types.Bool:       reflect.TypeOf(false),
	types.Int:        reflect.TypeOf(int(0)),
	types.Int8:       reflect.TypeOf(int8(0)),
	types.Int16:      reflect.TypeOf(int16(0)),
	types.Int32:      reflect.TypeOf(int32(0)),
	types.Int64:      reflect.TypeOf(int64(0)),
	types.Uint:       reflect.TypeOf(uint(0)),
	types.Uint8:      reflect.TypeOf(uint8(0)),
	types.Uint16:     reflect.TypeOf(uint16(0)),
	types.Uint32:     reflect.TypeOf(uint32(0)),
	types.Uint64:     reflect.TypeOf(uint64(0)),
	types.Uintptr:    reflect.TypeOf(uintptr(0)),
	types.Float32:    reflect.TypeOf(float32(0)),
	types.Float64:    reflect.TypeOf(float64(0)),
	types.Complex64:  reflect.TypeOf(complex64(0)),
	types.Complex128: reflect.TypeOf(complex128(0)),
	types.String:     reflect.TypeOf(""),
}

// wellKnownTypes maps common external named types to runtime types, so
// members typed with them stay ground.
var wellKnownTypes = map[string]reflect.Type{
	"time.Time":     reflect.TypeOf(time.Time{}),
	"time.Duration": reflect.TypeOf(time.Duration(0)),
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Analyzer loads Go packages and extracts class descriptors from their
// type information.
type Analyzer struct {
	graph      *Graph
	classCache map[*types.TypeName]*typeexpr.Class // canonical descriptor per declaration
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:      NewGraph(),
		classCache: make(map[*types.TypeName]*typeexpr.Class),
	}
}

// LoadPackages loads the specified packages and extracts a descriptor
// graph. Patterns are standard Go package patterns (e.g., "./catalog",
// "metanav/catalog").
func (a *Analyzer) LoadPackages(patterns ...string) (*Graph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current descriptor graph.
func (a *Analyzer) Graph() *Graph {
	return a.graph
}

// processPackage extracts descriptors for the exported named types of a
// loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)

		typeName, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		if !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		cls := a.classFor(named)
		a.graph.add(cls)
		pkgInfo.Classes = append(pkgInfo.Classes, cls.ID)
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo
}

// classScope maps go/types type parameters to the descriptor variables
// of the class being built.
type classScope struct {
	vars map[*types.TypeParam]*typeexpr.Variable
}

func newClassScope() *classScope {
	return &classScope{vars: make(map[*types.TypeParam]*typeexpr.Variable)}
}

// classFor returns the canonical descriptor for a named declaration,
// building it on first use. Generic instantiations share their origin's
// descriptor; the instantiation itself is expressed as a Parameterized
// over it.
func (a *Analyzer) classFor(named *types.Named) *typeexpr.Class {
	origin := named.Origin()
	obj := origin.Obj()

	if cls, ok := a.classCache[obj]; ok {
		return cls
	}

	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	cls := typeexpr.NewClass(pkgPath, obj.Name())
	a.classCache[obj] = cls // pre-cache to handle recursive types

	sc := newClassScope()
	tparams := origin.TypeParams()
	for i := 0; i < tparams.Len(); i++ {
		tp := tparams.At(i)
		v := typeexpr.NewVariable(tp.Obj().Name())
		sc.vars[tp] = v
		cls.Params = append(cls.Params, v)
	}
	for i := 0; i < tparams.Len(); i++ {
		if bound := a.boundFor(tparams.At(i), sc); bound != nil {
			cls.Params[i].Bounds = append(cls.Params[i].Bounds, bound)
		}
	}

	switch ut := origin.Underlying().(type) {
	case *types.Struct:
		a.fillStructClass(cls, ut, sc)
	case *types.Interface:
		a.fillInterfaceClass(cls, ut, sc)
	}

	a.addMethodMembers(cls, origin, sc)

	return cls
}

// boundFor converts a type parameter constraint to an upper bound.
// Plain any and comparable carry no class information and leave the
// variable unbounded.
func (a *Analyzer) boundFor(tp *types.TypeParam, sc *classScope) typeexpr.Type {
	c := tp.Constraint()
	if c == nil {
		return nil
	}
	if iface, ok := c.Underlying().(*types.Interface); ok {
		if iface.Empty() || (iface.IsComparable() && iface.NumMethods() == 0) {
			return nil
		}
	}

	switch bound := a.typeFor(c, sc).(type) {
	case *typeexpr.Class:
		return bound
	case *typeexpr.Parameterized:
		return bound
	default:
		return nil
	}
}

// fillStructClass converts struct fields into edges and members: the
// first embedded struct becomes the supertype edge, embedded interfaces
// become superinterface edges, and the remaining exported fields become
// members under their field names.
func (a *Analyzer) fillStructClass(cls *typeexpr.Class, st *types.Struct, sc *classScope) {
	var embedded []typeexpr.Type

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Exported() {
			continue
		}

		if f.Embedded() {
			if types.IsInterface(f.Type()) {
				if edge, ok := classEdge(a.typeFor(f.Type(), sc)); ok {
					cls.Ifaces = append(cls.Ifaces, edge)
					continue
				}
			}

			ft := f.Type()
			if p, ok := ft.(*types.Pointer); ok {
				ft = p.Elem()
			}
			if edge, ok := classEdge(a.typeFor(ft, sc)); ok {
				embedded = append(embedded, edge)
				continue
			}
		}

		cls.Members = append(cls.Members, typeexpr.Member{
			Name: f.Name(),
			Type: a.typeFor(f.Type(), sc),
		})
	}

	if super, ok := common.First(embedded); ok {
		cls.Super = super
		// Further embedded structs stay reachable as members under
		// their type names, which is also how Go spells the field.
		for _, extra := range embedded[1:] {
			if raw := typeexpr.ClassOf(extra); raw != nil {
				cls.Members = append(cls.Members, typeexpr.Member{Name: raw.ID.Name, Type: extra})
			}
		}
	}
}

// fillInterfaceClass converts an interface declaration: embedded
// interfaces become superinterface edges and accessor-shaped methods
// become members.
func (a *Analyzer) fillInterfaceClass(cls *typeexpr.Class, iface *types.Interface, sc *classScope) {
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		if edge, ok := classEdge(a.typeFor(iface.EmbeddedType(i), sc)); ok {
			cls.Ifaces = append(cls.Ifaces, edge)
		}
	}

	for i := 0; i < iface.NumExplicitMethods(); i++ {
		m := iface.ExplicitMethod(i)
		if !m.Exported() {
			continue
		}
		if sig, ok := m.Type().(*types.Signature); ok {
			a.addAccessorMember(cls, m.Name(), sig, sc)
		}
	}
}

// addMethodMembers derives members from accessor methods declared on
// the type.
func (a *Analyzer) addMethodMembers(cls *typeexpr.Class, origin *types.Named, sc *classScope) {
	for i := 0; i < origin.NumMethods(); i++ {
		m := origin.Method(i)
		if !m.Exported() {
			continue
		}

		sig, ok := m.Type().(*types.Signature)
		if !ok {
			continue
		}
		a.addAccessorMember(cls, m.Name(), sig, receiverScope(cls, sig, sc))
	}
}

// receiverScope remaps a method's receiver type parameters onto the
// class's variables. Methods of a generic type reference fresh
// parameter objects, not the ones on the declaration.
func receiverScope(cls *typeexpr.Class, sig *types.Signature, sc *classScope) *classScope {
	rtp := sig.RecvTypeParams()
	if rtp == nil || rtp.Len() == 0 || rtp.Len() != len(cls.Params) {
		return sc
	}

	msc := newClassScope()
	for i := 0; i < rtp.Len(); i++ {
		msc.vars[rtp.At(i)] = cls.Params[i]
	}
	return msc
}

// addAccessorMember records a member for a GetX, IsX, or SetX shaped
// signature when the name is not already declared. Fields win over
// accessors, and getters win over setters.
func (a *Analyzer) addAccessorMember(cls *typeexpr.Class, name string, sig *types.Signature, sc *classScope) {
	var prop string
	var mt types.Type

	switch {
	case strings.HasPrefix(name, "Get") && isPropertySuffix(name[3:]):
		if sig.Params().Len() == 0 && sig.Results().Len() == 1 {
			prop, mt = name[3:], sig.Results().At(0).Type()
		}
	case strings.HasPrefix(name, "Is") && isPropertySuffix(name[2:]):
		if sig.Params().Len() == 0 && sig.Results().Len() == 1 && isBool(sig.Results().At(0).Type()) {
			prop, mt = name[2:], sig.Results().At(0).Type()
		}
	case strings.HasPrefix(name, "Set") && isPropertySuffix(name[3:]):
		if sig.Params().Len() == 1 && sig.Results().Len() == 0 {
			prop, mt = name[3:], sig.Params().At(0).Type()
		}
	}

	if prop == "" || hasMember(cls, prop) {
		return
	}

	cls.Members = append(cls.Members, typeexpr.Member{Name: prop, Type: a.typeFor(mt, sc)})
}

func isPropertySuffix(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func isBool(t types.Type) bool {
	b, ok := unalias(t).Underlying().(*types.Basic)
	return ok && b.Kind() == types.Bool
}

func hasMember(cls *typeexpr.Class, name string) bool {
	for _, m := range cls.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// typeFor converts a go/types type to a descriptor expression. Shapes
// whose components are all ground collapse to concrete runtime types,
// the same rule resolution applies.
func (a *Analyzer) typeFor(t types.Type, sc *classScope) typeexpr.Type {
	t = unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		if rt, ok := basicTypes[tt.Kind()]; ok {
			return typeexpr.OfType(rt)
		}
		return typeexpr.Any

	case *types.TypeParam:
		if v, ok := sc.vars[tt]; ok {
			return v
		}
		return typeexpr.Any

	case *types.Pointer:
		return ptrExpr(a.typeFor(tt.Elem(), sc))

	case *types.Slice:
		return sliceExpr(a.typeFor(tt.Elem(), sc))

	case *types.Array:
		return arrayExpr(a.typeFor(tt.Elem(), sc), tt.Len())

	case *types.Map:
		return dictExpr(a.typeFor(tt.Key(), sc), a.typeFor(tt.Elem(), sc))

	case *types.Named:
		return a.namedExpr(tt, sc)

	case *types.Interface:
		// Anonymous interfaces degrade to the top type.
		return typeexpr.Any

	default:
		// Channels, functions, anonymous structs: opaque for
		// navigation.
		return typeexpr.Any
	}
}

// namedExpr converts a named type reference: well-known externals map
// to their runtime types, instantiations become Parameterized over the
// origin's descriptor, everything else is the descriptor itself.
func (a *Analyzer) namedExpr(named *types.Named, sc *classScope) typeexpr.Type {
	obj := named.Obj()
	if obj.Pkg() == nil {
		if obj.Name() == "error" {
			return typeexpr.OfType(errorType)
		}
		return typeexpr.Any
	}

	if rt, ok := wellKnownTypes[obj.Pkg().Path()+"."+obj.Name()]; ok {
		return typeexpr.OfType(rt)
	}

	if args := named.TypeArgs(); args != nil && args.Len() > 0 {
		cls := a.classFor(named)
		converted := make([]typeexpr.Type, args.Len())
		for i := 0; i < args.Len(); i++ {
			converted[i] = a.typeFor(args.At(i), sc)
		}
		return typeexpr.NewParameterized(cls, converted...)
	}

	return a.classFor(named)
}

// classEdge reports whether an expression can serve as a supertype or
// superinterface edge.
func classEdge(t typeexpr.Type) (typeexpr.Type, bool) {
	switch e := t.(type) {
	case *typeexpr.Class:
		return e, true
	case *typeexpr.Parameterized:
		if e.Raw != typeexpr.Dict && e.Raw != typeexpr.Ptr {
			return e, true
		}
	}
	return nil, false
}

// sliceExpr collapses to the concrete slice type when the element is
// ground.
func sliceExpr(elem typeexpr.Type) typeexpr.Type {
	if gt, ok := groundType(elem); ok {
		return typeexpr.OfType(reflect.SliceOf(gt))
	}
	return typeexpr.NewArray(elem)
}

// arrayExpr collapses fixed arrays the same way. A symbolic element
// loses the length, which navigation does not consult.
func arrayExpr(elem typeexpr.Type, n int64) typeexpr.Type {
	if gt, ok := groundType(elem); ok {
		return typeexpr.OfType(reflect.ArrayOf(int(n), gt))
	}
	return typeexpr.NewArray(elem)
}

func ptrExpr(elem typeexpr.Type) typeexpr.Type {
	if gt, ok := groundType(elem); ok {
		return typeexpr.OfType(reflect.PointerTo(gt))
	}
	return typeexpr.NewPtr(elem)
}

func dictExpr(key, val typeexpr.Type) typeexpr.Type {
	kt, kok := groundType(key)
	vt, vok := groundType(val)
	if kok && vok {
		return typeexpr.OfType(reflect.MapOf(kt, vt))
	}
	return typeexpr.NewDict(key, val)
}

// groundType reports the runtime type of an already ground expression.
func groundType(t typeexpr.Type) (reflect.Type, bool) {
	switch tt := t.(type) {
	case typeexpr.Concrete:
		return tt.GoType, tt.GoType != nil
	case *typeexpr.Class:
		return tt.GoType, tt.GoType != nil
	}
	return nil, false
}
