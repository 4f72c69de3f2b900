// Package schema maps kind names to constructors and declared field types.
// The registry is the only place that knows which fields a kind declares;
// coercion of user input and reconstruction of persisted records both go
// through it.
package schema

import (
	"fmt"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// FieldType is the declared type of an entity field.
type FieldType int

// Declared field types. Unknown marks a field the kind does not declare;
// values for it are stored verbatim.
const (
	Unknown FieldType = iota
	String
	Int
	Float
	List
	Timestamp
)

var fieldTypeNames = map[FieldType]string{
	Unknown:   "unknown",
	String:    "string",
	Int:       "int",
	Float:     "float",
	List:      "list",
	Timestamp: "timestamp",
}

func (f FieldType) String() string {
	if name, ok := fieldTypeNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", int(f))
}

// Constructor returns a new entity with every field at its default.
type Constructor func() types.Entity

// Field is one declared (name, type) pair.
type Field struct {
	Name string
	Type FieldType
}

// identityFields are declared on every kind.
var identityFields = []Field{
	{types.FieldID, String},
	{types.FieldCreatedAt, Timestamp},
	{types.FieldUpdatedAt, Timestamp},
}

type kindSchema struct {
	ctor   Constructor
	fields []Field
	byName map[string]FieldType
}

// Registry is a static lookup from kind name to constructor and field types.
// It is populated once and only read afterwards.
type Registry struct {
	kinds map[string]*kindSchema
	names []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{kinds: make(map[string]*kindSchema)}
}

// Register adds a kind. The identity fields are declared automatically.
// Registering a name twice replaces the earlier entry.
func (r *Registry) Register(name string, ctor Constructor, fields ...Field) {
	ks := &kindSchema{
		ctor:   ctor,
		fields: append(append([]Field{}, identityFields...), fields...),
		byName: make(map[string]FieldType, len(identityFields)+len(fields)),
	}
	for _, f := range ks.fields {
		ks.byName[f.Name] = f.Type
	}
	if _, exists := r.kinds[name]; !exists {
		r.names = append(r.names, name)
	}
	r.kinds[name] = ks
}

// standardKind is the constructor and declared fields of one built-in kind.
type standardKind struct {
	ctor   Constructor
	fields []Field
}

var standardKinds = map[string]standardKind{
	types.KindBaseModel: {ctor: types.NewBaseModel},
	types.KindUser: {ctor: types.NewUser, fields: []Field{
		{"email", String},
		{"password", String},
		{"first_name", String},
		{"last_name", String},
	}},
	types.KindState: {ctor: types.NewState, fields: []Field{
		{"name", String},
	}},
	types.KindCity: {ctor: types.NewCity, fields: []Field{
		{"state_id", String},
		{"name", String},
	}},
	types.KindAmenity: {ctor: types.NewAmenity, fields: []Field{
		{"name", String},
	}},
	types.KindPlace: {ctor: types.NewPlace, fields: []Field{
		{"city_id", String},
		{"user_id", String},
		{"name", String},
		{"description", String},
		{"number_rooms", Int},
		{"number_bathrooms", Int},
		{"max_guest", Int},
		{"price_by_night", Int},
		{"latitude", Float},
		{"longitude", Float},
		{"amenity_ids", List},
	}},
	types.KindReview: {ctor: types.NewReview, fields: []Field{
		{"place_id", String},
		{"user_id", String},
		{"text", String},
	}},
}

// Default returns a Registry holding the standard kinds, registered in
// types.StandardKindNames order.
func Default() *Registry {
	r := New()
	for _, name := range types.StandardKindNames {
		k := standardKinds[name]
		r.Register(name, k.ctor, k.fields...)
	}
	return r
}

// Resolve returns the constructor for a kind name.
// Returns types.ErrUnknownKind if the name is not registered.
func (r *Registry) Resolve(name string) (Constructor, error) {
	ks, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, name)
	}
	return ks.ctor, nil
}

// Has reports whether name is a registered kind.
func (r *Registry) Has(name string) bool {
	_, ok := r.kinds[name]
	return ok
}

// Kinds returns the registered kind names in registration order.
func (r *Registry) Kinds() []string {
	return append([]string(nil), r.names...)
}

// Fields returns the declared fields of a kind, identity fields first.
// Returns nil for an unknown kind.
func (r *Registry) Fields(kind string) []Field {
	ks, ok := r.kinds[kind]
	if !ok {
		return nil
	}
	return append([]Field(nil), ks.fields...)
}

// FieldType returns the declared type of field on kind, or Unknown.
func (r *Registry) FieldType(kind, field string) FieldType {
	ks, ok := r.kinds[kind]
	if !ok {
		return Unknown
	}
	return ks.byName[field]
}
